package overlay

import (
	"embed"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Message ids shipped in locales/.
const (
	MsgLoading       = "loading"
	MsgErrorTitle    = "error_title"
	MsgErrorDismiss  = "error_dismiss"
	MsgLoginRequired = "login_required"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Messages resolves user-visible overlay strings for one locale, falling back
// to English.
type Messages struct {
	localizer *i18n.Localizer
}

// NewMessages loads the embedded catalogs. Unknown or empty locales resolve
// to English.
func NewMessages(locale string) (*Messages, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		p := path.Join("locales", e.Name())
		b, err := localeFS.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(b, p); err != nil {
			return nil, err
		}
	}
	return &Messages{localizer: i18n.NewLocalizer(bundle, locale, language.English.String())}, nil
}

// Get returns the localized message for id, or id itself when it is unknown.
func (m *Messages) Get(id string) string {
	if m == nil {
		return id
	}
	// A message missing from the requested catalog comes back in English
	// together with a not-found error.
	s, _ := m.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if s == "" {
		return id
	}
	return s
}

// Loading returns the default loading message.
func (m *Messages) Loading() string { return m.Get(MsgLoading) }
