package bus

import "guidekit/pkg/types"

// Tag identifies an event kind. Handlers are registered per Tag.
type Tag string

const (
	TagLogin        Tag = "login"
	TagLogout       Tag = "logout"
	TagCancel       Tag = "cancel"
	TagLoginStarted Tag = "login_started"
	TagSiteChanged  Tag = "site_changed"
	TagUnauthorized Tag = "api_unauthorized"

	// API result kinds.
	TagSites       Tag = "api_result:sites"
	TagTopics      Tag = "api_result:topics"
	TagLoginResult Tag = "api_result:login"
)

// AllTags lists every tag defined by this package.
func AllTags() []Tag {
	return []Tag{
		TagLogin, TagLogout, TagCancel, TagLoginStarted, TagSiteChanged,
		TagUnauthorized, TagSites, TagTopics, TagLoginResult,
	}
}

// Event is anything that can be published on the bus. Events are values and
// must not be mutated once published.
type Event interface {
	Tag() Tag
}

// Login is published when a user finished logging in.
type Login struct {
	User types.User
}

func (Login) Tag() Tag { return TagLogin }

// Logout is published when the user logged out.
type Logout struct{}

func (Logout) Tag() Tag { return TagLogout }

// Cancel is published when an in-progress login was abandoned.
type Cancel struct{}

func (Cancel) Tag() Tag { return TagCancel }

// LoginStarted is published when a login request is sent.
type LoginStarted struct{}

func (LoginStarted) Tag() Tag { return TagLoginStarted }

// SiteChanged is published when the current site is replaced.
type SiteChanged struct {
	Site types.Site
}

func (SiteChanged) Tag() Tag { return TagSiteChanged }

// APIUnauthorized is published when an API call was rejected with 401.
type APIUnauthorized struct{}

func (APIUnauthorized) Tag() Tag { return TagUnauthorized }

// APIResult carries the completion of a network call. Exactly one of Payload
// and Err is meaningful.
type APIResult[T any] struct {
	Kind    Tag
	Payload T
	Err     error
}

// Result constructs an APIResult of the given kind.
func Result[T any](kind Tag, payload T, err error) APIResult[T] {
	return APIResult[T]{Kind: kind, Payload: payload, Err: err}
}

func (r APIResult[T]) Tag() Tag { return r.Kind }

// HasError reports whether the call failed.
func (r APIResult[T]) HasError() bool { return r.Err != nil }

// errorCarrier is implemented by every APIResult instantiation so callers can
// read the error without knowing T.
type errorCarrier interface {
	resultErr() error
}

func (r APIResult[T]) resultErr() error { return r.Err }

// ErrorOf returns the error carried by an APIResult event, or nil.
func ErrorOf(e Event) error {
	if c, ok := e.(errorCarrier); ok {
		return c.resultErr()
	}
	return nil
}
