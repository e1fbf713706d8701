// Package screens contains the gated screens of the application. Each
// screen owns a lifecycle gate and an overlay stack and is driven from the UI
// loop by its host.
package screens

import (
	"context"

	"github.com/rs/zerolog"

	"guidekit/internal/bus"
	"guidekit/internal/gate"
	"guidekit/internal/overlay"
	"guidekit/internal/registry"
	"guidekit/internal/savedstate"
	"guidekit/internal/session"
)

// Screen kinds.
const (
	KindSiteList     = "sites"
	KindTopicBrowser = "topics"
)

// ErrorTag names the dismissible error overlay.
const ErrorTag = "ERROR"

// MainContainer is the container overlays are shown in.
const MainContainer = "main"

// Host is everything a screen needs from the platform.
type Host interface {
	gate.Host
	overlay.Presenter
	// ShowError reports a failed request to the user.
	ShowError(err error)
}

// Fetcher is the part of the network client screens use.
type Fetcher interface {
	FetchSites(ctx context.Context)
	FetchTopics(ctx context.Context)
}

// Deps are the shared collaborators of every screen.
type Deps struct {
	// Context bounds requests issued by screens. It must outlive any
	// single HTTP request.
	Context  context.Context
	Bus      *bus.Bus
	Session  session.Reader
	Client   Fetcher
	Registry *registry.Registry
	Messages *overlay.Messages
	Tracker  *gate.Tracker
	Log      zerolog.Logger
}

func (d Deps) ctx() context.Context {
	if d.Context == nil {
		return context.Background()
	}
	return d.Context
}

// Screen is the common surface of the screens.
type Screen interface {
	Kind() string
	Gate() *gate.Gate
	Overlays() *overlay.Stack
	Resume()
	Pause()
	Destroy()
	// Save writes the state needed to recreate the screen.
	Save(b *savedstate.Bundle) error
}

// base carries the parts shared by all screens.
type base struct {
	kind     string
	deps     Deps
	host     Host
	gate     *gate.Gate
	overlays *overlay.Stack
	query    string
	fetching bool
	log      zerolog.Logger
}

func newBase(kind string, d Deps, host Host, policy gate.Policy, handlers bus.Handlers, onLogin func(bus.Login)) *base {
	b := &base{
		kind:     kind,
		deps:     d,
		host:     host,
		overlays: overlay.NewStack(host, d.Messages),
		log:      d.Log.With().Str("screen", kind).Logger(),
	}
	b.gate = gate.New(kind, d.Bus, d.Session, host, gate.Options{
		Policy:   policy,
		Handlers: handlers,
		OnLogin:  onLogin,
		// a 401 completes the request without a result event
		OnUnauthorized: func() {
			if b.fetching {
				b.endFetch()
			}
		},
		Tracker: d.Tracker,
	}, d.Log)
	return b
}

func (b *base) Kind() string             { return b.kind }
func (b *base) Gate() *gate.Gate         { return b.gate }
func (b *base) Overlays() *overlay.Stack { return b.overlays }
func (b *base) Query() string            { return b.query }

// Pause stops event delivery. A fetch in flight can no longer complete, so
// it is dropped with its loading overlay and reissued on the next Resume.
func (b *base) Pause() {
	b.gate.Pause()
	if b.gate.State() == gate.Paused && b.fetching {
		b.endFetch()
	}
}

// Destroy tears the screen down and dismisses its overlays.
func (b *base) Destroy() {
	b.gate.Destroy()
	b.overlays.Clear()
}

// DismissError hides the error overlay, if shown.
func (b *base) DismissError() bool { return b.overlays.HideTag(ErrorTag) }

// restoreQuery reads the saved search query, if any.
func (b *base) restoreQuery(saved *savedstate.Bundle) {
	if saved == nil {
		return
	}
	_ = saved.Get(savedstate.KeyQuery, &b.query)
}

func (b *base) saveQuery(bundle *savedstate.Bundle) error {
	if b.query == "" {
		return nil
	}
	return bundle.Set(savedstate.KeyQuery, b.query)
}

// startFetch issues a request under the loading overlay unless one is
// already in flight.
func (b *base) startFetch(fetch func(context.Context)) {
	if b.fetching {
		return
	}
	b.fetching = true
	b.overlays.ShowLoading(MainContainer)
	fetch(b.deps.ctx())
}

func (b *base) endFetch() {
	b.fetching = false
	b.overlays.HideTag(overlay.LoadingTag)
}

// resumed reports whether the screen is in the foreground.
func (b *base) resumed() bool { return b.gate.State() == gate.Resumed }

// fail shows a failed request as a dismissible error overlay.
func (b *base) fail(err error) {
	b.log.Warn().Err(err).Msg("request failed")
	b.overlays.ShowTagged(ErrorTag, MainContainer, b.deps.Messages.Get(overlay.MsgErrorTitle))
	b.host.ShowError(err)
}

// recreated reports whether the screen survived a restore check.
func (b *base) recreated(saved *savedstate.Bundle) bool {
	if saved == nil {
		return true
	}
	return b.gate.Restore()
}
