// Package session holds the process-wide authentication and site context.
//
// The Store is mutated only by its own bus handlers (Login, Logout, Cancel,
// LoginStarted, SiteChanged and failed login results). Callers that want to
// change the session publish the matching event; everyone else reads
// snapshots through Current.
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"guidekit/internal/bus"
	"guidekit/pkg/types"
)

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Site           types.Site  `json:"site"`
	User           *types.User `json:"user,omitempty"`
	Authenticating bool        `json:"authenticating"`
}

// LoggedIn reports whether a user is present.
func (s Snapshot) LoggedIn() bool { return s.User != nil }

// Reader is the read side of a Store.
type Reader interface {
	Current() Snapshot
}

// Store is the single session instance of a process. Construct it once and
// pass it to the components that need it.
type Store struct {
	mu             sync.RWMutex
	site           types.Site
	user           *types.User
	authenticating bool

	id  bus.SubscriberID
	log zerolog.Logger
}

// New creates a logged-out Store whose current site is site.
func New(site types.Site, log zerolog.Logger) *Store {
	return &Store{
		site: site,
		id:   bus.NewSubscriberID(),
		log:  log.With().Str("component", "session").Logger(),
	}
}

// Current returns a snapshot of the session.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Site: s.site, Authenticating: s.authenticating}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Attach registers the store's handlers on b. It must be called before any
// screen registers so the session is updated before screens react.
func (s *Store) Attach(b *bus.Bus) {
	b.Register(s.id, bus.Handlers{
		bus.TagLogin: func(e bus.Event) {
			if ev, ok := e.(bus.Login); ok {
				s.applyLogin(ev.User)
			}
		},
		bus.TagLogout:       func(bus.Event) { s.applyLogout() },
		bus.TagCancel:       func(bus.Event) { s.applyCancel() },
		bus.TagLoginStarted: func(bus.Event) { s.beginLogin() },
		bus.TagLoginResult: func(e bus.Event) {
			if bus.ErrorOf(e) != nil {
				s.loginFailed()
			}
		},
		bus.TagSiteChanged: func(e bus.Event) {
			if ev, ok := e.(bus.SiteChanged); ok {
				s.setSite(ev.Site)
			}
		},
	})
}

// Detach removes the store's handlers from b.
func (s *Store) Detach(b *bus.Bus) { b.Unregister(s.id) }

func (s *Store) applyLogin(u types.User) {
	s.mu.Lock()
	s.user = &u
	s.authenticating = false
	s.mu.Unlock()
	s.log.Info().Str("user", u.Username).Msg("logged in")
}

func (s *Store) applyLogout() {
	s.mu.Lock()
	s.user = nil
	s.authenticating = false
	s.mu.Unlock()
	s.log.Info().Msg("logged out")
}

func (s *Store) applyCancel() {
	s.mu.Lock()
	s.user = nil
	s.authenticating = false
	s.mu.Unlock()
	s.log.Debug().Msg("login cancelled")
}

// beginLogin is ignored while a user is logged in so that a present user
// always implies authenticating == false.
func (s *Store) beginLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		return
	}
	s.authenticating = true
}

func (s *Store) loginFailed() {
	s.mu.Lock()
	s.authenticating = false
	s.mu.Unlock()
	s.log.Debug().Msg("login failed")
}

func (s *Store) setSite(site types.Site) {
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
	s.log.Info().Str("site", site.Name).Bool("public", site.Public).Msg("site changed")
}
