// Package app wires the core components into a running application and
// exposes them to the HTTP debug API.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"guidekit/internal/bus"
	"guidekit/internal/client"
	"guidekit/internal/common/fsutil"
	"guidekit/internal/config"
	"guidekit/internal/gate"
	"guidekit/internal/loop"
	"guidekit/internal/overlay"
	"guidekit/internal/registry"
	"guidekit/internal/savedstate"
	"guidekit/internal/screens"
	"guidekit/internal/session"
)

// eventHistory bounds the events kept for GET /events.
const eventHistory = 256

// Options configures New.
type Options struct {
	Config config.Config
	// Registry overrides Config.SitesFile.
	Registry *registry.Registry
	// HTTPClient replaces the network client's transport.
	HTTPClient *http.Client
	Log        zerolog.Logger
}

// App owns the bus, the session, the UI loop and every live screen. All
// screen and bus access happens on the loop; exported methods may be called
// from any goroutine.
type App struct {
	cfg      config.Config
	reg      *registry.Registry
	bus      *bus.Bus
	session  *session.Store
	loop     *loop.Loop
	client   *client.Client
	recorder *bus.Recorder
	tracker  *gate.Tracker
	messages *overlay.Messages
	store    *savedstate.Store

	baseCtx context.Context
	cancel  context.CancelFunc
	ready   atomic.Bool

	// loop-owned
	screens map[bus.SubscriberID]*entry
	seq     int

	log zerolog.Logger
}

type entry struct {
	screen screens.Screen
	host   *headlessHost
}

// New builds the application. The session is attached to the bus before any
// other subscriber.
func New(opts Options) (*App, error) {
	cfg := opts.Config.WithDefaults()
	log := opts.Log

	reg := opts.Registry
	if reg == nil {
		var err error
		if reg, err = loadRegistry(cfg.SitesFile); err != nil {
			return nil, err
		}
	}
	site, err := reg.Lookup(cfg.DefaultSite)
	if err != nil {
		return nil, fmt.Errorf("default site: %w", err)
	}
	msgs, err := overlay.NewMessages(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	a := &App{
		cfg:      cfg,
		reg:      reg,
		bus:      bus.New(log),
		loop:     loop.New(0, log),
		recorder: bus.NewRecorder(eventHistory),
		tracker:  gate.NewTracker(),
		messages: msgs,
		screens:  make(map[bus.SubscriberID]*entry),
		log:      log.With().Str("component", "app").Logger(),
	}
	a.baseCtx, a.cancel = context.WithCancel(context.Background())
	a.session = session.New(site, log)
	a.session.Attach(a.bus)
	a.recorder.Attach(a.bus, bus.AllTags()...)
	a.client = client.New(client.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.RequestTimeout(),
		HTTPClient: opts.HTTPClient,
	}, a.session, a.bus, a.loop, log)

	if cfg.DataDir != "" {
		if a.store, err = savedstate.Open(cfg.DataDir); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(p) {
		return nil, fmt.Errorf("sites file not found: %s", p)
	}
	return registry.Load(p)
}

// Run drives the UI loop until ctx is done. Screens saved by a previous run
// are recreated first; live screens are saved on the way out.
func (a *App) Run(ctx context.Context) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopErr := make(chan error, 1)
	go func() { loopErr <- a.loop.Run(loopCtx) }()

	if err := a.loop.Call(ctx, a.restoreAll); err != nil && ctx.Err() == nil {
		a.log.Warn().Err(err).Msg("restore failed")
	}
	a.ready.Store(true)
	a.log.Info().Str("site", a.session.Current().Site.Name).Msg("app running")
	<-ctx.Done()
	a.ready.Store(false)

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := a.loop.Call(saveCtx, a.saveAll); err != nil {
		a.log.Warn().Err(err).Msg("saving screens failed")
	}
	cancel()

	a.cancel()
	stopLoop()
	<-loopErr
	a.client.Wait()
	a.bus.Close()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Ready reports whether the loop is running and saved screens are restored.
func (a *App) Ready() bool { return a.ready.Load() }

// Bus returns the application bus.
func (a *App) Bus() *bus.Bus { return a.bus }

// SessionStore returns the session store.
func (a *App) SessionStore() *session.Store { return a.session }

// Registry returns the site registry.
func (a *App) Registry() *registry.Registry { return a.reg }

func (a *App) deps() screens.Deps {
	return screens.Deps{
		Context:  a.baseCtx,
		Bus:      a.bus,
		Session:  a.session,
		Client:   a.client,
		Registry: a.reg,
		Messages: a.messages,
		Tracker:  a.tracker,
		Log:      a.log,
	}
}

// open creates a screen of kind, pausing the current foreground screens and
// resuming the new one. It returns nil if the screen finished while being
// created. Must run on the loop.
func (a *App) open(kind string, requiresAuth bool, saved *savedstate.Bundle) (*entry, error) {
	h := &headlessHost{app: a}
	var s screens.Screen
	switch kind {
	case screens.KindSiteList:
		s = screens.NewSiteList(a.deps(), h, saved)
	case screens.KindTopicBrowser:
		s = screens.NewTopicBrowser(a.deps(), h, requiresAuth, saved)
	default:
		return nil, ErrInvalid(fmt.Sprintf("unknown screen kind %q", kind))
	}
	h.screen = s
	h.log = a.log.With().Str("screen", kind).Str("id", string(s.Gate().ID())).Logger()
	if s.Gate().State() == gate.Destroyed {
		return nil, nil
	}
	for _, e := range a.screens {
		e.screen.Pause()
	}
	e := &entry{screen: s, host: h}
	a.screens[s.Gate().ID()] = e
	s.Resume()
	if s.Gate().State() == gate.Destroyed {
		return nil, nil
	}
	return e, nil
}

// forget drops a finished screen. Must run on the loop.
func (a *App) forget(s screens.Screen) {
	delete(a.screens, s.Gate().ID())
}

// finish drops a finished screen and, if no screen is left in the
// foreground, resumes the most recent one, which re-checks the session.
// Must run on the loop.
func (a *App) finish(s screens.Screen) {
	a.forget(s)
	l := a.live()
	if len(l) == 0 {
		return
	}
	for _, e := range l {
		if e.screen.Gate().State() == gate.Resumed {
			return
		}
	}
	top := l[len(l)-1]
	a.log.Debug().Str("screen", top.screen.Kind()).Msg("resuming screen below")
	top.screen.Resume()
}

// live returns the live screens in creation order. Must run on the loop.
func (a *App) live() []*entry {
	var out []*entry
	for _, g := range a.tracker.List() {
		if e, ok := a.screens[g.ID()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// latest returns the most recently created live screen of kind.
func (a *App) latest(kind string) *entry {
	l := a.live()
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].screen.Kind() == kind {
			return l[i]
		}
	}
	return nil
}

const keyRequiresAuth = "requires_auth"

// saveAll writes every live screen to the store. Only the current site is
// saved with it; the user and auth token are not.
func (a *App) saveAll() {
	if a.store == nil {
		return
	}
	for i, e := range a.live() {
		b := savedstate.NewBundle()
		if err := e.screen.Save(b); err != nil {
			a.log.Warn().Err(err).Str("screen", e.screen.Kind()).Msg("save failed")
			continue
		}
		if e.screen.Gate().Policy().RequiresAuthOnLogout {
			_ = b.Set(keyRequiresAuth, true)
		}
		snap := a.session.Current()
		snap.User, snap.Authenticating = nil, false
		_ = b.PutSession(snap)
		key := fmt.Sprintf("%04d:%s", i, e.screen.Kind())
		if err := a.store.Save(key, b); err != nil {
			a.log.Warn().Err(err).Str("key", key).Msg("save failed")
		}
	}
}

func (a *App) restoreAll() {
	if a.store == nil {
		return
	}
	keys, err := a.store.Keys()
	if err != nil {
		a.log.Warn().Err(err).Msg("list saved screens")
		return
	}
	for _, key := range keys {
		b, err := a.store.Load(key)
		if err == nil {
			a.restoreSite(b)
			kind := key[strings.IndexByte(key, ':')+1:]
			var requiresAuth bool
			_ = b.Get(keyRequiresAuth, &requiresAuth)
			e, oerr := a.open(kind, requiresAuth, b)
			switch {
			case oerr != nil:
				a.log.Warn().Err(oerr).Str("key", key).Msg("discarding saved screen")
			case e == nil:
				a.log.Info().Str("screen", kind).Msg("saved screen no longer allowed")
			default:
				a.log.Info().Str("screen", kind).Msg("screen restored")
			}
		}
		if err := a.store.Delete(key); err != nil {
			a.log.Warn().Err(err).Str("key", key).Msg("delete saved screen")
		}
	}
}

// restoreSite makes the site saved with a screen current again. The user is
// not restored: credentials do not outlive the process.
func (a *App) restoreSite(b *savedstate.Bundle) {
	snap, err := b.Session()
	if err != nil {
		return
	}
	site, err := a.reg.Lookup(snap.Site.Name)
	if err != nil || site == a.session.Current().Site {
		return
	}
	a.bus.Publish(bus.SiteChanged{Site: site})
}
