// Package gate implements the per-screen lifecycle controller that decides,
// on every lifecycle transition and session change, whether a screen may stay
// visible.
//
// A screen owns one Gate and drives it from its own transition points
// (Resume, Pause, Restore, Destroy). The gate subscribes to session-changing
// events while the screen is alive and asks its Host to finish the screen, or
// to prompt for login, when required.
package gate

import (
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"guidekit/internal/bus"
	"guidekit/internal/session"
)

// Host is the screen-side collaborator of a gate.
type Host interface {
	// Finish tears the screen down (back-stack pop, animation, ...).
	Finish()
	// PromptLogin presents the re-authentication prompt.
	PromptLogin()
}

// Options configures a Gate.
type Options struct {
	Policy

	// Handlers are extra screen handlers registered under the gate's
	// subscriber identity. They follow the gate's registration lifecycle.
	// Handlers for the tags the gate itself handles are ignored.
	Handlers bus.Handlers
	// OnLogin is called after a Login event while the screen is alive.
	OnLogin func(bus.Login)
	// OnUnauthorized is called after the login prompt was presented.
	OnUnauthorized func()
	// Tracker, if set, lists the gate while it is not destroyed.
	Tracker *Tracker
}

// Gate is the lifecycle state machine of one screen. All methods except
// State, Kind, ID and Policy must be called on the UI loop.
type Gate struct {
	id      bus.SubscriberID
	kind    string
	bus     *bus.Bus
	session session.Reader
	host    Host
	opts    Options

	state      atomic.Int32
	registered bool
	log        zerolog.Logger
}

// New creates a gate in the Created state and registers its handlers, so
// unauthorized responses to requests issued during creation already reach it.
func New(kind string, b *bus.Bus, s session.Reader, host Host, opts Options, log zerolog.Logger) *Gate {
	g := &Gate{
		id:      bus.NewSubscriberID(),
		kind:    kind,
		bus:     b,
		session: s,
		host:    host,
		opts:    opts,
	}
	g.log = log.With().Str("component", "gate").Str("screen", kind).Str("id", string(g.id)).Logger()
	g.state.Store(int32(Created))
	transitionsTotal.WithLabelValues(Created.String()).Inc()
	g.register()
	if opts.Tracker != nil {
		opts.Tracker.add(g)
	}
	return g
}

// ID returns the gate's subscriber identity.
func (g *Gate) ID() bus.SubscriberID { return g.id }

// Kind returns the screen kind the gate was created for.
func (g *Gate) Kind() string { return g.kind }

// Policy returns the termination policy.
func (g *Gate) Policy() Policy { return g.opts.Policy }

// State returns the current lifecycle state. Safe from any goroutine.
func (g *Gate) State() State { return State(g.state.Load()) }

// Resume moves the screen to Resumed and (re)registers its handlers. Coming
// back from Paused re-checks the session, since events published while paused
// were not delivered.
func (g *Gate) Resume() {
	prev := g.State()
	if prev == Destroyed || prev == Resumed {
		return
	}
	g.setState(Resumed)
	g.register()
	if prev == Paused {
		g.enforce("restart")
	}
}

// Pause moves the screen to Paused and stops event delivery.
func (g *Gate) Pause() {
	if g.State() != Resumed {
		return
	}
	g.setState(Paused)
	g.unregister()
}

// Restore re-checks the session for a screen recreated from saved state,
// whose authorization may have lapsed while it was gone. It reports whether
// the screen survived.
func (g *Gate) Restore() bool {
	if g.State() == Destroyed {
		return false
	}
	return !g.enforce("restore")
}

// Destroy moves the screen to Destroyed. It is idempotent.
func (g *Gate) Destroy() {
	if g.State() == Destroyed {
		return
	}
	g.setState(Destroyed)
	g.unregister()
	if g.opts.Tracker != nil {
		g.opts.Tracker.remove(g)
	}
}

// Check evaluates the policy against the current session without acting.
func (g *Gate) Check() bool {
	return ShouldDestroy(g.opts.Policy, g.session.Current())
}

func (g *Gate) handlers() bus.Handlers {
	hs := make(bus.Handlers, len(g.opts.Handlers)+4)
	for tag, h := range g.opts.Handlers {
		hs[tag] = g.whileAlive(h)
	}
	hs[bus.TagLogin] = g.onLogin
	hs[bus.TagLogout] = g.onSessionLapse
	hs[bus.TagCancel] = g.onSessionLapse
	hs[bus.TagUnauthorized] = g.onUnauthorized
	return hs
}

func (g *Gate) register() {
	if g.registered {
		return
	}
	g.bus.Register(g.id, g.handlers())
	g.registered = true
}

func (g *Gate) unregister() {
	if !g.registered {
		return
	}
	g.bus.Unregister(g.id)
	g.registered = false
}

// whileAlive drops late deliveries to a screen that is no longer live.
func (g *Gate) whileAlive(h bus.Handler) bus.Handler {
	return func(e bus.Event) {
		if !g.alive() {
			return
		}
		h(e)
	}
}

func (g *Gate) alive() bool {
	s := g.State()
	return s == Created || s == Resumed
}

func (g *Gate) onLogin(e bus.Event) {
	if !g.alive() || g.opts.OnLogin == nil {
		return
	}
	if ev, ok := e.(bus.Login); ok {
		g.opts.OnLogin(ev)
	}
}

func (g *Gate) onSessionLapse(e bus.Event) {
	if !g.alive() {
		return
	}
	g.enforce(string(e.Tag()))
}

func (g *Gate) onUnauthorized(bus.Event) {
	if !g.alive() {
		return
	}
	reauthPromptsTotal.Inc()
	g.log.Info().Msg("unauthorized, prompting for login")
	g.host.PromptLogin()
	if g.opts.OnUnauthorized != nil {
		g.opts.OnUnauthorized()
	}
}

// enforce finishes the screen if the policy requires it and reports whether
// it did.
func (g *Gate) enforce(reason string) bool {
	if g.State() == Destroyed || !g.Check() {
		return false
	}
	g.log.Info().Str("reason", reason).Msg("session does not allow screen, finishing")
	terminationsTotal.WithLabelValues(g.kind).Inc()
	g.Destroy()
	g.host.Finish()
	return true
}

func (g *Gate) setState(s State) {
	g.state.Store(int32(s))
	transitionsTotal.WithLabelValues(s.String()).Inc()
	g.log.Debug().Str("state", s.String()).Msg("transition")
}
