package app

import (
	"context"
	"strings"

	"guidekit/internal/bus"
	"guidekit/internal/gate"
	"guidekit/internal/savedstate"
	"guidekit/internal/screens"
	"guidekit/internal/topic"
	"guidekit/pkg/types"
)

// Screen actions accepted by ScreenAction.
const (
	ActionPause   = "pause"
	ActionResume  = "resume"
	ActionRestore = "restore"
	ActionDestroy = "destroy"
)

// Session returns the current session without the auth token.
func (a *App) Session() types.SessionResponse {
	snap := a.session.Current()
	resp := types.SessionResponse{Site: snap.Site, Authenticating: snap.Authenticating}
	if snap.User != nil {
		resp.User = &types.UserView{ID: snap.User.ID, Username: snap.User.Username}
	}
	return resp
}

// Login starts a login. The outcome arrives asynchronously on the bus.
func (a *App) Login(ctx context.Context, req types.LoginRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return ErrInvalid("username is required")
	}
	return a.loop.Call(ctx, func() { a.client.Login(a.baseCtx, req.Username, req.Password) })
}

// Logout logs the user out.
func (a *App) Logout(ctx context.Context) error {
	return a.loop.Call(ctx, func() { a.client.Logout(a.baseCtx) })
}

// CancelLogin aborts a login in progress.
func (a *App) CancelLogin(ctx context.Context) error {
	return a.loop.Call(ctx, a.client.CancelLogin)
}

// SetSite makes the named registry site current.
func (a *App) SetSite(ctx context.Context, name string) error {
	site, err := a.reg.Lookup(name)
	if err != nil {
		return ErrNotFound("site", name)
	}
	return a.loop.Call(ctx, func() { a.bus.Publish(bus.SiteChanged{Site: site}) })
}

// Sites searches the list of the latest loaded site list screen, or the
// registry when no such screen is open.
func (a *App) Sites(ctx context.Context, query string) (types.SitesResponse, error) {
	var resp types.SitesResponse
	err := a.loop.Call(ctx, func() {
		if e := a.latest(screens.KindSiteList); e != nil {
			if sl := e.screen.(*screens.SiteList); sl.Loaded() {
				resp.Sites = sl.Search(query)
				return
			}
		}
		resp.Sites = a.reg.Search(query)
	})
	return resp, err
}

// Topics searches the tree of the latest topic browser.
func (a *App) Topics(ctx context.Context, query string) (types.TopicsResponse, error) {
	resp := types.TopicsResponse{Query: query, Matches: []types.TopicMatch{}}
	var serr error
	err := a.loop.Call(ctx, func() {
		e := a.latest(screens.KindTopicBrowser)
		if e == nil {
			serr = ErrConflict("no topic browser is open")
			return
		}
		tb := e.screen.(*screens.TopicBrowser)
		if tb.Root() == nil {
			serr = ErrConflict("topics are not loaded yet")
			return
		}
		resp.Matches = matches(tb.Search(query))
	})
	if err != nil {
		return resp, err
	}
	return resp, serr
}

func matches(nodes []*topic.Node) []types.TopicMatch {
	out := make([]types.TopicMatch, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, types.TopicMatch{Name: n.Name(), Leaf: n.IsLeaf()})
	}
	return out
}

// Screens lists the live screens in creation order.
func (a *App) Screens(ctx context.Context) (types.ScreensResponse, error) {
	resp := types.ScreensResponse{Screens: []types.ScreenStatus{}}
	err := a.loop.Call(ctx, func() {
		for _, e := range a.live() {
			resp.Screens = append(resp.Screens, status(e.screen))
		}
	})
	return resp, err
}

// OpenScreen creates and resumes a screen. A screen that finished right away
// reports the Destroyed state.
func (a *App) OpenScreen(ctx context.Context, req types.OpenScreenRequest) (types.ScreenStatus, error) {
	var (
		st   types.ScreenStatus
		oerr error
	)
	err := a.loop.Call(ctx, func() {
		var e *entry
		e, oerr = a.open(req.Kind, req.RequiresAuth, nil)
		switch {
		case oerr != nil:
		case e == nil:
			st = types.ScreenStatus{Kind: req.Kind, State: gate.Destroyed.String(), RequiresAuth: req.RequiresAuth}
		default:
			st = status(e.screen)
		}
	})
	if err != nil {
		return st, err
	}
	return st, oerr
}

// ScreenAction applies a lifecycle transition to a live screen. Restore
// recreates the screen from its saved state, as after process death, and
// returns the new screen.
func (a *App) ScreenAction(ctx context.Context, id, action string) (types.ScreenStatus, error) {
	var (
		st   types.ScreenStatus
		aerr error
	)
	err := a.loop.Call(ctx, func() {
		e, ok := a.screens[bus.SubscriberID(id)]
		if !ok {
			aerr = ErrNotFound("screen", id)
			return
		}
		s := e.screen
		switch action {
		case ActionPause:
			s.Pause()
		case ActionResume:
			for _, other := range a.screens {
				if other != e {
					other.screen.Pause()
				}
			}
			s.Resume()
		case ActionDestroy:
			s.Destroy()
			a.finish(s)
		case ActionRestore:
			st, aerr = a.recreate(e)
			return
		default:
			aerr = ErrInvalid("unknown action " + action)
			return
		}
		st = status(s)
	})
	if err != nil {
		return st, err
	}
	return st, aerr
}

func (a *App) recreate(e *entry) (types.ScreenStatus, error) {
	s := e.screen
	b := savedstate.NewBundle()
	if err := s.Save(b); err != nil {
		return types.ScreenStatus{}, err
	}
	requiresAuth := s.Gate().Policy().RequiresAuthOnLogout
	s.Destroy()
	a.forget(s)
	ne, err := a.open(s.Kind(), requiresAuth, b)
	if err != nil {
		return types.ScreenStatus{}, err
	}
	if ne == nil {
		return types.ScreenStatus{Kind: s.Kind(), State: gate.Destroyed.String(), RequiresAuth: requiresAuth}, nil
	}
	return status(ne.screen), nil
}

// Events returns up to limit recent events, oldest first. limit <= 0 returns
// everything kept.
func (a *App) Events(limit int) types.EventsResponse {
	recs := a.recorder.Records()
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	resp := types.EventsResponse{Events: make([]types.EventRecord, 0, len(recs))}
	for _, r := range recs {
		er := types.EventRecord{Tag: string(r.Event.Tag()), AtUnixMilli: r.At.UnixMilli()}
		if err := bus.ErrorOf(r.Event); err != nil {
			er.Error = err.Error()
		}
		resp.Events = append(resp.Events, er)
	}
	return resp
}

func status(s screens.Screen) types.ScreenStatus {
	g := s.Gate()
	p := g.Policy()
	return types.ScreenStatus{
		ID:           string(g.ID()),
		Kind:         s.Kind(),
		State:        g.State().String(),
		RequiresAuth: p.RequiresAuthOnLogout,
		NeverDestroy: p.NeverDestroyOnLogout,
		Overlays:     s.Overlays().Tags(),
	}
}
