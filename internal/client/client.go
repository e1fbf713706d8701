// Package client talks to the remote guide API. Every call is asynchronous:
// the request runs on its own goroutine and its completion is posted to the
// UI loop, where it is published on the bus as an event.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "github.com/BrandonKowalski/certifiable" // Add CA certificates to the default trust store
	"github.com/rs/zerolog"

	"guidekit/internal/bus"
	"guidekit/internal/session"
	"guidekit/internal/topic"
	"guidekit/pkg/types"
)

// Publisher receives completion events.
type Publisher interface {
	Publish(e bus.Event)
}

// Poster schedules a function on the UI loop. Post returns false once the
// loop has stopped.
type Poster interface {
	Post(fn func()) bool
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides the per-site API root ("https://<domain>/api/2.0").
	BaseURL string
	// Timeout bounds every request. Zero means no client-side deadline.
	Timeout time.Duration
	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// Client is the network collaborator of the screens.
type Client struct {
	opts    Options
	http    *http.Client
	session session.Reader
	pub     Publisher
	post    Poster
	log     zerolog.Logger

	wg          sync.WaitGroup
	mu          sync.Mutex
	cancelLogin context.CancelFunc
	loginSeq    uint64
}

// New constructs a Client.
func New(opts Options, s session.Reader, pub Publisher, post Poster, log zerolog.Logger) *Client {
	cli := opts.HTTPClient
	if cli == nil {
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Deadlines come from the request context.
		cli = &http.Client{Transport: tr}
	}
	return &Client{
		opts:    opts,
		http:    cli,
		session: s,
		pub:     pub,
		post:    post,
		log:     log.With().Str("component", "client").Logger(),
	}
}

// FetchSites requests the site list. Completion: APIResult[[]types.Site]
// tagged api_result:sites, or APIUnauthorized.
func (c *Client) FetchSites(ctx context.Context) {
	req := c.prepare()
	c.spawn(ctx, func(ctx context.Context) {
		var sites []types.Site
		err := c.do(ctx, req, "sites", http.MethodGet, "sites", nil, func(r io.Reader) error {
			return json.NewDecoder(r).Decode(&sites)
		})
		c.complete(bus.Result(bus.TagSites, sites, err), err)
	})
}

// FetchTopics requests the topic tree of the current site. Completion:
// APIResult[*topic.Node] tagged api_result:topics, or APIUnauthorized.
func (c *Client) FetchTopics(ctx context.Context) {
	req := c.prepare()
	c.spawn(ctx, func(ctx context.Context) {
		var root *topic.Node
		err := c.do(ctx, req, "topics", http.MethodGet, "categories", nil, func(r io.Reader) error {
			var err error
			root, err = topic.Parse(r)
			return err
		})
		c.complete(bus.Result(bus.TagTopics, root, err), err)
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login authenticates. LoginStarted is published first; completion is Login
// on success or a failed APIResult tagged api_result:login. A login cancelled
// with CancelLogin publishes nothing further.
func (c *Client) Login(ctx context.Context, login, password string) {
	req := c.prepare()
	req.token = ""
	c.deliver(bus.LoginStarted{})

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancelLogin != nil {
		c.cancelLogin()
	}
	c.cancelLogin = cancel
	c.loginSeq++
	seq := c.loginSeq
	c.mu.Unlock()

	body, err := json.Marshal(loginRequest{Login: login, Password: password})
	if err != nil {
		cancel()
		c.deliver(bus.Result(bus.TagLoginResult, types.User{}, &APIError{Op: "login", Err: err}))
		return
	}
	c.spawn(ctx, func(ctx context.Context) {
		defer cancel()
		defer c.loginDone(seq)
		var user types.User
		err := c.do(ctx, req, "login", http.MethodPost, "user/token", body, func(r io.Reader) error {
			return json.NewDecoder(r).Decode(&user)
		})
		if errors.Is(ctx.Err(), context.Canceled) {
			c.log.Debug().Msg("login cancelled, dropping result")
			return
		}
		if err != nil {
			c.deliver(bus.Result(bus.TagLoginResult, types.User{}, err))
			return
		}
		c.deliver(bus.Login{User: user})
	})
}

// CancelLogin aborts an in-flight login and publishes Cancel. It does
// nothing when no login is in flight, so a signed-in user stays signed in.
func (c *Client) CancelLogin() {
	c.mu.Lock()
	inFlight := c.cancelLogin != nil
	if inFlight {
		c.cancelLogin()
		c.cancelLogin = nil
	}
	c.mu.Unlock()
	if !inFlight && !c.session.Current().Authenticating {
		c.log.Debug().Msg("no login in flight, ignoring cancel")
		return
	}
	c.deliver(bus.Cancel{})
}

// loginDone forgets the cancel func of login seq unless a newer login
// replaced it.
func (c *Client) loginDone(seq uint64) {
	c.mu.Lock()
	if c.loginSeq == seq {
		c.cancelLogin = nil
	}
	c.mu.Unlock()
}

// Logout publishes Logout right away and revokes the token on the server in
// the background. A failed revocation is logged only.
func (c *Client) Logout(ctx context.Context) {
	req := c.prepare()
	c.deliver(bus.Logout{})
	if req.token == "" {
		return
	}
	c.spawn(ctx, func(ctx context.Context) {
		if err := c.do(ctx, req, "logout", http.MethodDelete, "user/token", nil, nil); err != nil {
			c.log.Warn().Err(err).Msg("token revocation failed")
		}
	})
}

// Wait blocks until every in-flight request has completed.
func (c *Client) Wait() { c.wg.Wait() }

// target is captured on the calling goroutine so requests see the session as
// it was when issued.
type target struct {
	base  string
	token string
}

func (c *Client) prepare() target {
	snap := c.session.Current()
	t := target{base: c.opts.BaseURL}
	if t.base == "" {
		t.base = "https://" + snap.Site.Domain + "/api/2.0"
	}
	t.base = strings.TrimRight(t.base, "/")
	if snap.User != nil {
		t.token = snap.User.AuthToken
	}
	return t
}

func (c *Client) spawn(ctx context.Context, fn func(context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if c.opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
			defer cancel()
		}
		fn(ctx)
	}()
}

// complete delivers a result, turning 401 into APIUnauthorized.
func (c *Client) complete(result bus.Event, err error) {
	if IsUnauthorized(err) {
		c.deliver(bus.APIUnauthorized{})
		return
	}
	c.deliver(result)
}

func (c *Client) deliver(e bus.Event) {
	if !c.post.Post(func() { c.pub.Publish(e) }) {
		c.log.Debug().Str("tag", string(e.Tag())).Msg("loop stopped, dropping event")
	}
}

func (c *Client) do(ctx context.Context, t target, op, method, path string, body []byte, decode func(io.Reader) error) (err error) {
	defer func() { requestsTotal.WithLabelValues(op, outcome(err)).Inc() }()
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.base+"/"+path, rd)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set("Authorization", "api "+t.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &APIError{Op: op, Status: resp.StatusCode, Err: ErrUnauthorized}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		return &APIError{Op: op, Status: resp.StatusCode, Err: errors.New(text)}
	}
	if decode == nil {
		return nil
	}
	if err := decode(resp.Body); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
