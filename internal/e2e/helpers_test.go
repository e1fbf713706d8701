package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"guidekit/internal/app"
	"guidekit/internal/config"
	"guidekit/internal/httpapi"
	"guidekit/internal/registry"
	"guidekit/pkg/types"
)

// upstream fakes the guide API every site points at.
type upstream struct {
	srv     *httptest.Server
	expired atomic.Bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2.0/categories", func(w http.ResponseWriter, r *http.Request) {
		if u.expired.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"Phone":{"iPhone":{"iPhone 4":null,"iPhone 4S":null},"Android Phone":null},"Camera":null}`))
	})
	mux.HandleFunc("/api/2.0/sites", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.Site{{Name: "ifixit", Title: "iFixit", Public: true}})
	})
	mux.HandleFunc("/api/2.0/user/token", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct{ Login, Password string }
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(types.User{ID: 7, Username: req.Login, AuthToken: "tok"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

// newServer runs an app behind the HTTP API until the test ends or stop is
// called.
func newServer(t *testing.T, u *upstream, dataDir string) (*httptest.Server, func()) {
	t.Helper()
	reg, err := registry.New([]types.Site{
		{Name: registry.SiteChooser, Public: true},
		{Name: "ifixit", Public: true},
		{Name: "acme", Public: false},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	a, err := app.New(app.Options{
		Config: config.Config{
			APIBaseURL:  u.srv.URL + "/api/2.0",
			DataDir:     dataDir,
			DefaultSite: "ifixit",
		},
		Registry: reg,
		Log:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	srv := httptest.NewServer(httpapi.NewMux(a))

	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		srv.Close()
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	}
	t.Cleanup(stop)
	eventually(t, "ready", func() bool {
		resp, _ := httpGet(t, srv.URL+"/readyz")
		return resp.StatusCode == http.StatusOK
	})
	return srv, stop
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, body := httpGet(t, url)
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(body, v); err != nil {
			t.Fatalf("decode %s: %v (%s)", url, err, body)
		}
	}
	return resp.StatusCode
}

func mustPost(t *testing.T, url, body string, want int) []byte {
	t.Helper()
	var payload []byte
	if body != "" {
		payload = []byte(body)
	}
	resp, b := httpPostJSON(t, url, payload)
	if resp.StatusCode != want {
		t.Fatalf("POST %s: status=%d want %d body=%s", url, resp.StatusCode, want, b)
	}
	return b
}

func session(t *testing.T, base string) types.SessionResponse {
	t.Helper()
	var s types.SessionResponse
	if code := getJSON(t, base+"/session", &s); code != http.StatusOK {
		t.Fatalf("session status=%d", code)
	}
	return s
}

func liveScreens(t *testing.T, base string) []types.ScreenStatus {
	t.Helper()
	var s types.ScreensResponse
	if code := getJSON(t, base+"/screens", &s); code != http.StatusOK {
		t.Fatalf("screens status=%d", code)
	}
	return s.Screens
}

func eventTags(t *testing.T, base string) []string {
	t.Helper()
	var ev types.EventsResponse
	if code := getJSON(t, base+"/events", &ev); code != http.StatusOK {
		t.Fatalf("events status=%d", code)
	}
	tags := make([]string, len(ev.Events))
	for i, e := range ev.Events {
		tags[i] = e.Tag
	}
	return tags
}

func login(t *testing.T, base string) {
	t.Helper()
	mustPost(t, base+"/session/login", `{"username":"jdoe","password":"pw"}`, http.StatusAccepted)
	eventually(t, "login", func() bool { return session(t, base).User != nil })
}

func topicsLoaded(t *testing.T, base string) func() bool {
	return func() bool {
		resp, _ := httpGet(t, base+"/topics")
		return resp.StatusCode == http.StatusOK
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
