package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// Service whose Logout blocks until the context is done; used to exercise
// the timeout path.
type blockService struct{ mockService }

func (b *blockService) Logout(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func withOptions(t *testing.T, o Options) {
	t.Helper()
	Configure(o)
	t.Cleanup(func() { Configure(Options{}) })
}

func TestConfigureDefaults(t *testing.T) {
	withOptions(t, Options{MaxBodyBytes: -1, RequestTimeout: -time.Second})
	o := CurrentOptions()
	if o.MaxBodyBytes != DefaultMaxBodyBytes || o.RequestTimeout != 0 {
		t.Fatalf("unexpected options %+v", o)
	}
	if len(o.CORS.Methods) == 0 || len(o.CORS.Headers) == 0 {
		t.Fatalf("CORS methods and headers should default: %+v", o.CORS)
	}
}

func TestRequestLogsWithZerolog(t *testing.T) {
	SetLogger(zerolog.New(io.Discard))
	defer SetLogger(zerolog.Nop())

	h := NewMux(&mockService{})
	for _, lvl := range []string{"info", "debug", "error"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sites?log="+lvl, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with %s logging, got %d", lvl, rec.Code)
		}
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	withOptions(t, Options{CORS: CORSOptions{Enabled: true, Origins: []string{"*"}}})

	h := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header Access-Control-Allow-Origin to be set, got empty")
	}
}

func TestCORSDisabledByDefault(t *testing.T) {
	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}

func TestRequestTimeoutReturns504(t *testing.T) {
	withOptions(t, Options{RequestTimeout: time.Second})

	h := NewMux(&blockService{})
	start := time.Now()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/logout", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504 on timeout, got %d", rec.Code)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not applied")
	}
}

func TestBaseContextCancelStopsHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetBaseContext(ctx)
	defer SetBaseContext(nil)
	cancel()

	h := NewMux(&blockService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/logout", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after shutdown, got %d", rec.Code)
	}
}
