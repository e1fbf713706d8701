package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"bogus": LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q)=%d want %d", in, got, want)
		}
	}
}

func TestRequestLogLevelOverrides(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/sites?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("log=1 => %d", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/sites?log=error", nil)
	r.Header.Set("X-Log-Level", "debug")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("query should win over header, got %d", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/sites", nil)
	r.Header.Set("X-Log-Level", "info")
	if got := requestLogLevel(r); got != LevelInfo {
		t.Fatalf("header => %d", got)
	}
}

func TestLogRequestRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	r := httptest.NewRequest(http.MethodGet, "/sites?log=error&q=x", nil)
	logRequest(r, http.StatusOK, time.Now(), nil)
	if buf.Len() != 0 {
		t.Fatalf("success logged at error level: %s", buf.String())
	}
	logRequest(r, http.StatusConflict, time.Now(), errors.New("boom"))
	if !strings.Contains(buf.String(), `"status":409`) || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("failure not logged: %s", buf.String())
	}

	buf.Reset()
	r = httptest.NewRequest(http.MethodGet, "/sites?log=debug&q=x", nil)
	logRequest(r, http.StatusOK, time.Now(), nil)
	if !strings.Contains(buf.String(), `"query":"log=debug&q=x"`) {
		t.Fatalf("debug should include query: %s", buf.String())
	}

	buf.Reset()
	r = httptest.NewRequest(http.MethodGet, "/sites?log=off", nil)
	logRequest(r, http.StatusInternalServerError, time.Now(), errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("off should not log: %s", buf.String())
	}
}
