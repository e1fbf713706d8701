//go:build !swagger

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSwaggerNotMountedByDefault(t *testing.T) {
	h := NewMux(&mockService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without swagger tag, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "-tags=swagger") {
		t.Fatalf("expected build hint, got %q", rec.Body.String())
	}
}
