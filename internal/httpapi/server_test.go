package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guidekit/internal/app"
	"guidekit/internal/loop"
	"guidekit/pkg/types"
)

type mockService struct {
	ready   bool
	session types.SessionResponse
	err     error

	lastLogin  types.LoginRequest
	lastSite   string
	lastQuery  string
	lastAction string
	lastLimit  int
	logouts    int
	cancels    int
}

func (m *mockService) Ready() bool                    { return m.ready }
func (m *mockService) Session() types.SessionResponse { return m.session }
func (m *mockService) Login(ctx context.Context, req types.LoginRequest) error {
	m.lastLogin = req
	return m.err
}
func (m *mockService) Logout(ctx context.Context) error      { m.logouts++; return m.err }
func (m *mockService) CancelLogin(ctx context.Context) error { m.cancels++; return m.err }
func (m *mockService) SetSite(ctx context.Context, name string) error {
	m.lastSite = name
	return m.err
}
func (m *mockService) Sites(ctx context.Context, q string) (types.SitesResponse, error) {
	m.lastQuery = q
	return types.SitesResponse{Sites: []types.Site{{Name: "ifixit"}}}, m.err
}
func (m *mockService) Topics(ctx context.Context, q string) (types.TopicsResponse, error) {
	m.lastQuery = q
	return types.TopicsResponse{Query: q, Matches: []types.TopicMatch{{Name: "iPhone", Leaf: true}}}, m.err
}
func (m *mockService) Screens(ctx context.Context) (types.ScreensResponse, error) {
	return types.ScreensResponse{Screens: []types.ScreenStatus{{ID: "s1", Kind: "topics", State: "resumed"}}}, m.err
}
func (m *mockService) OpenScreen(ctx context.Context, req types.OpenScreenRequest) (types.ScreenStatus, error) {
	return types.ScreenStatus{ID: "s2", Kind: req.Kind, State: "resumed", RequiresAuth: req.RequiresAuth}, m.err
}
func (m *mockService) ScreenAction(ctx context.Context, id, action string) (types.ScreenStatus, error) {
	m.lastAction = id + "/" + action
	return types.ScreenStatus{ID: id, State: "paused"}, m.err
}
func (m *mockService) Events(limit int) types.EventsResponse {
	m.lastLimit = limit
	return types.EventsResponse{Events: []types.EventRecord{{Tag: "logout"}}}
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSessionHandler(t *testing.T) {
	svc := &mockService{session: types.SessionResponse{Site: types.Site{Name: "ifixit"}, User: &types.UserView{ID: 7, Username: "jdoe"}}}
	w := do(t, NewMux(svc), http.MethodGet, "/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.User == nil || body.User.Username != "jdoe" || body.Site.Name != "ifixit" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if strings.Contains(w.Body.String(), "authToken") {
		t.Fatalf("token leaked: %s", w.Body.String())
	}
}

func TestLoginHandler(t *testing.T) {
	svc := &mockService{}
	w := do(t, NewMux(svc), http.MethodPost, "/session/login", `{"username":"jdoe","password":"pw"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastLogin.Username != "jdoe" || svc.lastLogin.Password != "pw" {
		t.Fatalf("unexpected login %+v", svc.lastLogin)
	}
}

func TestLogoutAndCancel(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	if w := do(t, h, http.MethodPost, "/session/logout", ""); w.Code != http.StatusAccepted {
		t.Fatalf("logout status=%d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/session/cancel", ""); w.Code != http.StatusAccepted {
		t.Fatalf("cancel status=%d", w.Code)
	}
	if svc.logouts != 1 || svc.cancels != 1 {
		t.Fatalf("logouts=%d cancels=%d", svc.logouts, svc.cancels)
	}
}

func TestSetSiteHandler(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	if w := do(t, h, http.MethodPost, "/session/site", `{"name":"acme"}`); w.Code != http.StatusAccepted || svc.lastSite != "acme" {
		t.Fatalf("status=%d site=%q", w.Code, svc.lastSite)
	}
	if w := do(t, h, http.MethodPost, "/session/site", `{"name":"  "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", w.Code)
	}
}

func TestSearchHandlersPassQuery(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	w := do(t, h, http.MethodGet, "/sites?q=fix", "")
	if w.Code != http.StatusOK || svc.lastQuery != "fix" {
		t.Fatalf("sites status=%d query=%q", w.Code, svc.lastQuery)
	}
	w = do(t, h, http.MethodGet, "/topics?q=phone", "")
	if w.Code != http.StatusOK || svc.lastQuery != "phone" {
		t.Fatalf("topics status=%d query=%q", w.Code, svc.lastQuery)
	}
	var body types.TopicsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Matches) != 1 || !body.Matches[0].Leaf {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestScreensHandlers(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	if w := do(t, h, http.MethodGet, "/screens", ""); w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	w := do(t, h, http.MethodPost, "/screens", `{"kind":"topics","requires_auth":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("open status=%d", w.Code)
	}
	var st types.ScreenStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if st.Kind != "topics" || !st.RequiresAuth {
		t.Fatalf("unexpected status %+v", st)
	}
	if w := do(t, h, http.MethodPost, "/screens/s1/pause", ""); w.Code != http.StatusOK || svc.lastAction != "s1/pause" {
		t.Fatalf("action status=%d action=%q", w.Code, svc.lastAction)
	}
}

func TestEventsLimit(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	if w := do(t, h, http.MethodGet, "/events?limit=5", ""); w.Code != http.StatusOK || svc.lastLimit != 5 {
		t.Fatalf("status=%d limit=%d", w.Code, svc.lastLimit)
	}
	if w := do(t, h, http.MethodGet, "/events?limit=-1", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/events?limit=x", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}
}

func TestBadJSON(t *testing.T) {
	h := NewMux(&mockService{})
	if w := do(t, h, http.MethodPost, "/screens", "not-json"); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestUnsupportedMediaType(t *testing.T) {
	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/session/login", bytes.NewBufferString(`{"username":"a"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/session/login", bytes.NewBufferString(`{"username":"a"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 with mixed-case content-type, got %d", w.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	withOptions(t, Options{MaxBodyBytes: 16})
	h := NewMux(&mockService{})
	if w := do(t, h, http.MethodPost, "/session/login", `{"username":"`+strings.Repeat("a", 64)+`"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	if w := do(t, NewMux(&mockService{ready: true}), http.MethodGet, "/readyz", ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "starting") {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{app.ErrNotFound("screen", "x"), http.StatusNotFound},
		{app.ErrInvalid("bad"), http.StatusBadRequest},
		{app.ErrConflict("not loaded"), http.StatusConflict},
		{loop.ErrStopped, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := NewMux(&mockService{err: c.err})
		w := do(t, h, http.MethodPost, "/screens/x/pause", "")
		if w.Code != c.want {
			t.Errorf("%v: status=%d want %d", c.err, w.Code, c.want)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != c.want {
			t.Errorf("%v: body %q", c.err, w.Body.String())
		}
	}
}
