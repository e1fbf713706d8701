package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guidekit/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ready() bool
	Session() types.SessionResponse
	Login(ctx context.Context, req types.LoginRequest) error
	Logout(ctx context.Context) error
	CancelLogin(ctx context.Context) error
	SetSite(ctx context.Context, name string) error
	Sites(ctx context.Context, query string) (types.SitesResponse, error)
	Topics(ctx context.Context, query string) (types.TopicsResponse, error)
	Screens(ctx context.Context) (types.ScreensResponse, error)
	OpenScreen(ctx context.Context, req types.OpenScreenRequest) (types.ScreenStatus, error)
	ScreenAction(ctx context.Context, id, action string) (types.ScreenStatus, error)
	Events(limit int) types.EventsResponse
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if c := current.CORS; c.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: c.Origins,
			AllowedMethods: c.Methods,
			AllowedHeaders: c.Headers,
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc}
	r.Get("/session", h.getSession)
	r.Post("/session/login", h.login)
	r.Post("/session/logout", h.logout)
	r.Post("/session/cancel", h.cancel)
	r.Post("/session/site", h.setSite)
	r.Get("/sites", h.sites)
	r.Get("/topics", h.topics)
	r.Get("/screens", h.screens)
	r.Post("/screens", h.openScreen)
	r.Post("/screens/{id}/{action}", h.screenAction)
	r.Get("/events", h.events)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("starting"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// respond writes v, or the error mapped to its status code, and logs the
// outcome.
func respond(w http.ResponseWriter, r *http.Request, start time.Time, v any, err error) {
	if err != nil {
		status := statusFor(err)
		writeJSONError(w, status, err.Error())
		logRequest(r, status, start, err)
		return
	}
	if v == nil {
		w.WriteHeader(http.StatusAccepted)
		logRequest(r, http.StatusAccepted, start, nil)
		return
	}
	writeJSON(w, v)
	logRequest(r, http.StatusOK, start, nil)
}

// decodeJSON reads a JSON body into dst, writing the error response itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, current.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// @Summary  Current session
// @Tags     session
// @Produce  json
// @Success  200 {object} types.SessionResponse
// @Router   /session [get]
func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	respond(w, r, time.Now(), h.svc.Session(), nil)
}

// @Summary  Start a login
// @Tags     session
// @Accept   json
// @Param    body body types.LoginRequest true "credentials"
// @Success  202
// @Failure  400 {object} types.ErrorResponse
// @Router   /session/login [post]
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req types.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	respond(w, r, start, nil, h.svc.Login(ctx, req))
}

// @Summary  Log out
// @Tags     session
// @Success  202
// @Router   /session/logout [post]
func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()
	respond(w, r, time.Now(), nil, h.svc.Logout(ctx))
}

// @Summary  Cancel a login in progress
// @Tags     session
// @Success  202
// @Router   /session/cancel [post]
func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()
	respond(w, r, time.Now(), nil, h.svc.CancelLogin(ctx))
}

// @Summary  Change the current site
// @Tags     session
// @Accept   json
// @Param    body body types.SiteRequest true "site"
// @Success  202
// @Failure  404 {object} types.ErrorResponse
// @Router   /session/site [post]
func (h *handlers) setSite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req types.SiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	respond(w, r, start, nil, h.svc.SetSite(ctx, req.Name))
}

// @Summary  Search sites
// @Tags     sites
// @Produce  json
// @Param    q query string false "search query"
// @Success  200 {object} types.SitesResponse
// @Router   /sites [get]
func (h *handlers) sites(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := requestContext(r)
	defer cancel()
	resp, err := h.svc.Sites(ctx, r.URL.Query().Get("q"))
	respond(w, r, start, resp, err)
}

// @Summary  Search topics of the open topic browser
// @Tags     topics
// @Produce  json
// @Param    q query string false "search query"
// @Success  200 {object} types.TopicsResponse
// @Failure  409 {object} types.ErrorResponse
// @Router   /topics [get]
func (h *handlers) topics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := requestContext(r)
	defer cancel()
	resp, err := h.svc.Topics(ctx, r.URL.Query().Get("q"))
	respond(w, r, start, resp, err)
}

// @Summary  List live screens
// @Tags     screens
// @Produce  json
// @Success  200 {object} types.ScreensResponse
// @Router   /screens [get]
func (h *handlers) screens(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := requestContext(r)
	defer cancel()
	resp, err := h.svc.Screens(ctx)
	respond(w, r, start, resp, err)
}

// @Summary  Open a screen
// @Tags     screens
// @Accept   json
// @Produce  json
// @Param    body body types.OpenScreenRequest true "screen"
// @Success  200 {object} types.ScreenStatus
// @Failure  400 {object} types.ErrorResponse
// @Router   /screens [post]
func (h *handlers) openScreen(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req types.OpenScreenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	resp, err := h.svc.OpenScreen(ctx, req)
	respond(w, r, start, resp, err)
}

// @Summary  Apply a lifecycle action to a screen
// @Tags     screens
// @Produce  json
// @Param    id     path string true "screen id"
// @Param    action path string true "pause, resume, restore or destroy"
// @Success  200 {object} types.ScreenStatus
// @Failure  404 {object} types.ErrorResponse
// @Router   /screens/{id}/{action} [post]
func (h *handlers) screenAction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := requestContext(r)
	defer cancel()
	resp, err := h.svc.ScreenAction(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "action"))
	respond(w, r, start, resp, err)
}

// @Summary  Recent bus events
// @Tags     events
// @Produce  json
// @Param    limit query int false "maximum number of events"
// @Success  200 {object} types.EventsResponse
// @Router   /events [get]
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respond(w, r, start, h.svc.Events(limit), nil)
}
