// Package httpx exposes the console over HTTP: JSON endpoints for each
// entity family, a websocket and SSE feed for live activity, health, and
// Prometheus metrics.
package httpx

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sitegrid/console/internal/repository"
	"github.com/sitegrid/console/internal/service/account"
	"github.com/sitegrid/console/internal/service/activity"
	"github.com/sitegrid/console/internal/service/backup"
	"github.com/sitegrid/console/internal/service/dashboard"
	"github.com/sitegrid/console/internal/service/deploy"
	"github.com/sitegrid/console/internal/service/dns"
	"github.com/sitegrid/console/internal/service/environment"
	"github.com/sitegrid/console/internal/ws"
)

// Router wires HTTP endpoints to the dashboard services.
type Router struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	dash         *dashboard.Coordinator
	upgrader     websocket.Upgrader
	limiter      RateLimiter
	sseHeartbeat time.Duration

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
	actionsTotal       *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateWindowRealtime = 30 * time.Second
	rateLimitRead      = 120
	rateLimitWrite     = 60
	rateLimitRealtime  = 30

	defaultActivityLimit = 50
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, dash *dashboard.Coordinator, limiter RateLimiter, sseHeartbeat time.Duration) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
		dash:   dash,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:      limiter,
		sseHeartbeat: sseHeartbeat,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	if r.sseHeartbeat <= 0 {
		r.sseHeartbeat = time.Minute
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit("/healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/environments", r.audit("/environments", r.withRateLimit("/environments", rateLimitWrite, rateWindowDefault, r.handleEnvironments)))
	r.mux.HandleFunc("/environments/", r.audit("/environments/{name}", r.withRateLimit("/environments/{name}", rateLimitWrite, rateWindowDefault, r.handleEnvironmentByName)))
	r.mux.HandleFunc("/deployments", r.audit("/deployments", r.withRateLimit("/deployments", rateLimitWrite, rateWindowDefault, r.handleDeployments)))
	r.mux.HandleFunc("/backups", r.audit("/backups", r.withRateLimit("/backups", rateLimitWrite, rateWindowDefault, r.handleBackups)))
	r.mux.HandleFunc("/domains", r.audit("/domains", r.withRateLimit("/domains", rateLimitWrite, rateWindowDefault, r.handleDomains)))
	r.mux.HandleFunc("/updates", r.audit("/updates", r.withRateLimit("/updates", rateLimitRead, rateWindowDefault, r.handleUpdates)))
	r.mux.HandleFunc("/updates/", r.audit("/updates/{id}", r.withRateLimit("/updates/{id}", rateLimitWrite, rateWindowDefault, r.handleUpdateSubroutes)))
	r.mux.HandleFunc("/users", r.audit("/users", r.withRateLimit("/users", rateLimitWrite, rateWindowDefault, r.handleUsers)))
	r.mux.HandleFunc("/users/", r.audit("/users/{id}", r.withRateLimit("/users/{id}", rateLimitWrite, rateWindowDefault, r.handleUserSubroutes)))
	r.mux.HandleFunc("/caches", r.audit("/caches", r.withRateLimit("/caches", rateLimitRead, rateWindowDefault, r.handleCaches)))
	r.mux.HandleFunc("/caches/", r.audit("/caches/{id}", r.withRateLimit("/caches/{id}", rateLimitWrite, rateWindowDefault, r.handleCacheSubroutes)))
	r.mux.HandleFunc("/activity", r.audit("/activity", r.withRateLimit("/activity", rateLimitRead, rateWindowDefault, r.handleActivity)))
	r.mux.HandleFunc("/ws/activity", r.audit("/ws/activity", r.withRateLimit("/ws/activity", rateLimitRealtime, rateWindowRealtime, r.handleActivityWS)))
	r.mux.HandleFunc("/events/activity", r.audit("/events/activity", r.withRateLimit("/events/activity", rateLimitRealtime, rateWindowRealtime, r.handleActivitySSE)))
}

func (r *Router) handleEnvironments(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		envs, err := r.dash.Environments.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, envs)
	case http.MethodPost:
		var payload environment.CreateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		env, err := r.dash.Environments.Create(req.Context(), payload)
		r.recordAction("environment", "create", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, env)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleEnvironmentByName(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, "/environments/")
	if name == "" || strings.Contains(name, "/") {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodDelete {
		r.methodNotAllowed(w)
		return
	}
	err := r.dash.Environments.Delete(req.Context(), name)
	r.recordAction("environment", "delete", err)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (r *Router) handleDeployments(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		deployments, err := r.dash.Deployments.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deployments)
	case http.MethodPost:
		var payload deploy.CreateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		dep, err := r.dash.Deployments.Create(req.Context(), payload)
		r.recordAction("deployment", "create", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, dep)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleBackups(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		backups, err := r.dash.Backups.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, backups)
	case http.MethodPost:
		var payload backup.CreateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		bkp, err := r.dash.Backups.Create(req.Context(), payload)
		r.recordAction("backup", "create", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, bkp)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleDomains(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		domains, err := r.dash.Domains.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, domains)
	case http.MethodPost:
		var payload dns.AddInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		d, err := r.dash.Domains.Add(req.Context(), payload)
		r.recordAction("domain", "add", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, d)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleUpdates(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	updates, err := r.dash.Updates.List(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updates)
}

func (r *Router) handleUpdateSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/updates/")
	parts := strings.Split(trimmed, "/")
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	if len(parts) == 1 && parts[0] == "check" {
		err := r.dash.Updates.Check(req.Context())
		r.recordAction("update", "check", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "checking"})
		return
	}
	if len(parts) != 2 || parts[0] == "" {
		r.notFound(w)
		return
	}
	updateID := parts[0]
	switch parts[1] {
	case "apply":
		upd, err := r.dash.Updates.Apply(req.Context(), updateID)
		r.recordAction("update", "apply", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, upd)
	case "schedule":
		upd, err := r.dash.Updates.Schedule(req.Context(), updateID)
		r.recordAction("update", "schedule", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, upd)
	default:
		r.notFound(w)
	}
}

func (r *Router) handleUsers(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		users, err := r.dash.Accounts.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, users)
	case http.MethodPost:
		var payload account.AddInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		user, err := r.dash.Accounts.Add(req.Context(), payload)
		r.recordAction("user", "add", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, user)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleUserSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/users/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 1 || parts[0] == "" {
		r.notFound(w)
		return
	}
	userID := parts[0]
	if len(parts) == 1 {
		if req.Method != http.MethodDelete {
			r.methodNotAllowed(w)
			return
		}
		err := r.dash.Accounts.Delete(req.Context(), userID)
		r.recordAction("user", "delete", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	if len(parts) == 2 && parts[1] == "status" {
		if req.Method != http.MethodPatch {
			r.methodNotAllowed(w)
			return
		}
		var payload struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		user, err := r.dash.Accounts.SetStatus(req.Context(), userID, payload.Status)
		r.recordAction("user", "set_status", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}
	r.notFound(w)
}

func (r *Router) handleCaches(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	caches, err := r.dash.Caches.List(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, caches)
}

func (r *Router) handleCacheSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/caches/")
	parts := strings.Split(trimmed, "/")
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	if len(parts) == 1 && parts[0] == "clear" {
		err := r.dash.Caches.ClearAll(req.Context())
		r.recordAction("cache", "clear_all", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "clearing"})
		return
	}
	if len(parts) != 2 || parts[0] == "" {
		r.notFound(w)
		return
	}
	cacheID := parts[0]
	switch parts[1] {
	case "clear":
		err := r.dash.Caches.Clear(req.Context(), cacheID)
		r.recordAction("cache", "clear", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "clearing"})
	case "toggle":
		cached, err := r.dash.Caches.Toggle(req.Context(), cacheID)
		r.recordAction("cache", "toggle", err)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cached)
	default:
		r.notFound(w)
	}
}

func (r *Router) handleActivity(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	category := strings.TrimSpace(req.URL.Query().Get("category"))
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	entries, err := r.dash.Activity.List(req.Context(), category, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, activity.RenderAll(entries, r.dash.Activity.Now()))
}

func (r *Router) handleActivityWS(w http.ResponseWriter, req *http.Request) {
	topic := wsTopic(req)
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	hub := r.dash.Activity.Hub()
	hub.Register(topic, client)
	go func() {
		defer func() {
			hub.Unregister(topic, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (r *Router) handleActivitySSE(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	topic := wsTopic(req)
	client := ws.NewSSEClient(w, flusher, r.logger)
	hub := r.dash.Activity.Hub()
	hub.Register(topic, client)
	defer func() {
		hub.Unregister(topic, client)
		client.Close()
	}()

	ticker := time.NewTicker(r.sseHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-req.Context().Done():
			return
		case <-ticker.C:
			if err := client.Heartbeat(); err != nil {
				return
			}
		}
	}
}

// wsTopic maps the optional category query parameter to a hub topic.
func wsTopic(req *http.Request) string {
	if category := strings.TrimSpace(req.URL.Query().Get("category")); category != "" {
		return category
	}
	return ws.TopicAll
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
		r.recordRequestMetrics(req.Method, route, status, duration)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (r *Router) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if limit <= 0 {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
