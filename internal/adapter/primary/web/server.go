package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"timegate/internal/domain"
	"timegate/internal/logging"
	"timegate/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + status page.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.GateUseCase
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.GateUseCase, addr string) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the routed handler, also used directly by tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/override", s.handleOverride)
	mux.HandleFunc("/api/reload", s.handleReload)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/", s.handleRoot)
	return loggingMiddleware(mux)
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

var rootPage = template.Must(template.New("root").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta http-equiv="refresh" content="30">
    <title>TimeGate</title>
    <style>
        body { font-family: sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; }
        .OPEN { color: #1a7f37; }
        .CLOSED { color: #cf222e; }
        li { font-family: monospace; }
    </style>
</head>
<body>
    <h1>TimeGate</h1>
    <div class="info">
        <div class="{{.State}}"><strong>{{.State}}</strong> ({{.Mode}})</div>
        <div>{{.Motd}}</div>
        {{if ge .Remaining 0}}<div>Closes in {{.Remaining}} minutes</div>{{end}}
        {{if .LastWarning}}<div>Last notice: {{.LastWarning}}</div>{{end}}
    </div>
    <h2>Schedule ({{.Timezone}})</h2>
    <ul>{{range .Windows}}<li>{{.}}</li>{{else}}<li>no windows configured</li>{{end}}</ul>
</body>
</html>`))

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rootPage.Execute(w, statusToView(s.usecase.Status())); err != nil {
		logging.Errorf("render status page: %v", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, statusToView(s.usecase.Status()))
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req overridePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	mode, err := domain.ParseOverrideMode(req.Mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, statusToView(s.usecase.SetOverrideMode(mode)))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.usecase.Reload(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, statusToView(s.usecase.Status()))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, map[string]any{"sessions": s.usecase.Sessions()})
	case http.MethodPost:
		var req joinPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		adm, err := s.usecase.Join(domain.Session{ID: req.ID, Name: req.Name, Exempt: req.Exempt})
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		status := http.StatusOK
		if !adm.Allowed {
			status = http.StatusForbidden
		}
		respondJSON(w, status, admissionView{Allowed: adm.Allowed, Reason: adm.Reason})
	case http.MethodDelete:
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			respondError(w, http.StatusBadRequest, domain.ErrInvalidSession.Error())
			return
		}
		if !s.usecase.Leave(id) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// StatusView is the JSON shape of a gate status.
type StatusView struct {
	State         string     `json:"state"`
	Mode          string     `json:"mode"`
	Motd          string     `json:"motd"`
	Timezone      string     `json:"timezone"`
	Windows       []string   `json:"windows"`
	Sessions      int        `json:"sessions"`
	Remaining     int        `json:"remainingMinutes"`
	LastWarning   string     `json:"lastWarning,omitempty"`
	LastWarningAt *time.Time `json:"lastWarningAt,omitempty"`
	CheckInterval float64    `json:"checkIntervalSeconds"`
}

func statusToView(st usecase.Status) StatusView {
	windows := make([]string, len(st.Windows))
	for i, w := range st.Windows {
		windows[i] = w.String()
	}
	view := StatusView{
		State:         st.State.String(),
		Mode:          st.Mode.String(),
		Motd:          st.Motd,
		Timezone:      st.Timezone,
		Windows:       windows,
		Sessions:      st.Sessions,
		Remaining:     st.Remaining,
		LastWarning:   st.LastWarning,
		CheckInterval: st.CheckInterval.Seconds(),
	}
	if !st.LastWarningAt.IsZero() {
		at := st.LastWarningAt
		view.LastWarningAt = &at
	}
	return view
}

type overridePayload struct {
	Mode string `json:"mode"`
}

type joinPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Exempt bool   `json:"exempt"`
}

type admissionView struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
