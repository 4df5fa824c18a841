// Package server exposes the running loop over HTTP: health, status, the
// action journal, live telemetry and an MJPEG preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/aircursor/internal/app"
	"github.com/ayusman/aircursor/internal/store"
)

// Controller is the part of the loop the server reads and toggles.
type Controller interface {
	Last() app.Frame
	Stats() app.Stats
	IsEnabled() bool
	SetEnabled(enabled bool)
}

// Config holds the server configuration. Every field is optional; routes
// whose dependency is missing are not registered.
type Config struct {
	Controller Controller
	Store      *store.Store
	Session    string
	Telemetry  *Telemetry
	Logger     *zap.Logger
}

// Server is the HTTP front of a running session.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	logger *zap.Logger
}

// New creates a Server with its routes registered.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Controller != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}
	if s.config.Store != nil {
		s.mux.HandleFunc("/api/history", s.handleHistory)
	}
	if t := s.config.Telemetry; t != nil {
		s.mux.Handle("/api/telemetry", t.TelemetryHandler())
		s.mux.Handle("/api/stream", t.StreamHandler())
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.config.Telemetry != nil {
		s.config.Telemetry.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

type statusResponse struct {
	Enabled bool      `json:"enabled"`
	Session string    `json:"session,omitempty"`
	Stats   app.Stats `json:"stats"`
	Frame   app.Frame `json:"frame"`
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleStatus reports the latest frame on GET and pauses or resumes the
// loop on POST {"enabled": bool}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	c := s.config.Controller

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeError(w, http.StatusBadRequest, `expected {"enabled": true|false}`)
			return
		}
		c.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Enabled: c.IsEnabled(),
		Session: s.config.Session,
		Stats:   c.Stats(),
		Frame:   c.Last(),
	})
}

// handleHistory lists journaled actions. ?session= restricts to one
// session (oldest first); otherwise the newest ?limit= (default 50) are
// returned.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	events := s.config.Store.Events()
	q := r.URL.Query()

	var (
		list []*store.Event
		err  error
	)
	if session := q.Get("session"); session != "" {
		list, err = events.BySession(r.Context(), session)
	} else {
		limit := 50
		if v := q.Get("limit"); v != "" {
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		list, err = events.Recent(r.Context(), limit)
	}
	if err != nil {
		s.logger.Error("history query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if list == nil {
		list = []*store.Event{}
	}

	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
