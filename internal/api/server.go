// Package api exposes the wallpaper service over HTTP: state and control
// endpoints plus a WebSocket event stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tinctd/internal/wallpaper"
)

// Controller is the subset of the wallpaper service the API drives.
type Controller interface {
	State() wallpaper.State
	SetWallpaper(ctx context.Context, path string) error
	Rotate(ctx context.Context) error
	SetDarkMode(ctx context.Context, dark bool) error
	Subscribe(fn func(wallpaper.Event)) (unsubscribe func())
}

type wallpaperRequest struct {
	Path string `json:"path"`
}

type modeRequest struct {
	Dark *bool  `json:"dark,omitempty"`
	Mode string `json:"mode,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the control API.
type Server struct {
	ctl         Controller
	ws          *WSConnectionManager
	upgrader    websocket.Upgrader
	logger      hclog.Logger
	unsubscribe func()
}

// NewServer creates a server and starts forwarding ctl events to WebSocket clients.
func NewServer(ctl Controller, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		ctl: ctl,
		ws:  NewWSConnectionManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger.Named("api"),
	}
	s.unsubscribe = ctl.Subscribe(func(ev wallpaper.Event) {
		s.ws.Broadcast(ev)
	})
	return s
}

// Register mounts the API on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/wallpaper", s.handleWallpaper)
	mux.HandleFunc("/api/rotate", s.handleRotate)
	mux.HandleFunc("/api/mode", s.handleMode)
	mux.HandleFunc("/api/events", s.handleEvents)
}

// Handler returns a mux with the API registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("control API listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.ws.CloseAll()
		return err
	case err := <-errCh:
		s.ws.CloseAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Close stops forwarding events and disconnects WebSocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.ws.CloseAll()
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.ctl.State())
}

func (s *Server) handleWallpaper(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req wallpaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"path\": \"...\"}"})
		return
	}

	if err := s.ctl.SetWallpaper(r.Context(), req.Path); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctl.State())
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if err := s.ctl.Rotate(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctl.State())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	var dark bool
	switch {
	case req.Dark != nil:
		dark = *req.Dark
	case req.Mode == "dark" || req.Mode == "light":
		dark = req.Mode == "dark"
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"dark\": bool} or {\"mode\": \"dark\"|\"light\"}"})
		return
	}

	if err := s.ctl.SetDarkMode(r.Context(), dark); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctl.State())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	s.ws.Add(conn)
	s.logger.Debug("event client connected", "remote", r.RemoteAddr)

	defer func() {
		s.ws.Remove(conn)
		conn.Close()
		s.logger.Debug("event client disconnected", "remote", r.RemoteAddr)
	}()

	// Clients only listen; reading processes control frames and detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, wallpaper.ErrBusy) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Warn("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
