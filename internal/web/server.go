package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/noahxzhu/homework-notify/internal/storage"
)

// Refresher triggers an out-of-schedule poll.
type Refresher interface {
	Refresh()
}

type Server struct {
	store  *storage.Store
	router *httprouter.Router
	worker Refresher // Inject Worker to trigger Refresh
	logger *slog.Logger
}

func NewServer(store *storage.Store, w Refresher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:  store,
		router: httprouter.New(),
		worker: w,
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/status", s.handleStatus)
	s.router.POST("/poll", s.handlePoll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(s.store.Snapshot()); err != nil {
		s.logger.Error("Failed to encode status", "error", err)
	}
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.logger.Info("Poll requested", "remote_addr", r.RemoteAddr)
	s.worker.Refresh() // Trigger worker update
	w.WriteHeader(http.StatusAccepted)
}
