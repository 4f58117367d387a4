// Package server exposes the grading flow over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"k8sgrader/internal/grader"
	"k8sgrader/internal/storage"
)

// Server routes HTTP requests to the grader.
type Server struct {
	grader *grader.Grader
	store  storage.Store
}

// New creates the HTTP server facade.
func New(g *grader.Grader, store storage.Store) *Server {
	return &Server{grader: g, store: store}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/game-task", s.handleGameTask)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
}

// handleGameTask accepts the (email, game) pair either as query parameters
// or as a JSON body, mirroring the original event shape.
func (s *Server) handleGameTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := grader.Request{
		Email: r.URL.Query().Get("email"),
		Game:  r.URL.Query().Get("game"),
	}
	if r.Method == http.MethodPost && r.Body != nil {
		var body grader.Request
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err == nil {
			if body.Email != "" {
				req.Email = body.Email
			}
			if body.Game != "" {
				req.Game = body.Game
			}
		}
	}

	result, err := s.grader.Handle(r.Context(), req)
	if err != nil {
		s.writeFault(w, err)
		return
	}

	if result.Completed {
		writeJSON(w, http.StatusOK, map[string]string{"message": result.Message})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeFault(w http.ResponseWriter, err error) {
	var fault *grader.Fault
	if !errors.As(err, &fault) {
		log.Error().Err(err).Msg("unexpected grading failure")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	status := http.StatusBadRequest
	switch fault.Kind {
	case grader.FaultNotFound:
		status = http.StatusNotFound
	case grader.FaultExecution:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Error: fault.Message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "storage unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := sonic.Marshal(body)
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
