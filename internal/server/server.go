// Package server exposes the scrape pipeline over a minimal HTTP trigger
// interface: one username in, aggregate counts out.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thread-miners/scrape/pkg/models"
)

// Runner is the pipeline capability the server triggers.
type Runner interface {
	Run(ctx context.Context, username string) (*models.RunResult, error)
}

// Server serves the trigger endpoint.
type Server struct {
	runner Runner
	http   *http.Server
}

// New builds a server listening on addr.
func New(runner Runner, addr string) *Server {
	s := &Server{runner: runner}

	mux := http.NewServeMux()
	mux.HandleFunc("/scrape", s.handleScrape)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("HTTP trigger listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type scrapeRequest struct {
	Username string `json:"username"`
}

type scrapeResponse struct {
	Status      models.RunStatus `json:"status"`
	ThreadCount int              `json:"thread_count"`
	ReplyCount  int              `json:"reply_count"`
	Detail      string           `json:"detail,omitempty"`
}

// handleScrape runs the pipeline synchronously for one username. Only
// aggregate counts are surfaced; per-post failures stay in the logs.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, scrapeResponse{Status: models.StatusError, Detail: "POST only"})
		return
	}

	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeJSON(w, http.StatusBadRequest, scrapeResponse{Status: models.StatusError, Detail: "username is required"})
		return
	}

	result, err := s.runner.Run(r.Context(), req.Username)
	if err != nil {
		log.Error().Str("username", req.Username).Err(err).Msg("Scrape run failed")
		writeJSON(w, http.StatusInternalServerError, scrapeResponse{Status: models.StatusError, Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, scrapeResponse{
		Status:      result.Status,
		ThreadCount: result.ThreadCount,
		ReplyCount:  result.ReplyCount,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}
