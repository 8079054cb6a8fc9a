// Package api is the REST backend that plays the data service role for the
// dashboard.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/tradedash/internal/dataservice"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/gorilla/mux"
)

// Server serves the tradedash API over a storage backend.
type Server struct {
	storage  service.Storage
	sessions *SessionStore
	writer   JSONWriter
}

// NewServer creates a Server.
func NewServer(storage service.Storage, sessions *SessionStore) *Server {
	return &Server{
		storage:  storage,
		sessions: sessions,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(dataservice.PathLogin, s.handleLogin).Methods(http.MethodPost)

	authed := r.PathPrefix("/api/v1").Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/user", s.handleUser).Methods(http.MethodGet)
	authed.HandleFunc("/transactions", s.handleTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/transactions/{id}", s.handleTransaction).Methods(http.MethodGet)
	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writer.Failure(w, http.StatusNotFound, "not found")
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.pruneSessions(ctx)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("Shutting down API server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func (s *Server) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Prune(); n > 0 {
				slog.Debug("Pruned expired sessions", "count", n)
			}
		}
	}
}
