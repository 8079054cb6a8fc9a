package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/dataservice"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/gorilla/mux"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writer.Success(w, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dataservice.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.writer.Failure(w, http.StatusBadRequest, "invalid login request")
		return
	}

	user, err := s.storage.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidCredentials) {
			slog.Error("Login failed", "username", req.Username, "error", err)
		}
		s.writer.Failure(w, http.StatusOK, "Invalid username / password")
		return
	}

	token, expiresAt := s.sessions.Create(user.ID)
	slog.Info("User logged in", "username", user.Username)

	s.writer.Success(w, dataservice.LoginPayload{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.sessions.Revoke(token)
	s.writer.Success(w, nil)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	user, err := s.storage.GetUserByID(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writer.Success(w, user)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	txns, err := s.storage.GetTransactions(r.Context(), userID, service.TransactionFilter{})
	if err != nil {
		s.fail(w, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	s.writer.Success(w, txns)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	txn, err := s.storage.GetTransactionByID(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writer.Success(w, txn)
}

// fail maps storage errors onto envelopes. Not-found is an ordinary
// unsuccessful response; everything else is a server error.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrNotFound) {
		s.writer.Failure(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("Request failed", "error", err)
	s.writer.Failure(w, http.StatusInternalServerError, "internal error")
}
