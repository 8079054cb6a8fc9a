// Package dataservice provides the service.DataService implementations the
// dashboard can read from: the local SQLite database or the REST backend.
package dataservice

import (
	"context"
	"fmt"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
)

// Local serves a single user's transactions straight from storage.
type Local struct {
	storage  service.Storage
	username string
}

// NewLocal creates a Local data service for username.
func NewLocal(storage service.Storage, username string) *Local {
	return &Local{
		storage:  storage,
		username: username,
	}
}

// CurrentUser returns the configured user.
func (l *Local) CurrentUser(ctx context.Context) (*model.User, error) {
	user, err := l.storage.GetUserByName(ctx, l.username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// ListTransactions returns every transaction of the configured user. Storage
// failures are reported in the envelope, the way the backend reports them.
func (l *Local) ListTransactions(ctx context.Context) (*service.TransactionsResponse, error) {
	user, err := l.CurrentUser(ctx)
	if err != nil {
		return &service.TransactionsResponse{Error: err.Error()}, nil
	}

	txns, err := l.storage.GetTransactions(ctx, user.ID, service.TransactionFilter{})
	if err != nil {
		return &service.TransactionsResponse{Error: err.Error()}, nil
	}
	if txns == nil {
		txns = []model.Transaction{}
	}

	return &service.TransactionsResponse{
		Success: true,
		Payload: txns,
	}, nil
}

// Static serves a fixed set of records. It backs demo mode.
type Static struct {
	User         model.User
	Transactions []model.Transaction
}

// CurrentUser returns the static user.
func (s *Static) CurrentUser(_ context.Context) (*model.User, error) {
	u := s.User
	return &u, nil
}

// ListTransactions returns a copy of the static records.
func (s *Static) ListTransactions(_ context.Context) (*service.TransactionsResponse, error) {
	return &service.TransactionsResponse{
		Success: true,
		Payload: append([]model.Transaction(nil), s.Transactions...),
	}, nil
}
