// Package service defines the interfaces shared between tradedash components.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
)

// TransactionsResponse is the envelope returned by the data service's
// transaction listing. Payload is only meaningful when Success is set.
type TransactionsResponse struct {
	Error   string              `json:"error,omitempty"`
	Payload []model.Transaction `json:"payload"`
	Success bool                `json:"success"`
}

// Failure returns nil for a successful envelope, otherwise an error wrapping
// common.ErrUnsuccessfulResponse that carries the service's message if it
// sent one.
func (r *TransactionsResponse) Failure() error {
	switch {
	case r == nil:
		return common.ErrMalformedResponse
	case r.Success:
		return nil
	case r.Error == "":
		return common.ErrUnsuccessfulResponse
	default:
		return fmt.Errorf("%w: %s", common.ErrUnsuccessfulResponse, r.Error)
	}
}

// DataService is the backend the dashboard reads from.
type DataService interface {
	ListTransactions(ctx context.Context) (*TransactionsResponse, error)
	CurrentUser(ctx context.Context) (*model.User, error)
}

// Session is the signed-in user, resolved once at startup and handed to the
// views that need it.
type Session struct {
	User model.User
}

// LocalCurrency returns the user's display currency, defaulting to USD.
func (s Session) LocalCurrency() string {
	if s.User.LocalCurrency == "" {
		return "USD"
	}
	return s.User.LocalCurrency
}

// TransactionFilter narrows transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, username, password, localCurrency string) (*model.User, error)
	GetUserByName(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)

	// Transaction operations
	SaveTransactions(ctx context.Context, userID int64, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, userID int64, id string) (*model.Transaction, error)
	CountTransactions(ctx context.Context, userID int64) (int, error)
	DeleteTransaction(ctx context.Context, userID int64, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
