// Package testutil provides shared fixtures for tradedash tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/storage"
	"github.com/shopspring/decimal"
)

// TestPassword is the password given to users created by SetupTestDB.
const TestPassword = "correct-horse"

// TestDB is a migrated in-memory database with one user.
type TestDB struct {
	Storage *storage.SQLiteStorage
	User    *model.User
	t       *testing.T
}

// SetupTestDB creates an in-memory database, migrates it and creates the
// user "alice" with local currency USD. Cleanup is registered on t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	user, err := store.CreateUser(ctx, "alice", TestPassword, "USD")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return &TestDB{
		Storage: store,
		User:    user,
		t:       t,
	}
}

// Seed saves transactions for the test user.
func (db *TestDB) Seed(transactions ...model.Transaction) {
	db.t.Helper()
	if _, err := db.Storage.SaveTransactions(context.Background(), db.User.ID, transactions); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// Trade builds a BTC-USD buy with the given id and amount, dated i days
// after 2018-01-01.
func Trade(i int, amount string) model.Transaction {
	amt := decimal.RequireFromString(amount)
	price := decimal.NewFromInt(10000)
	return model.Transaction{
		ID:                 fmt.Sprintf("txn-%03d", i),
		Date:               time.Date(2018, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		Type:               model.TypeBuy,
		CurrencyPair:       model.CurrencyPair{Base: "BTC", Quote: "USD"},
		Source:             "gdax",
		Amount:             amt,
		AmountCurrency:     "BTC",
		Fee:                decimal.RequireFromString("1.5"),
		FeeCurrency:        "USD",
		Total:              amt.Mul(price),
		TotalCurrency:      "USD",
		HistoricalPrice:    price,
		HistoricalCurrency: "USD",
	}
}

// Trades builds n trades with amounts 1..n.
func Trades(n int) []model.Transaction {
	txns := make([]model.Transaction, n)
	for i := range txns {
		txns[i] = Trade(i, fmt.Sprintf("%d", i+1))
	}
	return txns
}
