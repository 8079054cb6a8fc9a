package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createTestUser(t *testing.T, s *SQLiteStorage) *model.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), "bob", "hunter2hunter2", "usd")
	require.NoError(t, err)
	return user
}

// Helper function to create test transactions.
func createTestTransactions(count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	base := time.Date(2018, 3, 1, 9, 30, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			ID:                 "txn-" + string(rune('A'+i)),
			Date:               base.Add(time.Duration(count-i) * time.Hour),
			Type:               model.TypeBuy,
			CurrencyPair:       model.CurrencyPair{Base: "ETH", Quote: "USD"},
			Source:             "binance",
			Amount:             decimal.NewFromFloat(0.25 * float64(i+1)),
			AmountCurrency:     "ETH",
			Fee:                decimal.RequireFromString("0.001"),
			FeeCurrency:        "ETH",
			Total:              decimal.NewFromInt(int64(200 * (i + 1))),
			TotalCurrency:      "USD",
			HistoricalPrice:    decimal.NewFromInt(800),
			HistoricalCurrency: "USD",
		}
	}
	return txns
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(" ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_Users(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	user := createTestUser(t, store)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "USD", user.LocalCurrency)
	assert.NotZero(t, user.ID)

	byName, err := store.GetUserByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = store.CreateUser(ctx, "bob", "another-password", "EUR")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = store.GetUserByName(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_CreateUserValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		currency string
	}{
		{name: "empty username", username: "", password: "long-enough", currency: "USD"},
		{name: "short password", username: "carol", password: "short", currency: "USD"},
		{name: "bad currency", username: "carol", password: "long-enough", currency: "DOLLARS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateUser(ctx, tt.username, tt.password, tt.currency)
			assert.Error(t, err)
		})
	}
}

func TestSQLiteStorage_Authenticate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	got, err := store.Authenticate(ctx, "bob", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.Authenticate(ctx, "bob", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = store.Authenticate(ctx, "mallory", "hunter2hunter2")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestSQLiteStorage_SaveTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	txns := createTestTransactions(3)
	n, err := store.SaveTransactions(ctx, user.ID, txns)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Duplicates are ignored.
	n, err = store.SaveTransactions(ctx, user.ID, txns[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := store.GetTransactions(ctx, user.ID, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by date: the last created record has the earliest date.
	assert.Equal(t, "txn-C", got[0].ID)
	assert.True(t, txns[2].Date.Equal(got[0].Date))
	assert.True(t, txns[2].Amount.Equal(got[0].Amount))
	assert.Equal(t, "0.001", got[0].Fee.String())
	assert.Equal(t, model.CurrencyPair{Base: "ETH", Quote: "USD"}, got[0].CurrencyPair)
	assert.Equal(t, "USD", got[0].HistoricalCurrency)
}

func TestSQLiteStorage_SaveTransactionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	_, err := store.SaveTransactions(ctx, user.ID, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	_, err = store.SaveTransactions(ctx, user.ID, []model.Transaction{})
	assert.ErrorIs(t, err, ErrEmptySlice)

	bad := createTestTransactions(1)
	bad[0].CurrencyPair.Quote = ""
	_, err = store.SaveTransactions(ctx, user.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestSQLiteStorage_GetTransactionsFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	txns := createTestTransactions(5)
	_, err := store.SaveTransactions(ctx, user.ID, txns)
	require.NoError(t, err)

	start := txns[3].Date
	end := txns[1].Date
	got, err := store.GetTransactions(ctx, user.ID, service.TransactionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	page, err := store.GetTransactions(ctx, user.ID, service.TransactionFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "txn-D", page[0].ID)

	_, err = store.GetTransactions(ctx, user.ID, service.TransactionFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestSQLiteStorage_TransactionsAreScopedToUser(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	bob := createTestUser(t, store)
	eve, err := store.CreateUser(ctx, "eve", "password-eve", "EUR")
	require.NoError(t, err)

	_, err = store.SaveTransactions(ctx, bob.ID, createTestTransactions(2))
	require.NoError(t, err)

	got, err := store.GetTransactions(ctx, eve.ID, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.GetTransactionByID(ctx, eve.ID, "txn-A")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_DeleteTransaction(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	_, err := store.SaveTransactions(ctx, user.ID, createTestTransactions(2))
	require.NoError(t, err)

	txn, err := store.GetTransactionByID(ctx, user.ID, "txn-A")
	require.NoError(t, err)
	assert.Equal(t, "binance", txn.Source)

	require.NoError(t, store.DeleteTransaction(ctx, user.ID, "txn-A"))
	assert.ErrorIs(t, store.DeleteTransaction(ctx, user.ID, "txn-A"), common.ErrNotFound)

	count, err := store.CountTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
