package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, date, type, base_currency, quote_currency, source,
	amount, amount_currency, fee, fee_currency, total, total_currency,
	historical_price, historical_currency`

// SaveTransactions stores transactions for a user. Records whose id already
// exists for that user are skipped; the number of inserted rows is returned.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, userID int64, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted, err := s.saveTransactionsTx(ctx, tx, userID, transactions)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, userID int64, transactions []model.Transaction) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			user_id, `+transactionColumns+`
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		result, execErr := stmt.ExecContext(ctx,
			userID,
			txn.ID,
			txn.Date.UTC(),
			txn.Type,
			txn.CurrencyPair.Base,
			txn.CurrencyPair.Quote,
			txn.Source,
			txn.Amount.String(),
			txn.AmountCurrency,
			txn.Fee.String(),
			txn.FeeCurrency,
			txn.Total.String(),
			txn.TotalCurrency,
			txn.HistoricalPrice.String(),
			txn.HistoricalCurrency,
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, execErr)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	return inserted, nil
}

// GetTransactions returns a user's transactions in date order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}
	return s.getTransactions(ctx, s.db, userID, filter)
}

func (s *SQLiteStorage) getTransactions(ctx context.Context, q queryer, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	var (
		where = []string{"user_id = ?", "deleted = 0"}
		args  = []any{userID}
	)
	if filter.StartDate != nil {
		where = append(where, "date >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		where = append(where, "date <= ?")
		args = append(args, filter.EndDate.UTC())
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetTransactionByID returns one of a user's transactions.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, userID int64, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? AND id = ? AND deleted = 0`,
		userID, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// CountTransactions returns how many live transactions a user has.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, userID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND deleted = 0`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, userID int64, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET deleted = 1 WHERE user_id = ? AND id = ? AND deleted = 0`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn                                 model.Transaction
		amount, fee, total, historicalPrice string
	)

	err := row.Scan(
		&txn.ID,
		&txn.Date,
		&txn.Type,
		&txn.CurrencyPair.Base,
		&txn.CurrencyPair.Quote,
		&txn.Source,
		&amount,
		&txn.AmountCurrency,
		&fee,
		&txn.FeeCurrency,
		&total,
		&txn.TotalCurrency,
		&historicalPrice,
		&txn.HistoricalCurrency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	for _, f := range []struct {
		dst  *decimal.Decimal
		name string
		raw  string
	}{
		{&txn.Amount, "amount", amount},
		{&txn.Fee, "fee", fee},
		{&txn.Total, "total", total},
		{&txn.HistoricalPrice, "historical_price", historicalPrice},
	} {
		d, parseErr := decimal.NewFromString(f.raw)
		if parseErr != nil {
			return nil, fmt.Errorf("transaction %s has invalid %s %q: %w", txn.ID, f.name, f.raw, parseErr)
		}
		*f.dst = d
	}

	return &txn, nil
}
