package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser stores a new user with a bcrypt password hash.
func (s *SQLiteStorage) CreateUser(ctx context.Context, username, password, localCurrency string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	localCurrency = strings.ToUpper(strings.TrimSpace(localCurrency))
	if err := validateUserInput(username, password, localCurrency); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, local_currency) VALUES (?, ?, ?)`,
		username, string(hash), localCurrency)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: user %q", common.ErrDuplicateEntry, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByName looks a user up by username.
func (s *SQLiteStorage) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	user, _, err := s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, local_currency, created_at FROM users WHERE username = ?`,
		username))
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	return user, nil
}

// GetUserByID looks a user up by id.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	user, _, err := s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, local_currency, created_at FROM users WHERE id = ?`,
		id))
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}

// Authenticate returns the user when password matches. Unknown users and
// wrong passwords both yield common.ErrInvalidCredentials.
func (s *SQLiteStorage) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	user, hash, err := s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, local_currency, created_at FROM users WHERE username = ?`,
		username))
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

func (s *SQLiteStorage) scanUser(row *sql.Row) (*model.User, string, error) {
	var (
		user model.User
		hash string
	)
	err := row.Scan(&user.ID, &user.Username, &hash, &user.LocalCurrency, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", common.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, hash, nil
}
