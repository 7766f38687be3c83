package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *types.User) error {
	if user.Email == "" {
		return fmt.Errorf("email is required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

// GetUser retrieves one user by id
func (s *Store) GetUser(ctx context.Context, id string) (*types.User, error) {
	var u types.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}

// CreateAuthToken inserts a token row for a user
func (s *Store) CreateAuthToken(ctx context.Context, token *types.AuthToken) error {
	if token.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO auth_tokens (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		token.Token, token.UserID, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create token for user %s: %w", token.UserID, err)
	}
	return nil
}

// DeleteExpiredTokens removes tokens past their expiry and returns the count
func (s *Store) DeleteExpiredTokens(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted tokens: %w", err)
	}
	return int(n), nil
}
