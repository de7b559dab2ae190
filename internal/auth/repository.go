package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/companion/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "auth"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Verify(ctx context.Context, username, password string) (bool, error) {
	var hash string
	err := r.db.QueryRowContext(
		ctx,
		"SELECT password_hash FROM users WHERE username = $1",
		strings.TrimSpace(username),
	).Scan(&hash)

	if errors.Is(err, sql.ErrNoRows) {
		return rejectUnknown(password), nil
	}
	if err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}

	ok, err := CheckPassword(hash, password)
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return ok, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	q := `
		INSERT INTO users(username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, created_at`

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, []any{strings.TrimSpace(cmd.Username), hash}, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user created", "id", u.ID, "username", u.Username)
	return &u, nil
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Username, &u.CreatedAt)
	return u, err
}
