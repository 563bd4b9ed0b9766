package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

const userColumns = `id, name, password_hash, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Name, user.PasswordHash, user.Role, user.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrUserExists
	}
	if err != nil {
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to get user", err)
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Internal("failed to scan user", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update repository.UserUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($2::text, ''), name),
		    role = COALESCE(NULLIF($3::text, ''), role)
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id, update.Name, string(update.Role)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	return user, nil
}

// DeleteUser locks the user and its accounts before removing them so a
// concurrent ledger operation either finishes first or sees the account gone.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrUserNotFound
		}
		if err != nil {
			return apperr.Internal("failed to lock user", err)
		}

		if _, err := tx.ExecContext(ctx, `SELECT id FROM accounts WHERE user_id = $1 FOR UPDATE`, id); err != nil {
			return apperr.Internal("failed to lock accounts", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM transactions
			WHERE account_id IN (SELECT id FROM accounts WHERE user_id = $1)
		`, id); err != nil {
			return apperr.Internal("failed to delete transactions", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE user_id = $1`, id); err != nil {
			return apperr.Internal("failed to delete accounts", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return apperr.Internal("failed to delete user", err)
		}
		return nil
	})
}
