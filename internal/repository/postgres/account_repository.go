package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

const accountColumns = `id, user_id, type, balance, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var account models.Account
	if err := row.Scan(&account.ID, &account.UserID, &account.Type, &account.Balance, &account.CreatedAt); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account, initial *models.Transaction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO accounts (id, user_id, type, balance, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := tx.ExecContext(ctx, query,
			account.ID, account.UserID, account.Type, account.Balance, account.CreatedAt,
		)
		switch {
		case isUniqueViolation(err):
			return repository.ErrAccountExists
		case isForeignKeyViolation(err):
			return repository.ErrOwnerNotFound
		case err != nil:
			return apperr.Internal("failed to create account", err)
		}

		if initial != nil {
			if err := insertTransaction(ctx, tx, initial); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return getAccount(ctx, s.db, id, false)
}

// getAccount reads one account, optionally taking a row lock that lasts
// until the surrounding transaction ends.
func getAccount(ctx context.Context, q queryer, id string, forUpdate bool) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	account, err := scanAccount(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to get account", err)
	}
	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter repository.AccountFilter) ([]models.Account, error) {
	accounts := []models.Account{}
	if !filter.All && filter.OwnerID == "" {
		return accounts, nil
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.All {
		rows, err = s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id`, filter.OwnerID)
	}
	if err != nil {
		return nil, apperr.Internal("failed to list accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperr.Internal("failed to scan account", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list accounts", err)
	}
	return accounts, nil
}

func (s *Store) AccountIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM accounts WHERE user_id = $1`, ownerID)
	if err != nil {
		return nil, apperr.Internal("failed to list account ids", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal("failed to scan account id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list account ids", err)
	}
	return ids, nil
}

func (s *Store) UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) (*models.Account, error) {
	query := `UPDATE accounts SET type = $2 WHERE id = $1 RETURNING ` + accountColumns
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id, accountType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to update account", err)
	}
	return account, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := getAccount(ctx, tx, id, true); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = $1`, id); err != nil {
			return apperr.Internal("failed to delete transactions", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
			return apperr.Internal("failed to delete account", err)
		}
		return nil
	})
}
