package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

const transactionColumns = `id, account_id, type, amount, date, description`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var txn models.Transaction
	if err := row.Scan(&txn.ID, &txn.AccountID, &txn.Type, &txn.Amount, &txn.Date, &txn.Description); err != nil {
		return nil, err
	}
	return &txn, nil
}

func insertTransaction(ctx context.Context, q queryer, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, type, amount, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		txn.ID, txn.AccountID, txn.Type, txn.Amount, txn.Date, txn.Description,
	)
	switch {
	case isUniqueViolation(err):
		return repository.ErrTransactionExists
	case isForeignKeyViolation(err):
		return repository.ErrAccountNotFound
	case err != nil:
		return apperr.Internal("failed to create transaction", err)
	}
	return nil
}

// ApplyTransaction holds SELECT ... FOR UPDATE on the account row while fn
// decides the outcome, then writes the new balance and the transaction in
// the same commit.
func (s *Store) ApplyTransaction(ctx context.Context, accountID string, fn repository.LedgerFunc) (*models.Transaction, *models.Account, error) {
	var (
		txn     *models.Transaction
		account *models.Account
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		locked, err := getAccount(ctx, tx, accountID, true)
		if err != nil {
			return err
		}

		created, err := fn(locked)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = $2 WHERE id = $1`, locked.ID, locked.Balance,
		); err != nil {
			return apperr.Internal("failed to update balance", err)
		}
		if err := insertTransaction(ctx, tx, created); err != nil {
			return err
		}

		txn, account = created, locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return txn, account, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to get transaction", err)
	}
	return txn, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	if !filter.All && len(filter.AccountIDs) == 0 {
		return txns, nil
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.All {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions WHERE account_id = ANY($1) ORDER BY date DESC, id DESC`,
			pq.Array(filter.AccountIDs))
	}
	if err != nil {
		return nil, apperr.Internal("failed to list transactions", err)
	}
	defer rows.Close()

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperr.Internal("failed to scan transaction", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list transactions", err)
	}
	return txns, nil
}

func (s *Store) UpdateTransactionDescription(ctx context.Context, id, description string) (*models.Transaction, error) {
	query := `UPDATE transactions SET description = $2 WHERE id = $1 RETURNING ` + transactionColumns
	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, description))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to update transaction", err)
	}
	return txn, nil
}
