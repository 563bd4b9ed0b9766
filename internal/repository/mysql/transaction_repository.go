package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func createTransaction(tx *gorm.DB, txn *models.Transaction) error {
	err := tx.Create(transactionRowFrom(txn)).Error
	switch {
	case isDuplicate(err):
		return repository.ErrTransactionExists
	case isForeignKey(err):
		return repository.ErrAccountNotFound
	case err != nil:
		return apperr.Internal("failed to create transaction", err)
	}
	return nil
}

// ApplyTransaction locks the account row with SELECT ... FOR UPDATE, lets fn
// compute the new balance, then saves balance and transaction in one commit.
func (s *Store) ApplyTransaction(ctx context.Context, accountID string, fn repository.LedgerFunc) (*models.Transaction, *models.Account, error) {
	var (
		txn     *models.Transaction
		account *models.Account
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := getAccount(tx, accountID, true)
		if err != nil {
			return err
		}

		created, err := fn(locked)
		if err != nil {
			return err
		}

		if err := tx.Model(&accountRow{}).Where("id = ?", locked.ID).Update("balance", locked.Balance).Error; err != nil {
			return apperr.Internal("failed to update balance", err)
		}
		if err := createTransaction(tx, created); err != nil {
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
	var row transactionRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if isNotFound(err) {
		return nil, repository.ErrTransactionNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to get transaction", err)
	}
	return row.toModel(), nil
}

func (s *Store) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	if !filter.All && len(filter.AccountIDs) == 0 {
		return txns, nil
	}

	query := s.db.WithContext(ctx).Order("date DESC, id DESC")
	if !filter.All {
		query = query.Where("account_id IN ?", filter.AccountIDs)
	}
	var rows []transactionRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list transactions", err)
	}
	for i := range rows {
		txns = append(txns, *rows[i].toModel())
	}
	return txns, nil
}

func (s *Store) UpdateTransactionDescription(ctx context.Context, id, description string) (*models.Transaction, error) {
	var updated *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row transactionRow
		err := tx.Where("id = ?", id).First(&row).Error
		if isNotFound(err) {
			return repository.ErrTransactionNotFound
		}
		if err != nil {
			return apperr.Internal("failed to get transaction", err)
		}
		if err := tx.Model(&transactionRow{}).Where("id = ?", id).Update("description", description).Error; err != nil {
			return apperr.Internal("failed to update transaction", err)
		}
		row.Description = description
		updated = row.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
