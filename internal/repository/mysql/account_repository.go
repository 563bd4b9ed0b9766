package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func (s *Store) CreateAccount(ctx context.Context, account *models.Account, initial *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(accountRowFrom(account)).Error
		switch {
		case isDuplicate(err):
			return repository.ErrAccountExists
		case isForeignKey(err):
			return repository.ErrOwnerNotFound
		case err != nil:
			return apperr.Internal("failed to create account", err)
		}

		if initial != nil {
			return createTransaction(tx, initial)
		}
		return nil
	})
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return getAccount(s.db.WithContext(ctx), id, false)
}

func getAccount(db *gorm.DB, id string, forUpdate bool) (*models.Account, error) {
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row accountRow
	err := db.Where("id = ?", id).First(&row).Error
	if isNotFound(err) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to get account", err)
	}
	return row.toModel(), nil
}

func (s *Store) ListAccounts(ctx context.Context, filter repository.AccountFilter) ([]models.Account, error) {
	accounts := []models.Account{}
	if !filter.All && filter.OwnerID == "" {
		return accounts, nil
	}

	query := s.db.WithContext(ctx).Order("id")
	if !filter.All {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	var rows []accountRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list accounts", err)
	}
	for i := range rows {
		accounts = append(accounts, *rows[i].toModel())
	}
	return accounts, nil
}

func (s *Store) AccountIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&accountRow{}).Where("user_id = ?", ownerID).Pluck("id", &ids).Error
	if err != nil {
		return nil, apperr.Internal("failed to list account ids", err)
	}
	return ids, nil
}

func (s *Store) UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) (*models.Account, error) {
	var updated *models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := getAccount(tx, id, true)
		if err != nil {
			return err
		}
		if err := tx.Model(&accountRow{}).Where("id = ?", id).Update("type", string(accountType)).Error; err != nil {
			return apperr.Internal("failed to update account", err)
		}
		account.Type = accountType
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getAccount(tx, id, true); err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&transactionRow{}).Error; err != nil {
			return apperr.Internal("failed to delete transactions", err)
		}
		if err := tx.Where("id = ?", id).Delete(&accountRow{}).Error; err != nil {
			return apperr.Internal("failed to delete account", err)
		}
		return nil
	})
}
