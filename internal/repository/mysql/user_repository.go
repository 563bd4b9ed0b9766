package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(userRowFrom(user)).Error
	if isDuplicate(err) {
		return repository.ErrUserExists
	}
	if err != nil {
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if isNotFound(err) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Internal("failed to get user", err)
	}
	return row.toModel(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toModel())
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update repository.UserUpdate) (*models.User, error) {
	columns := map[string]any{}
	if update.Name != "" {
		columns["name"] = update.Name
	}
	if update.Role != "" {
		columns["role"] = string(update.Role)
	}
	if len(columns) > 0 {
		err := s.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(columns).Error
		if err != nil {
			return nil, apperr.Internal("failed to update user", err)
		}
	}
	// MySQL reports zero affected rows when nothing changed, so existence is
	// decided by the read-back.
	return s.GetUser(ctx, id)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
		if isNotFound(err) {
			return repository.ErrUserNotFound
		}
		if err != nil {
			return apperr.Internal("failed to lock user", err)
		}

		var accountIDs []string
		if err := tx.Model(&accountRow{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", id).
			Pluck("id", &accountIDs).Error; err != nil {
			return apperr.Internal("failed to lock accounts", err)
		}
		if len(accountIDs) > 0 {
			if err := tx.Where("account_id IN ?", accountIDs).Delete(&transactionRow{}).Error; err != nil {
				return apperr.Internal("failed to delete transactions", err)
			}
			if err := tx.Where("user_id = ?", id).Delete(&accountRow{}).Error; err != nil {
				return apperr.Internal("failed to delete accounts", err)
			}
		}
		if err := tx.Where("id = ?", id).Delete(&userRow{}).Error; err != nil {
			return apperr.Internal("failed to delete user", err)
		}
		return nil
	})
}
