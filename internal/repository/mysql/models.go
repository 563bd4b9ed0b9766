package mysql

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

type userRow struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Name         string    `gorm:"size:255;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time `gorm:"not null"`

	Accounts []accountRow `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (userRow) TableName() string { return "users" }

type accountRow struct {
	ID            string          `gorm:"primaryKey;size:64"`
	UserID        string          `gorm:"size:64;not null;index"`
	Type          string          `gorm:"size:32;not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAtText string          `gorm:"column:created_at;size:64;not null"`

	Transactions []transactionRow `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (accountRow) TableName() string { return "accounts" }

type transactionRow struct {
	ID          string          `gorm:"primaryKey;size:36"`
	AccountID   string          `gorm:"size:64;not null;index:idx_transactions_account_date,priority:1"`
	Type        string          `gorm:"size:16;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_account_date,priority:2"`
	Description string          `gorm:"size:255;not null;default:''"`
}

func (transactionRow) TableName() string { return "transactions" }

func userRowFrom(u *models.User) *userRow {
	return &userRow{
		ID:           u.ID,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         models.Role(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}

func accountRowFrom(a *models.Account) *accountRow {
	return &accountRow{
		ID:            a.ID,
		UserID:        a.UserID,
		Type:          string(a.Type),
		Balance:       a.Balance,
		CreatedAtText: a.CreatedAt,
	}
}

func (r *accountRow) toModel() *models.Account {
	return &models.Account{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      models.AccountType(r.Type),
		Balance:   r.Balance,
		CreatedAt: r.CreatedAtText,
	}
}

func transactionRowFrom(t *models.Transaction) *transactionRow {
	return &transactionRow{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Date:        t.Date,
		Description: t.Description,
	}
}

func (r *transactionRow) toModel() *models.Transaction {
	return &models.Transaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Type:        models.TransactionType(r.Type),
		Amount:      r.Amount,
		Date:        r.Date,
		Description: r.Description,
	}
}
