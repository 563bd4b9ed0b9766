// Package repository declares the storage contract of the ledger. Every
// implementation enforces id uniqueness in the store itself and reports a
// duplicate as apperr.KindConflict, so callers never check-then-insert.
package repository

import (
	"context"

	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

// LedgerFunc runs while the account is locked. It mutates account.Balance and
// returns the transaction to record. A non-nil error aborts the whole unit of
// work and nothing is written.
type LedgerFunc func(account *models.Account) (*models.Transaction, error)

// AccountFilter selects accounts for a listing. With All unset only accounts
// owned by OwnerID match; an empty OwnerID then matches nothing.
type AccountFilter struct {
	All     bool
	OwnerID string
}

// TransactionFilter selects transactions for a listing. With All unset only
// transactions of AccountIDs match; an empty set matches nothing.
type TransactionFilter struct {
	All        bool
	AccountIDs []string
}

// UserUpdate names the user fields to change. Empty fields are left as stored.
type UserUpdate struct {
	Name string
	Role models.Role
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser writes only the non-empty fields of update and returns the
	// stored user, so concurrent edits of different fields do not clobber
	// each other.
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error)
	// DeleteUser removes the user, its accounts and their transactions.
	DeleteUser(ctx context.Context, id string) error
}

type AccountRepository interface {
	// CreateAccount inserts the account and, when initial is non-nil, its
	// opening transaction in the same unit of work.
	CreateAccount(ctx context.Context, account *models.Account, initial *models.Transaction) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]models.Account, error)
	AccountIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) (*models.Account, error)
	// DeleteAccount removes the account and all of its transactions.
	DeleteAccount(ctx context.Context, id string) error
}

type TransactionRepository interface {
	// ApplyTransaction serialises with every other ApplyTransaction on the
	// same account and commits the balance and the transaction together.
	ApplyTransaction(ctx context.Context, accountID string, fn LedgerFunc) (*models.Transaction, *models.Account, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	UpdateTransactionDescription(ctx context.Context, id, description string) (*models.Transaction, error)
}

type Store interface {
	UserRepository
	AccountRepository
	TransactionRepository

	// EnsureSchema creates missing tables. It is safe to call repeatedly.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
