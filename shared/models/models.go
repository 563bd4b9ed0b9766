package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balances and amounts go out as JSON numbers, which is what browser clients
// sum. Requests may send either a number or a string.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type AccountType string

const (
	AccountTypeSavings     AccountType = "savings"
	AccountTypeChecking    AccountType = "checking"
	AccountTypeTermDeposit AccountType = "term-deposit"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeTermDeposit:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// CreatedAtLayout formats Account.CreatedAt when the caller does not supply one.
const CreatedAtLayout = "2006-01-02 15:04:05"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Account.UserID never changes after creation; only Type is updated in place.
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"createdAt"`
}

// Transaction is only ever created by the ledger; Description is its one
// mutable field.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// Actor is whoever issues a request: an id plus the role it acts under.
type Actor struct {
	ID   string `json:"userId"`
	Role Role   `json:"role"`
}

// IsAdmin treats anything but an exact admin role as a regular user.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
