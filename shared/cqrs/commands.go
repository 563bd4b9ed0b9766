package cqrs

import (
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/shopspring/decimal"
)

// RegisterUserCommand creates a user. Role is honoured only when Actor is an
// authenticated admin; anyone else gets models.RoleUser.
type RegisterUserCommand struct {
	Actor    *models.Actor
	ID       string
	Name     string
	Password string
	Role     models.Role
}

type UpdateUserCommand struct {
	Actor  models.Actor
	UserID string
	Name   string
	Role   models.Role
}

type DeleteUserCommand struct {
	Actor  models.Actor
	UserID string
}

type LoginCommand struct {
	ID       string
	Password string
}

type CreateAccountCommand struct {
	Actor          models.Actor
	ID             string
	OwnerID        string
	Type           models.AccountType
	InitialBalance decimal.Decimal
	CreatedAt      string
}

type UpdateAccountCommand struct {
	Actor     models.Actor
	AccountID string
	Type      models.AccountType
}

type DeleteAccountCommand struct {
	Actor     models.Actor
	AccountID string
}

// ApplyTransactionCommand is a deposit or withdrawal against one account.
type ApplyTransactionCommand struct {
	Actor       models.Actor
	AccountID   string
	Type        models.TransactionType
	Amount      decimal.Decimal
	Description string
}

type UpdateTransactionCommand struct {
	Actor         models.Actor
	TransactionID string
	Description   string
}
