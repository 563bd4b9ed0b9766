package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"

	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	BalanceUpdated     = "balance.updated"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Streams lists every stream the ledger publishes to.
var Streams = []string{UserEventsStream, AccountEventsStream, TransactionEventsStream}

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// User events
type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type UserUpdatedEvent struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}

// Account events
type AccountCreatedEvent struct {
	AccountID string          `json:"accountId"`
	UserID    string          `json:"userId"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

type AccountUpdatedEvent struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
}

type AccountDeletedEvent struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
}

type TransactionUpdatedEvent struct {
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
	Description   string `json:"description"`
}

type BalanceUpdatedEvent struct {
	AccountID  string          `json:"accountId"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Change     decimal.Decimal `json:"change"`
}
