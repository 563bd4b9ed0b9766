package command

import (
	"context"
	"strings"
	"time"

	"github.com/mperez230-ship-it/MiniBanco/internal/authz"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/events"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

// TransactionCommandService is the ledger engine: the only writer of
// balances and of transaction records.
type TransactionCommandService struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	publisher    events.Publisher
	now          func() time.Time
}

func NewTransactionCommandService(
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
	publisher events.Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		transactions: transactions,
		accounts:     accounts,
		publisher:    publisher,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ApplyTransaction records a deposit or withdrawal. Ownership and the funds
// check both run against the locked account, so a withdrawal is judged by the
// balance at its own serialisation point.
func (s *TransactionCommandService) ApplyTransaction(ctx context.Context, cmd cqrs.ApplyTransactionCommand) (*models.LedgerResult, error) {
	accountID := utils.NormalizeID(cmd.AccountID)
	if accountID == "" {
		return nil, apperr.Validation("accountId is required")
	}
	if !cmd.Type.Valid() {
		return nil, apperr.Validation("type must be deposit or withdrawal")
	}
	if err := validateAmount(cmd.Amount); err != nil {
		return nil, err
	}

	txn, account, err := s.transactions.ApplyTransaction(ctx, accountID, func(account *models.Account) (*models.Transaction, error) {
		if err := authz.Authorize(cmd.Actor, account.UserID, authz.ActionCreateTransaction); err != nil {
			return nil, err
		}
		return post(account, cmd.Type, cmd.Amount, cmd.Description, s.now())
	})
	if err != nil {
		return nil, err
	}

	change := txn.Amount
	if txn.Type == models.TransactionTypeWithdrawal {
		change = change.Neg()
	}
	publish(ctx, s.publisher, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		UserID:        account.UserID,
		Amount:        txn.Amount,
		Type:          string(txn.Type),
	})
	publish(ctx, s.publisher, events.AccountEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  account.ID,
		NewBalance: account.Balance,
		Change:     change,
	})

	return &models.LedgerResult{Transaction: txn, Account: account}, nil
}

// UpdateTransaction changes a transaction's description, the only mutable
// field. An empty description leaves it unchanged.
func (s *TransactionCommandService) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	id := strings.TrimSpace(cmd.TransactionID)
	if id == "" {
		return nil, apperr.Validation("transaction id is required")
	}

	txn, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetAccount(ctx, txn.AccountID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(cmd.Actor, account.UserID, authz.ActionUpdateTransaction); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(cmd.Description)
	if description == "" || description == txn.Description {
		return txn, nil
	}

	updated, err := s.transactions.UpdateTransactionDescription(ctx, id, description)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.TransactionEventsStream, events.TransactionUpdated, events.TransactionUpdatedEvent{
		TransactionID: updated.ID,
		AccountID:     updated.AccountID,
		Description:   updated.Description,
	})
	return updated, nil
}
