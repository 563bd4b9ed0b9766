package command

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/internal/authz"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/events"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

var errInvalidID = apperr.Validation("id must be 1 to 64 characters without spaces or slashes")

type AccountCommandService struct {
	accounts  repository.AccountRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewAccountCommandService(accounts repository.AccountRepository, publisher events.Publisher) *AccountCommandService {
	return &AccountCommandService{
		accounts:  accounts,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateAccount opens an account for OwnerID, or for the actor when no owner
// is given. A positive initial balance is booked as an "Initial deposit"
// transaction in the same storage transaction as the account itself.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	id := utils.NormalizeID(cmd.ID)
	if !utils.ValidID(id) {
		return nil, errInvalidID
	}
	ownerID := utils.NormalizeID(cmd.OwnerID)
	if ownerID == "" {
		ownerID = cmd.Actor.ID
	}
	if ownerID == "" {
		return nil, apperr.Validation("userId is required")
	}
	if !cmd.Type.Valid() {
		return nil, apperr.Validation("type must be one of savings, checking, term-deposit")
	}
	if cmd.InitialBalance.IsNegative() {
		return nil, apperr.Validation("initial balance cannot be negative")
	}
	if cmd.InitialBalance.IsPositive() {
		if err := validateAmount(cmd.InitialBalance); err != nil {
			return nil, err
		}
	}
	if err := authz.Authorize(cmd.Actor, ownerID, authz.ActionCreateAccount); err != nil {
		return nil, err
	}

	now := s.now()
	createdAt := strings.TrimSpace(cmd.CreatedAt)
	if createdAt == "" {
		createdAt = now.Format(models.CreatedAtLayout)
	}

	account := &models.Account{
		ID:        id,
		UserID:    ownerID,
		Type:      cmd.Type,
		Balance:   decimal.Zero,
		CreatedAt: createdAt,
	}

	var initial *models.Transaction
	if cmd.InitialBalance.IsPositive() {
		var err error
		initial, err = post(account, models.TransactionTypeDeposit, cmd.InitialBalance, descriptionInitialDeposit, now.UTC())
		if err != nil {
			return nil, err
		}
	}

	if err := s.accounts.CreateAccount(ctx, account, initial); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountID: account.ID,
		UserID:    account.UserID,
		Type:      string(account.Type),
		Balance:   account.Balance,
	})
	if initial != nil {
		publish(ctx, s.publisher, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
			TransactionID: initial.ID,
			AccountID:     account.ID,
			UserID:        account.UserID,
			Amount:        initial.Amount,
			Type:          string(initial.Type),
		})
	}
	return account, nil
}

// UpdateAccount changes the account type. An empty type is a no-op.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	if cmd.Type != "" && !cmd.Type.Valid() {
		return nil, apperr.Validation("type must be one of savings, checking, term-deposit")
	}

	account, err := s.accounts.GetAccount(ctx, utils.NormalizeID(cmd.AccountID))
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(cmd.Actor, account.UserID, authz.ActionUpdateAccount); err != nil {
		return nil, err
	}
	if cmd.Type == "" || cmd.Type == account.Type {
		return account, nil
	}

	updated, err := s.accounts.UpdateAccountType(ctx, account.ID, cmd.Type)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.AccountEventsStream, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID: updated.ID,
		UserID:    updated.UserID,
		Type:      string(updated.Type),
	})
	return updated, nil
}

// DeleteAccount is admin-only and removes the account's transactions with it.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) error {
	if err := authz.Authorize(cmd.Actor, "", authz.ActionDeleteAccount); err != nil {
		return err
	}

	account, err := s.accounts.GetAccount(ctx, utils.NormalizeID(cmd.AccountID))
	if err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(ctx, account.ID); err != nil {
		return err
	}

	publish(ctx, s.publisher, events.AccountEventsStream, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID: account.ID,
		UserID:    account.UserID,
	})
	return nil
}
