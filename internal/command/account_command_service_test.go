package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1")
	f.register(t, "u2")
	f.accounts.now = fixedClock(time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local))

	tests := []struct {
		name    string
		cmd     cqrs.CreateAccountCommand
		wantErr error
	}{
		{
			name: "owner defaults to actor",
			cmd:  cqrs.CreateAccountCommand{Actor: u1, ID: "A1", Type: models.AccountTypeSavings},
		},
		{
			name: "admin opens for another user",
			cmd:  cqrs.CreateAccountCommand{Actor: admin, ID: "A2", OwnerID: "u2", Type: models.AccountTypeChecking},
		},
		{
			name:    "user opens for another user",
			cmd:     cqrs.CreateAccountCommand{Actor: u1, ID: "A3", OwnerID: "u2", Type: models.AccountTypeChecking},
			wantErr: apperr.ErrForbidden,
		},
		{
			name:    "duplicate id",
			cmd:     cqrs.CreateAccountCommand{Actor: u1, ID: "A1", Type: models.AccountTypeSavings},
			wantErr: apperr.ErrConflict,
		},
		{
			name:    "bad type",
			cmd:     cqrs.CreateAccountCommand{Actor: u1, ID: "A4", Type: "crypto"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "bad id",
			cmd:     cqrs.CreateAccountCommand{Actor: u1, ID: "a/b", Type: models.AccountTypeSavings},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "negative initial balance",
			cmd:     cqrs.CreateAccountCommand{Actor: u1, ID: "A5", Type: models.AccountTypeSavings, InitialBalance: decimal.NewFromInt(-1)},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "owner does not exist",
			cmd:     cqrs.CreateAccountCommand{Actor: admin, ID: "A6", OwnerID: "ghost", Type: models.AccountTypeSavings},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:    "anonymous actor",
			cmd:     cqrs.CreateAccountCommand{ID: "A7", Type: models.AccountTypeSavings},
			wantErr: apperr.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := f.accounts.CreateAccount(context.Background(), tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.CreatedAt != "2024-03-09 14:05:06" {
				t.Errorf("createdAt = %q", account.CreatedAt)
			}
			if !account.Balance.IsZero() {
				t.Errorf("balance = %s", account.Balance)
			}
		})
	}
}

func TestCreateAccount_InitialBalance(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1")

	account, err := f.accounts.CreateAccount(context.Background(), cqrs.CreateAccountCommand{
		Actor: u1, ID: "A1", Type: models.AccountTypeSavings,
		InitialBalance: decimal.RequireFromString("250.75"), CreatedAt: "09/03/2024",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if !account.Balance.Equal(decimal.RequireFromString("250.75")) {
		t.Errorf("balance = %s", account.Balance)
	}
	if account.CreatedAt != "09/03/2024" {
		t.Errorf("caller createdAt not kept: %q", account.CreatedAt)
	}

	txns := f.transactionsOf(t, "A1")
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
	if txns[0].Description != "Initial deposit" || txns[0].Type != models.TransactionTypeDeposit {
		t.Errorf("initial transaction = %+v", txns[0])
	}
	if !ledgerSum(txns).Equal(f.balanceOf(t, "A1")) {
		t.Errorf("balance does not match ledger")
	}
}

func TestCreateAccount_ConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.accounts.CreateAccount(context.Background(), cqrs.CreateAccountCommand{
				Actor: u1, ID: "A1", Type: models.AccountTypeSavings, InitialBalance: decimal.NewFromInt(10),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 || conflicts != workers-1 {
		t.Errorf("created=%d conflicts=%d", created, conflicts)
	}
	if got := len(f.transactionsOf(t, "A1")); got != 1 {
		t.Errorf("initial transactions = %d, want 1", got)
	}
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1")
	f.register(t, "u2")
	f.openAccount(t, u1, "A1", 40)

	tests := []struct {
		name     string
		actor    models.Actor
		newType  models.AccountType
		wantErr  error
		wantType models.AccountType
	}{
		{"owner changes type", u1, models.AccountTypeChecking, nil, models.AccountTypeChecking},
		{"empty type is a no-op", u1, "", nil, models.AccountTypeChecking},
		{"other user", u2, models.AccountTypeSavings, apperr.ErrForbidden, ""},
		{"invalid type", u1, "gold", apperr.ErrValidation, ""},
		{"admin changes type", admin, models.AccountTypeTermDeposit, nil, models.AccountTypeTermDeposit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := f.accounts.UpdateAccount(context.Background(), cqrs.UpdateAccountCommand{
				Actor: tt.actor, AccountID: "A1", Type: tt.newType,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.Type != tt.wantType {
				t.Errorf("type = %s, want %s", account.Type, tt.wantType)
			}
			if account.UserID != "u1" || !account.Balance.Equal(decimal.NewFromInt(40)) {
				t.Errorf("immutable fields changed: %+v", account)
			}
		})
	}

	_, err := f.accounts.UpdateAccount(context.Background(), cqrs.UpdateAccountCommand{Actor: u1, AccountID: "missing", Type: models.AccountTypeSavings})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing account: %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	f.register(t, "u1")
	f.openAccount(t, u1, "A1", 10)

	err := f.accounts.DeleteAccount(context.Background(), cqrs.DeleteAccountCommand{Actor: u1, AccountID: "A1"})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("owner delete: expected forbidden, got %v", err)
	}
	if err := f.accounts.DeleteAccount(context.Background(), cqrs.DeleteAccountCommand{Actor: admin, AccountID: "A1"}); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	err = f.accounts.DeleteAccount(context.Background(), cqrs.DeleteAccountCommand{Actor: admin, AccountID: "A1"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
	if got := len(f.transactionsOf(t, "A1")); got != 0 {
		t.Errorf("orphaned transactions = %d", got)
	}
}
