package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

// openTestStore connects to DATABASE_URL and seeds a user with one empty
// account. Ids are unique per run so a shared database can be reused.
func openTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	suffix := utils.NewTransactionID()[:8]
	userID, accountID := "it-user-"+suffix, "it-acct-"+suffix
	err = store.CreateUser(ctx, &models.User{
		ID: userID, Name: userID, PasswordHash: "x", Role: models.RoleUser, CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	t.Cleanup(func() {
		if err := store.DeleteUser(context.Background(), userID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("cleanup: %v", err)
		}
	})
	err = store.CreateAccount(ctx, &models.Account{
		ID: accountID, UserID: userID, Type: models.AccountTypeSavings,
		Balance: decimal.Zero, CreatedAt: time.Now().UTC().Format(models.CreatedAtLayout),
	}, nil)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return store, userID, accountID
}

func ledgerEntry(txnType models.TransactionType, amount decimal.Decimal) repository.LedgerFunc {
	return func(account *models.Account) (*models.Transaction, error) {
		switch txnType {
		case models.TransactionTypeDeposit:
			account.Balance = account.Balance.Add(amount)
		case models.TransactionTypeWithdrawal:
			if account.Balance.LessThan(amount) {
				return nil, apperr.InsufficientFunds("Insufficient funds")
			}
			account.Balance = account.Balance.Sub(amount)
		}
		return &models.Transaction{
			ID:        utils.NewTransactionID(),
			AccountID: account.ID,
			Type:      txnType,
			Amount:    amount,
			Date:      time.Now().UTC(),
		}, nil
	}
}

func countTransactions(t *testing.T, store *Store, accountID string) int {
	t.Helper()
	txns, err := store.ListTransactions(context.Background(), repository.TransactionFilter{AccountIDs: []string{accountID}})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	return len(txns)
}

func TestIntegration_ConcurrentDeposits(t *testing.T) {
	store, _, accountID := openTestStore(t)
	ctx := context.Background()
	const workers = 25
	amount := decimal.RequireFromString("10.25")

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.ApplyTransaction(ctx, accountID, ledgerEntry(models.TransactionTypeDeposit, amount))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
	}

	account, err := store.GetAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	want := amount.Mul(decimal.NewFromInt(workers))
	if !account.Balance.Equal(want) {
		t.Errorf("balance = %s, want %s", account.Balance, want)
	}
	if n := countTransactions(t, store, accountID); n != workers {
		t.Errorf("transactions = %d, want %d", n, workers)
	}
}

func TestIntegration_WithdrawalsNeverOverdraw(t *testing.T) {
	store, _, accountID := openTestStore(t)
	ctx := context.Background()

	if _, _, err := store.ApplyTransaction(ctx, accountID, ledgerEntry(models.TransactionTypeDeposit, decimal.NewFromInt(100))); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.ApplyTransaction(ctx, accountID, ledgerEntry(models.TransactionTypeWithdrawal, decimal.NewFromInt(30)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, refused := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperr.ErrInsufficientFunds):
			refused++
		default:
			t.Fatalf("withdrawal: %v", err)
		}
	}
	if succeeded != 3 || refused != workers-3 {
		t.Errorf("succeeded=%d refused=%d, want 3 and %d", succeeded, refused, workers-3)
	}

	account, _ := store.GetAccount(ctx, accountID)
	if !account.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("balance = %s, want 10", account.Balance)
	}
	if n := countTransactions(t, store, accountID); n != 1+succeeded {
		t.Errorf("transactions = %d, want %d", n, 1+succeeded)
	}
}

func TestIntegration_InsufficientFundsWritesNothing(t *testing.T) {
	store, _, accountID := openTestStore(t)
	ctx := context.Background()

	_, _, err := store.ApplyTransaction(ctx, accountID, ledgerEntry(models.TransactionTypeWithdrawal, decimal.NewFromInt(1)))
	if !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	account, _ := store.GetAccount(ctx, accountID)
	if !account.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", account.Balance)
	}
	if n := countTransactions(t, store, accountID); n != 0 {
		t.Errorf("transactions = %d, want 0", n)
	}
}

func TestIntegration_UpdateUserKeepsOtherColumns(t *testing.T) {
	store, userID, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := store.UpdateUser(ctx, userID, repository.UserUpdate{Role: models.RoleAdmin}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	user, err := store.UpdateUser(ctx, userID, repository.UserUpdate{Name: "Renamed"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if user.Name != "Renamed" || user.Role != models.RoleAdmin {
		t.Errorf("user = %s/%s, want Renamed/admin", user.Name, user.Role)
	}

	_, err = store.UpdateUser(ctx, "it-ghost-"+userID, repository.UserUpdate{Name: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown user: got %v, want not found", err)
	}
}

func TestIntegration_DeleteUserCascades(t *testing.T) {
	store, userID, accountID := openTestStore(t)
	ctx := context.Background()

	txn, _, err := store.ApplyTransaction(ctx, accountID, ledgerEntry(models.TransactionTypeDeposit, decimal.NewFromInt(5)))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := store.DeleteUser(ctx, userID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	checks := []struct {
		name string
		err  error
	}{
		{"account", func() error { _, err := store.GetAccount(ctx, accountID); return err }()},
		{"transaction", func() error { _, err := store.GetTransaction(ctx, txn.ID); return err }()},
	}
	for _, c := range checks {
		if !errors.Is(c.err, apperr.ErrNotFound) {
			t.Errorf("%s after cascade: %v", c.name, c.err)
		}
	}
}
