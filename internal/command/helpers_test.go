package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository/memory"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

var (
	admin = models.Actor{ID: "admin", Role: models.RoleAdmin}
	u1    = models.Actor{ID: "u1", Role: models.RoleUser}
	u2    = models.Actor{ID: "u2", Role: models.RoleUser}
)

type recordingPublisher struct {
	mu     sync.Mutex
	types  []string
	failed bool
}

func (p *recordingPublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	if p.failed {
		return errors.New("broker down")
	}
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.types {
		if t == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	store        *memory.Store
	publisher    *recordingPublisher
	users        *UserCommandService
	accounts     *AccountCommandService
	transactions *TransactionCommandService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	f := &fixture{
		store:        store,
		publisher:    publisher,
		users:        NewUserCommandService(store, publisher, BootstrapAdmin{ID: "admin", Password: "admin123"}),
		accounts:     NewAccountCommandService(store, publisher),
		transactions: NewTransactionCommandService(store, store, publisher),
	}
	if err := f.users.EnsureBootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}
	return f
}

func (f *fixture) register(t *testing.T, id string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), cqrs.RegisterUserCommand{ID: id, Name: id, Password: "secret"})
	if err != nil {
		t.Fatalf("Register(%s): %v", id, err)
	}
}

func (f *fixture) openAccount(t *testing.T, actor models.Actor, id string, initial int64) *models.Account {
	t.Helper()
	account, err := f.accounts.CreateAccount(context.Background(), cqrs.CreateAccountCommand{
		Actor:          actor,
		ID:             id,
		Type:           models.AccountTypeSavings,
		InitialBalance: decimal.NewFromInt(initial),
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", id, err)
	}
	return account
}

func (f *fixture) apply(actor models.Actor, accountID string, txType models.TransactionType, amount string) (*models.LedgerResult, error) {
	return f.transactions.ApplyTransaction(context.Background(), cqrs.ApplyTransactionCommand{
		Actor:     actor,
		AccountID: accountID,
		Type:      txType,
		Amount:    decimal.RequireFromString(amount),
	})
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
