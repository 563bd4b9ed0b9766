package memory

import (
	"context"
	"sort"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func (s *Store) CreateAccount(ctx context.Context, account *models.Account, initial *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return repository.ErrAccountExists
	}
	if _, ok := s.users[account.UserID]; !ok {
		return repository.ErrOwnerNotFound
	}
	if initial != nil {
		if _, exists := s.transactions[initial.ID]; exists {
			return repository.ErrTransactionExists
		}
		s.transactions[initial.ID] = *initial
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &account, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter repository.AccountFilter) ([]models.Account, error) {
	accounts := []models.Account{}
	if !filter.All && filter.OwnerID == "" {
		return accounts, nil
	}

	s.mu.RLock()
	for _, account := range s.accounts {
		if filter.All || account.UserID == filter.OwnerID {
			accounts = append(accounts, account)
		}
	}
	s.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (s *Store) AccountIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.ownedAccountIDs(ownerID)
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	account.Type = accountType
	s.accounts[id] = account
	return &account, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	lock := s.accountLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	s.deleteAccountLocked(id)
	return nil
}

// deleteAccountLocked removes the account and its transactions. mu must be
// held for writing.
func (s *Store) deleteAccountLocked(id string) {
	for txnID, txn := range s.transactions {
		if txn.AccountID == id {
			delete(s.transactions, txnID)
		}
	}
	delete(s.accounts, id)
}
