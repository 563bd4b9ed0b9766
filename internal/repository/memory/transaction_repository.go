package memory

import (
	"context"
	"sort"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func (s *Store) ApplyTransaction(ctx context.Context, accountID string, fn repository.LedgerFunc) (*models.Transaction, *models.Account, error) {
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	account, ok := s.accounts[accountID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, repository.ErrAccountNotFound
	}

	txn, err := fn(&account)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The owner may have been deleted while fn ran.
	current, ok := s.accounts[accountID]
	if !ok {
		return nil, nil, repository.ErrAccountNotFound
	}
	if _, exists := s.transactions[txn.ID]; exists {
		return nil, nil, repository.ErrTransactionExists
	}
	// Only the balance belongs to the ledger. Other fields may have been
	// updated by a writer that does not take the account lock.
	current.Balance = account.Balance
	s.accounts[accountID] = current
	s.transactions[txn.ID] = *txn

	committedTxn := *txn
	return &committedTxn, &current, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[id]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	return &txn, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	if !filter.All && len(filter.AccountIDs) == 0 {
		return txns, nil
	}

	wanted := make(map[string]struct{}, len(filter.AccountIDs))
	for _, id := range filter.AccountIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	for _, txn := range s.transactions {
		if _, ok := wanted[txn.AccountID]; filter.All || ok {
			txns = append(txns, txn)
		}
	}
	s.mu.RUnlock()

	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].ID > txns[j].ID
	})
	return txns, nil
}

func (s *Store) UpdateTransactionDescription(ctx context.Context, id, description string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.transactions[id]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	txn.Description = description
	s.transactions[id] = txn
	return &txn, nil
}
