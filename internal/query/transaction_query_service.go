package query

import (
	"context"

	"github.com/mperez230-ship-it/MiniBanco/internal/authz"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

type TransactionQueryService struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
}

func NewTransactionQueryService(transactions repository.TransactionRepository, accounts repository.AccountRepository) *TransactionQueryService {
	return &TransactionQueryService{transactions: transactions, accounts: accounts}
}

// ListTransactions returns transactions newest first. With an account id the
// actor must be allowed to read that account. Without one, a non-admin sees
// the transactions of the accounts they own; owning none short-circuits to an
// empty list without querying transactions.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
	filter, err := s.filterFor(ctx, q)
	if err != nil {
		return nil, err
	}
	if !filter.All && len(filter.AccountIDs) == 0 {
		return []models.Transaction{}, nil
	}
	return s.transactions.ListTransactions(ctx, filter)
}

func (s *TransactionQueryService) filterFor(ctx context.Context, q cqrs.ListTransactionsQuery) (repository.TransactionFilter, error) {
	scope := authz.ScopeFor(q.Actor)

	if accountID := utils.NormalizeID(q.AccountID); accountID != "" {
		account, err := s.accounts.GetAccount(ctx, accountID)
		if err != nil {
			return repository.TransactionFilter{}, err
		}
		if !scope.Allows(account.UserID) {
			return repository.TransactionFilter{}, authz.Denied(authz.ActionReadTransaction)
		}
		return repository.TransactionFilter{AccountIDs: []string{account.ID}}, nil
	}

	if scope.All {
		return repository.TransactionFilter{All: true}, nil
	}
	if scope.OwnerID == "" {
		return repository.TransactionFilter{}, nil
	}
	ids, err := s.accounts.AccountIDsByOwner(ctx, scope.OwnerID)
	if err != nil {
		return repository.TransactionFilter{}, err
	}
	return repository.TransactionFilter{AccountIDs: ids}, nil
}
