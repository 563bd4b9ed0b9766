package query

import (
	"context"

	"github.com/mperez230-ship-it/MiniBanco/internal/authz"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

// AccountQueryService serves account reads scoped to what the actor may see.
type AccountQueryService struct {
	accounts repository.AccountRepository
}

func NewAccountQueryService(accounts repository.AccountRepository) *AccountQueryService {
	return &AccountQueryService{accounts: accounts}
}

// ListAccounts returns every account for an admin and the actor's own
// accounts for anyone else.
func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.Account, error) {
	scope := authz.ScopeFor(q.Actor)
	if !scope.All && scope.OwnerID == "" {
		return []models.Account{}, nil
	}
	return s.accounts.ListAccounts(ctx, repository.AccountFilter{All: scope.All, OwnerID: scope.OwnerID})
}

func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	account, err := s.accounts.GetAccount(ctx, utils.NormalizeID(q.AccountID))
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(q.Actor, account.UserID, authz.ActionReadAccount); err != nil {
		return nil, err
	}
	return account, nil
}
