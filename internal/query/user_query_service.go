package query

import (
	"context"

	"github.com/mperez230-ship-it/MiniBanco/internal/authz"
	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/apperr"
	"github.com/mperez230-ship-it/MiniBanco/shared/cqrs"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
	"github.com/mperez230-ship-it/MiniBanco/shared/utils"
)

// TokenIssuer signs a session token for an authenticated actor.
type TokenIssuer interface {
	Issue(actor models.Actor) (string, error)
}

// UserQueryService handles user listing and login. Login lives on the read
// side because it does not change any stored state.
type UserQueryService struct {
	users  repository.UserRepository
	tokens TokenIssuer
}

func NewUserQueryService(users repository.UserRepository, tokens TokenIssuer) *UserQueryService {
	return &UserQueryService{users: users, tokens: tokens}
}

// ListUsers is admin-only and never exposes password hashes.
func (s *UserQueryService) ListUsers(ctx context.Context, q cqrs.ListUsersQuery) ([]models.UserView, error) {
	if err := authz.Authorize(q.Actor, "", authz.ActionListUsers); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, *users[i].View())
	}
	return views, nil
}

// Authenticate verifies the credentials. An unknown id is NotFound and a
// wrong password is Unauthorized.
func (s *UserQueryService) Authenticate(ctx context.Context, cmd cqrs.LoginCommand) (*models.LoginView, error) {
	id := utils.NormalizeID(cmd.ID)
	if id == "" || cmd.Password == "" {
		return nil, apperr.Validation("id and password are required")
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid password")
	}

	view := &models.LoginView{User: user.View()}
	if s.tokens != nil {
		token, err := s.tokens.Issue(models.Actor{ID: user.ID, Role: user.Role})
		if err != nil {
			return nil, apperr.Internal("failed to issue token", err)
		}
		view.Token = token
	}
	return view, nil
}
