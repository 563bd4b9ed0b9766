package command

import (
	"context"
	"errors"
	"log"
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

// BootstrapAdmin describes the administrator guaranteed to exist after
// start-up. It can be neither deleted nor demoted.
type BootstrapAdmin struct {
	ID       string
	Name     string
	Password string
}

type UserCommandService struct {
	users     repository.UserRepository
	publisher events.Publisher
	bootstrap BootstrapAdmin
	now       func() time.Time
}

func NewUserCommandService(users repository.UserRepository, publisher events.Publisher, bootstrap BootstrapAdmin) *UserCommandService {
	if bootstrap.Name == "" {
		bootstrap.Name = "Administrator"
	}
	return &UserCommandService{
		users:     users,
		publisher: publisher,
		bootstrap: bootstrap,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user. The admin role is granted only when an
// authenticated admin asks for it; every other caller gets a regular user.
func (s *UserCommandService) Register(ctx context.Context, cmd cqrs.RegisterUserCommand) (*models.UserView, error) {
	id := utils.NormalizeID(cmd.ID)
	if !utils.ValidID(id) {
		return nil, errInvalidID
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if cmd.Password == "" {
		return nil, apperr.Validation("password is required")
	}
	if cmd.Role != "" && !cmd.Role.Valid() {
		return nil, apperr.Validation("role must be user or admin")
	}

	role := models.RoleUser
	if cmd.Role == models.RoleAdmin && cmd.Actor != nil && cmd.Actor.IsAdmin() {
		role = models.RoleAdmin
	}

	user, err := s.create(ctx, id, name, cmd.Password, role)
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

func (s *UserCommandService) create(ctx context.Context, id, name, password string, role models.Role) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}
	user := &models.User{
		ID:           id,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	})
	return user, nil
}

// UpdateUser changes the name (self or admin) and the role (admin only).
// Empty fields are left unchanged.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	if cmd.Role != "" && !cmd.Role.Valid() {
		return nil, apperr.Validation("role must be user or admin")
	}

	user, err := s.users.GetUser(ctx, utils.NormalizeID(cmd.UserID))
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(cmd.Actor, user.ID, authz.ActionUpdateUser); err != nil {
		return nil, err
	}

	// Only changed fields are sent to the store, so a rename racing an
	// admin's role change cannot write a stale role back.
	var update repository.UserUpdate
	if name := strings.TrimSpace(cmd.Name); name != "" && name != user.Name {
		update.Name = name
	}
	if cmd.Role != "" && cmd.Role != user.Role {
		if err := authz.Authorize(cmd.Actor, user.ID, authz.ActionChangeRole); err != nil {
			return nil, err
		}
		if user.ID == s.bootstrap.ID {
			return nil, apperr.Forbidden("The main administrator cannot be demoted")
		}
		update.Role = cmd.Role
	}
	if update == (repository.UserUpdate{}) {
		return user.View(), nil
	}

	updated, err := s.users.UpdateUser(ctx, user.ID, update)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
		UserID: updated.ID,
		Name:   updated.Name,
		Role:   string(updated.Role),
	})
	return updated.View(), nil
}

// DeleteUser is admin-only. It removes the user's accounts and their
// transactions with it.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	if err := authz.Authorize(cmd.Actor, "", authz.ActionDeleteUser); err != nil {
		return err
	}
	id := utils.NormalizeID(cmd.UserID)
	if id == s.bootstrap.ID {
		return apperr.Forbidden("The main administrator cannot be deleted")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}

	publish(ctx, s.publisher, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: id,
	})
	return nil
}

// EnsureBootstrapAdmin creates the bootstrap administrator if it is absent.
// Concurrent starts race on the same insert and all but one see a conflict,
// which counts as success.
func (s *UserCommandService) EnsureBootstrapAdmin(ctx context.Context) error {
	if s.bootstrap.ID == "" {
		return nil
	}
	_, err := s.create(ctx, s.bootstrap.ID, s.bootstrap.Name, s.bootstrap.Password, models.RoleAdmin)
	if errors.Is(err, apperr.ErrConflict) {
		log.Printf("Bootstrap admin %q already exists", s.bootstrap.ID)
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("Bootstrap admin %q created", s.bootstrap.ID)
	return nil
}
