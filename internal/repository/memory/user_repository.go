package memory

import (
	"context"
	"sort"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return repository.ErrUserExists
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update repository.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Role != "" {
		user.Role = update.Role
	}
	s.users[id] = user
	return &user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.RLock()
	_, ok := s.users[id]
	owned := s.ownedAccountIDs(id)
	s.mu.RUnlock()
	if !ok {
		return repository.ErrUserNotFound
	}

	unlock := s.lockAccounts(owned)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	// Rescan under the write lock: accounts created after the first scan
	// are removed too.
	for _, accountID := range s.ownedAccountIDs(id) {
		s.deleteAccountLocked(accountID)
	}
	delete(s.users, id)
	return nil
}

// ownedAccountIDs must be called with mu held.
func (s *Store) ownedAccountIDs(ownerID string) []string {
	var ids []string
	for id, account := range s.accounts {
		if account.UserID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids
}
