// Package memory implements repository.Store in process memory. It backs the
// test suites and single-process deployments that need no database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mperez230-ship-it/MiniBanco/internal/repository"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

var _ repository.Store = (*Store)(nil)

// Store guards its maps with mu. Ledger operations additionally hold a
// per-account lock for the whole read-modify-write, so mu is only taken for
// short reads and for the final commit.
type Store struct {
	mu           sync.RWMutex
	users        map[string]models.User
	accounts     map[string]models.Account
	transactions map[string]models.Transaction

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]models.User),
		accounts:     make(map[string]models.Account),
		transactions: make(map[string]models.Transaction),
		locks:        make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex for id, creating it on first use. Entries are
// never removed so two goroutines can never hold different mutexes for the
// same id.
func (s *Store) accountLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// lockAccounts acquires the locks of ids in sorted order and returns the
// matching unlock.
func (s *Store) lockAccounts(ids []string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	locks := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		lock := s.accountLock(id)
		lock.Lock()
		locks = append(locks, lock)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (s *Store) EnsureSchema(ctx context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }
