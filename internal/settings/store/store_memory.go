package store

import (
	"context"
	"slices"
	"sync"

	"backoffice/internal/settings/models"
)

// Account is the single persisted settings record.
type Account struct {
	Profile      models.Profile
	Preferences  models.Preferences
	PasswordHash []byte
}

// InMemoryStore holds one Account. Reads return copies.
type InMemoryStore struct {
	mu      sync.RWMutex
	account Account
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{account: defaultAccount()}
}

func defaultAccount() Account {
	return Account{
		Profile:     models.DefaultProfile(),
		Preferences: models.DefaultPreferences(),
	}
}

func (s *InMemoryStore) Load(_ context.Context) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.account), nil
}

// Update applies fn to the account under the write lock.
func (s *InMemoryStore) Update(_ context.Context, fn func(*Account) error) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := clone(s.account)
	if err := fn(&next); err != nil {
		return clone(s.account), err
	}
	s.account = next
	return clone(next), nil
}

// Reset restores the defaults and forgets the password.
func (s *InMemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = defaultAccount()
	return nil
}

func clone(a Account) Account {
	a.PasswordHash = slices.Clone(a.PasswordHash)
	return a
}
