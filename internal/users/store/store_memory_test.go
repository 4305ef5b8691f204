package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"backoffice/internal/users/models"
	"backoffice/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore(SeedUsers()...)
}

func (s *InMemoryStoreSuite) TestSeed() {
	users, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 5)
	s.Equal("John Doe", users[0].Name)
	s.Nil(users[4].LastLogin)
}

func (s *InMemoryStoreSuite) TestAppendKeepsInsertionOrder() {
	s.Require().NoError(s.store.Append(s.ctx, models.User{ID: "6", Name: "Zed"}))
	users, _ := s.store.List(s.ctx)
	s.Equal("6", users[len(users)-1].ID)
}

func (s *InMemoryStoreSuite) TestFindByID() {
	u, err := s.store.FindByID(s.ctx, "2")
	s.Require().NoError(err)
	s.Equal("Jane Smith", u.Name)

	_, err = s.store.FindByID(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpdate() {
	s.Run("applies the mutation", func() {
		u, err := s.store.Update(s.ctx, "3", func(u *models.User) { u.Status = models.StatusInactive })
		s.Require().NoError(err)
		s.Equal(models.StatusInactive, u.Status)
	})

	s.Run("missing id leaves the collection untouched", func() {
		before, _ := s.store.List(s.ctx)
		_, err := s.store.Update(s.ctx, "missing", func(u *models.User) { u.Name = "x" })
		s.ErrorIs(err, sentinel.ErrNotFound)
		after, _ := s.store.List(s.ctx)
		s.Equal(before, after)
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Delete(s.ctx, "1"))
	_, err := s.store.FindByID(s.ctx, "1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, "1"), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListReturnsCopy() {
	users, _ := s.store.List(s.ctx)
	users[0].Name = "Mutated"
	again, _ := s.store.List(s.ctx)
	s.Equal("John Doe", again[0].Name)
}
