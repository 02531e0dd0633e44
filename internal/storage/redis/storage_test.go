package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shiritorimatch-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := &model.Player{
		Name:      "alice",
		Rating:    1500,
		Token:     "tok-a",
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))
	s.Assert().Equal(model.PlayerID(1), player.ID)

	got, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Assert().Equal("alice", got.Name)
	s.Assert().Equal(1500, got.Rating)
	s.Assert().Equal("tok-a", got.Token)
}

func (s *StorageSuite) TestCreatePlayerAssignsDistinctIDs() {
	alice := &model.Player{Name: "alice", Token: "tok-a"}
	bob := &model.Player{Name: "bob", Token: "tok-b"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, bob))
	s.Assert().NotEqual(alice.ID, bob.ID)
}

func (s *StorageSuite) TestCreatePlayerRejectsTakenName() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{Name: "alice", Token: "tok-a"}))
	err := s.storage.CreatePlayer(s.ctx, &model.Player{Name: "alice", Token: "tok-b"})
	s.Require().ErrorIs(err, model.ErrNameTaken)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, 999)
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByToken() {
	alice := &model.Player{Name: "alice", Token: "tok-a"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))

	got, err := s.storage.GetPlayerByToken(s.ctx, "tok-a")
	s.Require().NoError(err)
	s.Assert().Equal(alice.ID, got.ID)

	_, err = s.storage.GetPlayerByToken(s.ctx, "unknown")
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerRename() {
	alice := &model.Player{Name: "alice", Token: "tok-a"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))

	renamed := *alice
	renamed.Name = "alicia"
	renamed.Token = "tok-a2"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &renamed))

	got, err := s.storage.GetPlayerByToken(s.ctx, "tok-a2")
	s.Require().NoError(err)
	s.Assert().Equal("alicia", got.Name)

	_, err = s.storage.GetPlayerByToken(s.ctx, "tok-a")
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)

	// old name is free again
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, &model.Player{Name: "alice", Token: "tok-b"}))
}

func (s *StorageSuite) TestSavePlayerRejectsNameCollision() {
	alice := &model.Player{Name: "alice", Token: "tok-a"}
	bob := &model.Player{Name: "bob", Token: "tok-b"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, bob))

	bobRenamed := *bob
	bobRenamed.Name = "alice"
	s.Require().ErrorIs(s.storage.SavePlayer(s.ctx, &bobRenamed), model.ErrNameTaken)
}

func (s *StorageSuite) TestSavePlayerUnknownID() {
	err := s.storage.SavePlayer(s.ctx, &model.Player{ID: 42, Name: "ghost"})
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	alice := &model.Player{Name: "alice", Token: "tok-a"}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, alice.ID))

	_, err := s.storage.GetPlayer(s.ctx, alice.ID)
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByToken(s.ctx, "tok-a")
	s.Require().ErrorIs(err, model.ErrPlayerNotFound)

	// deleting again is a no-op
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, alice.ID))
}
