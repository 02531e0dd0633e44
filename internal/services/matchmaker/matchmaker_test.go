package matchmaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/mocks"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
	"github.com/mcoot/shiritorimatch-go/internal/testutil"
)

type MatchmakerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	rooms      *room.Directory
	matchmaker *Matchmaker
}

func (s *MatchmakerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.rooms = room.NewDirectory(s.clock, s.random, logger)
	s.matchmaker = New(s.rooms, s.clock, logger)
}

// roomWith creates a room of the given capacity holding one player with the
// given rating
func (s *MatchmakerSuite) roomWith(no model.RoomNo, capacity int, occupant model.PlayerID, rating int) *room.Room {
	s.random.QueueIntn(int(no) - room.MinRoomNo)
	r, err := s.rooms.CreateRoom(capacity)
	s.Require().NoError(err)
	s.Require().NoError(r.AddPlayer(&model.Player{ID: occupant, Rating: rating}))
	return r
}

func (s *MatchmakerSuite) TestJoinsRoomInRange() {
	r := s.roomWith(100, 2, 1, 1450)

	matched, err := s.matchmaker.MatchRoom(context.Background(), &model.Player{ID: 2, Rating: 1500})
	s.Require().NoError(err)
	s.Assert().Equal(r.No(), matched.No())
	s.Assert().Equal([]model.PlayerID{1, 2}, matched.PlayerIDs())

	// matched on the first step, so no waits
	s.Assert().Empty(s.clock.Sleeps)
}

func (s *MatchmakerSuite) TestWidensRangeUntilMatch() {
	// 150 points away: outside the 100-point steps, inside the 200-point one
	r := s.roomWith(100, 2, 1, 1650)

	matched, err := s.matchmaker.MatchRoom(context.Background(), &model.Player{ID: 2, Rating: 1500})
	s.Require().NoError(err)
	s.Assert().Equal(r.No(), matched.No())

	// waited through the first narrow step before widening
	s.Assert().Equal([]time.Duration{5 * time.Second}, s.clock.Sleeps)
}

func (s *MatchmakerSuite) TestPrefersOldestRoom() {
	older := s.roomWith(100, 2, 1, 1500)
	s.clock.Advance(time.Minute)
	s.roomWith(200, 2, 2, 1500)

	matched, err := s.matchmaker.MatchRoom(context.Background(), &model.Player{ID: 3, Rating: 1500})
	s.Require().NoError(err)
	s.Assert().Equal(older.No(), matched.No())
}

func (s *MatchmakerSuite) TestSkipsFullRooms() {
	full := s.roomWith(100, 2, 1, 1500)
	s.Require().NoError(full.AddPlayer(&model.Player{ID: 2, Rating: 1500}))
	open := s.roomWith(200, 2, 3, 1500)

	matched, err := s.matchmaker.MatchRoom(context.Background(), &model.Player{ID: 4, Rating: 1500})
	s.Require().NoError(err)
	s.Assert().Equal(open.No(), matched.No())
}

func (s *MatchmakerSuite) TestFailsWhenAlreadyInRoom() {
	player := &model.Player{ID: 1, Rating: 1500}
	s.random.QueueIntn(100 - room.MinRoomNo)
	r, err := s.rooms.CreateRoom(2)
	s.Require().NoError(err)
	s.Require().NoError(r.AddPlayer(player))

	_, err = s.matchmaker.MatchRoom(context.Background(), player)
	s.Require().ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *MatchmakerSuite) TestCreatesFallbackRoom() {
	s.random.QueueIntn(4567 - room.MinRoomNo)

	matched, err := s.matchmaker.MatchRoom(context.Background(), &model.Player{ID: 1, Rating: 1500})
	s.Require().NoError(err)
	s.Assert().Equal(model.RoomNo(4567), matched.No())
	s.Assert().Equal(2, matched.MaxPlayers())
	s.Assert().Equal([]model.PlayerID{1}, matched.PlayerIDs())

	// walked the whole schedule, waiting at both timed steps
	s.Assert().Equal([]time.Duration{5 * time.Second, 5 * time.Second}, s.clock.Sleeps)
}

func (s *MatchmakerSuite) TestLowRatingWindowClampsToZero() {
	r := s.roomWith(100, 2, 1, 0)

	matched, err := s.matchmaker.MatchRoom(context.Background(), &model.Player{ID: 2, Rating: 50})
	s.Require().NoError(err)
	s.Assert().Equal(r.No(), matched.No())
}

func (s *MatchmakerSuite) TestCancelledContextStopsWaiting() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.matchmaker.MatchRoom(ctx, &model.Player{ID: 1, Rating: 1500})
	s.Require().ErrorIs(err, context.Canceled)
}

func TestMatchmakerSuite(t *testing.T) {
	suite.Run(t, new(MatchmakerSuite))
}
