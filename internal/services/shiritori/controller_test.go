package shiritori

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/mocks"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/game"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
	"github.com/mcoot/shiritorimatch-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	rooms      *room.Directory
	games      *game.Registry
	controller *Controller
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.rooms = room.NewDirectory(s.clock, s.random, logger)
	s.games = game.NewRegistry()
	s.controller = NewController(s.rooms, s.games, s.clock, s.random, logger)
}

// fullRoom creates a room, fills it with the given players and returns it.
// Also queues the opening character draw for the game that will follow.
func (s *ControllerSuite) fullRoom(players ...*model.Player) *room.Room {
	s.random.QueueIntn(1234 - room.MinRoomNo)
	r, err := s.rooms.CreateRoom(len(players))
	s.Require().NoError(err)
	for _, p := range players {
		s.Require().NoError(r.AddPlayer(p))
	}
	s.random.QueueIntn(openingRi)
	return r
}

func player(id model.PlayerID) *model.Player {
	return &model.Player{ID: id, Name: "player", Rating: 1500}
}

func (s *ControllerSuite) TestReadyCreatesGameWhenRoomFull() {
	r := s.fullRoom(player(p1), player(p2))
	s.Require().Empty(r.GameID())

	s.Require().NoError(s.controller.Ready(p1))

	s.Require().NotEmpty(r.GameID())
	g, err := s.controller.GameForPlayer(p1)
	s.Require().NoError(err)
	s.Assert().Equal(r.GameID(), g.ID())
	s.Assert().True(g.IsReady(p1))
	s.Assert().Equal([]model.PlayerID{p1, p2}, g.PlayerIDs())

	// the second ready reuses the same game and starts the first turn
	s.Require().NoError(s.controller.Ready(p2))
	g2, err := s.controller.GameForPlayer(p2)
	s.Require().NoError(err)
	s.Assert().Equal(r.GameID(), g2.ID())
	turn, err := g.CurrentTurn()
	s.Require().NoError(err)
	s.Assert().Equal(p1, turn.PlayerID)
}

func (s *ControllerSuite) TestReadyRequiresFullRoom() {
	s.random.QueueIntn(1234 - room.MinRoomNo)
	r, err := s.rooms.CreateRoom(2)
	s.Require().NoError(err)
	s.Require().NoError(r.AddPlayer(player(p1)))

	s.Require().ErrorIs(s.controller.Ready(p1), model.ErrRoomNotReady)
	s.Assert().Empty(r.GameID())
}

func (s *ControllerSuite) TestReadyWithoutRoom() {
	s.Require().ErrorIs(s.controller.Ready(p1), model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestGameForPlayerBeforeReady() {
	s.fullRoom(player(p1), player(p2))

	_, err := s.controller.GameForPlayer(p1)
	s.Require().ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestFinishedGameRetiresRoom() {
	r := s.fullRoom(player(p1), player(p2))
	s.Require().NoError(s.controller.Ready(p1))
	s.Require().NoError(s.controller.Ready(p2))
	gameID := r.GameID()

	result, err := s.controller.Answer(p1, "りんご")
	s.Require().NoError(err)
	s.Assert().Equal(model.ResultOK, result)

	result, err = s.controller.Answer(p2, "ごはん")
	s.Require().NoError(err)
	s.Assert().Equal(model.ResultGameover, result)

	// game and room are both gone once the match ends
	_, err = s.games.Get(gameID)
	s.Require().ErrorIs(err, model.ErrGameNotFound)
	_, err = s.rooms.GetRoom(r.No())
	s.Require().ErrorIs(err, model.ErrRoomNotFound)
	_, err = s.rooms.FindRoomByPlayer(p1)
	s.Require().ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestTimeoutRetiresRoom() {
	r := s.fullRoom(player(p1), player(p2))
	s.Require().NoError(s.controller.Ready(p1))
	s.Require().NoError(s.controller.Ready(p2))

	s.clock.Advance(TurnLimit)

	_, err := s.rooms.GetRoom(r.No())
	s.Require().ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestRemovedRoomAbortsGame() {
	r := s.fullRoom(player(p1), player(p2))
	s.Require().NoError(s.controller.Ready(p1))
	s.Require().NoError(s.controller.Ready(p2))
	g, err := s.controller.GameForPlayer(p1)
	s.Require().NoError(err)

	s.Require().True(s.rooms.RemoveRoom(r.No()))

	// the game goes down with the room, not ten seconds later
	s.Assert().True(g.Disposed())
	_, err = s.games.Get(g.ID())
	s.Require().ErrorIs(err, model.ErrGameNotFound)
	events := g.Events()
	s.Assert().Equal(model.EventAbort, events[len(events)-1].Type)

	// the abort cancelled the turn timer; advancing time adds no forfeit
	s.clock.Advance(TurnLimit)
	s.Assert().Equal(len(events), len(g.Events()))
}

func (s *ControllerSuite) TestClaimThroughController() {
	s.fullRoom(player(p1), player(p2))
	s.Require().NoError(s.controller.Ready(p1))
	s.Require().NoError(s.controller.Ready(p2))

	_, err := s.controller.Answer(p1, "りんご")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.Claim(p2))

	g, err := s.controller.GameForPlayer(p1)
	s.Require().NoError(err)
	turn, err := g.CurrentTurn()
	s.Require().NoError(err)
	s.Assert().Equal(p1, turn.PlayerID)
	s.Assert().Equal("り", turn.Word)
}

func (s *ControllerSuite) TestAnswerWithoutGame() {
	s.fullRoom(player(p1), player(p2))

	_, err := s.controller.Answer(p1, "りんご")
	s.Require().ErrorIs(err, model.ErrGameNotFound)
	s.Require().ErrorIs(s.controller.Claim(p1), model.ErrGameNotFound)
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}
