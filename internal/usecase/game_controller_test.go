package usecase

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
	"github.com/rocketscienceinc/minesweeper-console/internal/metrics"
	"github.com/rocketscienceinc/minesweeper-console/internal/minesweeper"
	"github.com/rocketscienceinc/minesweeper-console/testing/suite"
	"github.com/rocketscienceinc/minesweeper-console/transport/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type mockSnapshotRepo struct {
	mock.Mock
}

func (that *mockSnapshotRepo) Save(ctx context.Context, name string, snapshot *entity.Snapshot) error {
	args := that.Called(ctx, name, snapshot)
	return args.Error(0)
}

func (that *mockSnapshotRepo) Load(ctx context.Context, name string) (*entity.Snapshot, error) {
	args := that.Called(ctx, name)

	snapshot, _ := args.Get(0).(*entity.Snapshot)

	return snapshot, args.Error(1)
}

// walledSnapshot - 9x9 board whose bombs fence off the top-left 4x4 corner, plus one bomb in the far corner.
func walledSnapshot() *entity.Snapshot {
	board := make([][]entity.Cell, minesweeper.GridSize)
	for row := range board {
		board[row] = make([]entity.Cell, minesweeper.GridSize)
	}

	for _, at := range [][2]int{{0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4}, {4, 0}, {4, 1}, {4, 2}, {4, 3}, {8, 8}} {
		board[at[0]][at[1]].HasBomb = true
	}

	return &entity.Snapshot{Board: board}
}

func countBombs(snapshot *entity.Snapshot) int {
	count := 0
	for _, cells := range snapshot.Board {
		for _, cell := range cells {
			if cell.HasBomb {
				count++
			}
		}
	}

	return count
}

func seededBoards() BoardFactory {
	return func() *minesweeper.Board {
		return minesweeper.NewBoard(minesweeper.GridSize, minesweeper.BombCount, rand.New(rand.NewSource(42)))
	}
}

type session struct {
	controller *GameController
	repo       *mockSnapshotRepo
	metrics    *metrics.Metrics
	out        *bytes.Buffer
}

func newSession(t *testing.T, input string) (context.Context, *session) {
	t.Helper()

	ctx, st := suite.New(t)

	out := &bytes.Buffer{}
	repo := &mockSnapshotRepo{}
	m := metrics.New()

	t.Cleanup(func() {
		repo.AssertExpectations(t)
	})

	return ctx, &session{
		controller: NewGameController(st.Logger, console.New(strings.NewReader(input), out), repo, m, seededBoards()),
		repo:       repo,
		metrics:    m,
		out:        out,
	}
}

func TestGameController_Run(t *testing.T) {
	t.Run("New game is saved on request", func(t *testing.T) {
		// Given: a player who starts a new game and saves at once
		ctx, s := newSession(t, "n\ns\n")

		s.repo.On("Save", mock.Anything, SnapshotName, mock.MatchedBy(func(snapshot *entity.Snapshot) bool {
			return len(snapshot.Board) == minesweeper.GridSize && countBombs(snapshot) == minesweeper.BombCount
		})).Return(nil).Once()

		// When: running the session
		result, err := s.controller.Run(ctx)

		// Then: the fresh board with its bombs should be saved and the session end
		require.NoError(t, err)
		assert.Equal(t, SessionSaved, result)
		assert.Contains(t, s.out.String(), "Goodbye!")
		assert.Contains(t, s.out.String(), strings.Repeat("* ", minesweeper.GridSize-1)+"*\n")
	})

	t.Run("Loaded game is won by revealing every safe cell", func(t *testing.T) {
		// Given: a saved board and a player who opens both empty regions
		ctx, s := newSession(t, "l\nr\n0 0\nr\n8 0\n")

		s.repo.On("Load", mock.Anything, SnapshotName).Return(walledSnapshot(), nil).Once()

		// When: running the session
		result, err := s.controller.Run(ctx)

		// Then: the game should be won
		require.NoError(t, err)
		assert.Equal(t, SessionWon, result)
		assert.True(t, strings.HasSuffix(s.out.String(), "Game over! You won!\n"))

		// Then: the finished session should be counted
		expected := `
# HELP minesweeper_sessions_total Finished sessions by result
# TYPE minesweeper_sessions_total counter
minesweeper_sessions_total{result="won"} 1
`
		require.NoError(t, testutil.GatherAndCompare(s.metrics.Registry, strings.NewReader(expected), "minesweeper_sessions_total"))
	})

	t.Run("Exposing a bomb loses the game", func(t *testing.T) {
		// Given: a saved board and a player who steps on a bomb
		ctx, s := newSession(t, "l\nr\n0 4\n")

		s.repo.On("Load", mock.Anything, SnapshotName).Return(walledSnapshot(), nil).Once()

		// When: running the session
		result, err := s.controller.Run(ctx)

		// Then: the game should be lost and the final board show the detonation
		require.NoError(t, err)
		assert.Equal(t, SessionLost, result)
		assert.Contains(t, s.out.String(), "* * * * B * * * *\n")
		assert.True(t, strings.HasSuffix(s.out.String(), "Game over! Boom, you hit a bomb.\n"))
	})

	t.Run("Failed load asks again", func(t *testing.T) {
		// Given: no saved game, then a malformed one, then a new game that gets saved
		ctx, s := newSession(t, "l\nl\nn\ns\n")

		s.repo.On("Load", mock.Anything, SnapshotName).Return(nil, apperror.ErrSnapshotNotFound).Once()
		s.repo.On("Load", mock.Anything, SnapshotName).Return(&entity.Snapshot{}, nil).Once()
		s.repo.On("Save", mock.Anything, SnapshotName, mock.Anything).Return(nil).Once()

		// When: running the session
		result, err := s.controller.Run(ctx)

		// Then: both failures should be reported and the new game played
		require.NoError(t, err)
		assert.Equal(t, SessionSaved, result)
		assert.Equal(t, 2, strings.Count(s.out.String(), "Could not load the saved game"))
	})

	t.Run("Bad input is reported and the turn skipped", func(t *testing.T) {
		// Given: a player who mistypes, goes off the board and pokes a flag before saving
		ctx, s := newSession(t, "l\nx\nr\n9 9\nr\nfoo\nf\n6 6\nr\n6 6\nr\n0 0\nr\n1 1\ns\n")

		s.repo.On("Load", mock.Anything, SnapshotName).Return(walledSnapshot(), nil).Once()

		var saved *entity.Snapshot
		s.repo.On("Save", mock.Anything, SnapshotName, mock.Anything).Run(func(args mock.Arguments) {
			saved, _ = args.Get(2).(*entity.Snapshot)
		}).Return(nil).Once()

		// When: running the session
		result, err := s.controller.Run(ctx)

		// Then: every problem should be reported without ending the session
		require.NoError(t, err)
		assert.Equal(t, SessionSaved, result)

		output := s.out.String()
		assert.Contains(t, output, "Unknown action")
		assert.Contains(t, output, "(9, 9) is off the board")
		assert.Contains(t, output, "Enter the row and the column")
		assert.Contains(t, output, "That is a Flag, pick another square!")
		assert.Contains(t, output, "Exposed, pick another square!")

		// Then: the saved board should keep the flag and the revealed region
		require.NotNil(t, saved)
		assert.Equal(t, entity.StateFlagged, saved.Board[6][6].Display)
		assert.Equal(t, entity.StateRevealed(0), saved.Board[0][0].Display)
		assert.Equal(t, entity.StateRevealed(0), saved.Board[1][1].Display)
	})

	t.Run("Unflag makes a cell playable again", func(t *testing.T) {
		// Given: a player who flags, unflags and reveals the same cell
		ctx, s := newSession(t, "l\nf\n3 3\nu\n3 3\nu\n3 3\nr\n3 3\ns\n")

		s.repo.On("Load", mock.Anything, SnapshotName).Return(walledSnapshot(), nil).Once()

		var saved *entity.Snapshot
		s.repo.On("Save", mock.Anything, SnapshotName, mock.Anything).Run(func(args mock.Arguments) {
			saved, _ = args.Get(2).(*entity.Snapshot)
		}).Return(nil).Once()

		// When: running the session
		_, err := s.controller.Run(ctx)

		// Then: the cell should end up revealed
		require.NoError(t, err)
		assert.Contains(t, s.out.String(), "That square is not flagged.")
		require.NotNil(t, saved)
		assert.Equal(t, entity.StateRevealed(5), saved.Board[3][3].Display)
	})

	t.Run("Error when saving fails", func(t *testing.T) {
		// Given: storage that cannot be written
		ctx, s := newSession(t, "n\ns\n")

		s.repo.On("Save", mock.Anything, SnapshotName, mock.Anything).Return(errDiskFull).Once()

		// When: running the session
		_, err := s.controller.Run(ctx)

		// Then: the storage error should end the session
		require.ErrorIs(t, err, errDiskFull)
		assert.NotContains(t, s.out.String(), "Goodbye!")
	})

	t.Run("Error when input ends", func(t *testing.T) {
		// Given: input that stops in the middle of the game
		ctx, s := newSession(t, "l\nr\n")

		s.repo.On("Load", mock.Anything, SnapshotName).Return(walledSnapshot(), nil).Once()

		// When: running the session
		_, err := s.controller.Run(ctx)

		// Then: ErrInputClosed should be returned
		require.ErrorIs(t, err, apperror.ErrInputClosed)
	})

	t.Run("Error when the context is canceled", func(t *testing.T) {
		// Given: a session whose context is already canceled
		_, s := newSession(t, "n\nr\n0 0\n")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// When: running the session
		_, err := s.controller.Run(ctx)

		// Then: the cancellation should be returned
		require.ErrorIs(t, err, context.Canceled)
	})
}
