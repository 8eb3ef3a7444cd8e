package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
	"github.com/rocketscienceinc/minesweeper-console/internal/minesweeper"
)

// SnapshotName - fixed name the session loads from and saves to.
const SnapshotName = "game.json"

type SessionResult string

const (
	SessionSaved SessionResult = "saved"
	SessionWon   SessionResult = "won"
	SessionLost  SessionResult = "lost"
)

type playerIO interface {
	AskStartChoice() (entity.StartChoice, error)
	AskAction() (entity.Action, error)
	AskCoordinate() (entity.Coordinate, error)
	ShowBoard(board string)
	Say(msg string)
}

type snapshotRepo interface {
	Save(ctx context.Context, name string, snapshot *entity.Snapshot) error
	Load(ctx context.Context, name string) (*entity.Snapshot, error)
}

type sessionMetrics interface {
	ObserveAction(action string)
	ObserveOutcome(outcome string)
	ObserveSession(result string)
}

// BoardFactory - returns a fresh board without bombs.
type BoardFactory func() *minesweeper.Board

// GameController - runs one interactive session and exclusively owns its board.
type GameController struct {
	logger *slog.Logger

	io           playerIO
	snapshotRepo snapshotRepo
	metrics      sessionMetrics
	newBoard     BoardFactory

	board *minesweeper.Board
}

func NewGameController(
	logger *slog.Logger, io playerIO, snapshotRepo snapshotRepo, metrics sessionMetrics, newBoard BoardFactory,
) *GameController {
	return &GameController{
		logger: logger,

		io:           io,
		snapshotRepo: snapshotRepo,
		metrics:      metrics,
		newBoard:     newBoard,
	}
}

// Run - plays until the game is won, lost or saved.
func (that *GameController) Run(ctx context.Context) (SessionResult, error) {
	board, err := that.start(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start game: %w", err)
	}

	that.board = board

	for !that.board.IsGameOver() {
		if err = ctx.Err(); err != nil {
			return "", fmt.Errorf("session interrupted: %w", err)
		}

		that.io.ShowBoard(that.board.Render())

		saved, err := that.turn(ctx)
		if err != nil {
			return "", err
		}

		if saved {
			return that.finish(SessionSaved), nil
		}
	}

	that.io.ShowBoard(that.board.Render())

	if that.board.Lost() {
		that.io.Say("Game over! Boom, you hit a bomb.")
		return that.finish(SessionLost), nil
	}

	that.io.Say("Game over! You won!")

	return that.finish(SessionWon), nil
}

// start - asks for a new or saved game until a board is ready.
func (that *GameController) start(ctx context.Context) (*minesweeper.Board, error) {
	for {
		choice, err := that.io.AskStartChoice()
		if err != nil {
			return nil, err
		}

		if choice == entity.StartNew {
			board := that.newBoard()
			if err = board.PlaceBombs(); err != nil {
				return nil, fmt.Errorf("failed to place bombs: %w", err)
			}

			that.logger.Info("new game started")

			return board, nil
		}

		board, err := that.load(ctx)
		if err == nil {
			that.logger.Info("saved game loaded", "name", SnapshotName)

			return board, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		that.logger.Warn("could not load game", "name", SnapshotName, "error", err)
		that.io.Say(fmt.Sprintf("Could not load the saved game: %v", err))
	}
}

func (that *GameController) load(ctx context.Context) (*minesweeper.Board, error) {
	snapshot, err := that.snapshotRepo.Load(ctx, SnapshotName)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	board, err := minesweeper.FromSnapshot(snapshot, minesweeper.GridSize, minesweeper.BombCount)
	if err != nil {
		return nil, fmt.Errorf("failed to restore board: %w", err)
	}

	return board, nil
}

// turn - one prompt and dispatch. Reports true once the game has been saved.
func (that *GameController) turn(ctx context.Context) (bool, error) {
	action, err := that.io.AskAction()
	if errors.Is(err, apperror.ErrInvalidAction) {
		that.io.Say("Unknown action, type r, f, u or s.")
		return false, nil
	}

	if err != nil {
		return false, err
	}

	that.metrics.ObserveAction(string(action))

	if action == entity.ActionSave {
		return true, that.save(ctx)
	}

	coord, err := that.io.AskCoordinate()
	if errors.Is(err, apperror.ErrInvalidCoordinate) {
		that.io.Say("Enter the row and the column as two numbers, e.g. 3 4.")
		return false, nil
	}

	if err != nil {
		return false, err
	}

	outcome, err := that.dispatch(action, coord)
	if errors.Is(err, apperror.ErrOutOfBounds) {
		that.io.Say(fmt.Sprintf("%s is off the board, rows and columns go from 0 to %d.", coord, that.board.Size()-1))
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to %s %s: %w", action, coord, err)
	}

	that.logger.Debug("action applied", "action", action, "row", coord.Row, "col", coord.Col, "outcome", outcome.String())
	that.metrics.ObserveOutcome(outcome.String())

	if msg := advisoryMessage(outcome); msg != "" {
		that.io.Say(msg)
	}

	if outcome == minesweeper.OutcomeRevealed {
		that.board.CheckWin()
	}

	return false, nil
}

func (that *GameController) dispatch(action entity.Action, coord entity.Coordinate) (minesweeper.Outcome, error) {
	switch action {
	case entity.ActionReveal:
		return that.board.Expose(coord)
	case entity.ActionFlag:
		return that.board.Flag(coord)
	case entity.ActionUnflag:
		return that.board.Unflag(coord)
	default:
		return 0, fmt.Errorf("%w: %s", apperror.ErrInvalidAction, action)
	}
}

func (that *GameController) save(ctx context.Context) error {
	if err := that.snapshotRepo.Save(ctx, SnapshotName, that.board.Snapshot()); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	that.logger.Info("game saved", "name", SnapshotName)
	that.io.Say("Goodbye!")

	return nil
}

func (that *GameController) finish(result SessionResult) SessionResult {
	that.logger.Info("session finished", "result", result)
	that.metrics.ObserveSession(string(result))

	return result
}

func advisoryMessage(outcome minesweeper.Outcome) string {
	switch outcome {
	case minesweeper.AdvisoryFlagged:
		return "That is a Flag, pick another square!"
	case minesweeper.AdvisoryAlreadyExposed:
		return "Exposed, pick another square!"
	case minesweeper.AdvisoryNotFlagged:
		return "That square is not flagged."
	default:
		return ""
	}
}
