package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/config"
	"github.com/rocketscienceinc/minesweeper-console/internal/metrics"
	"github.com/rocketscienceinc/minesweeper-console/internal/minesweeper"
	"github.com/rocketscienceinc/minesweeper-console/internal/pkg"
	"github.com/rocketscienceinc/minesweeper-console/internal/repository"
	"github.com/rocketscienceinc/minesweeper-console/internal/repository/storage"
	"github.com/rocketscienceinc/minesweeper-console/internal/usecase"
	"github.com/rocketscienceinc/minesweeper-console/transport/console"
	"github.com/rocketscienceinc/minesweeper-console/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs one console session on stdin and stdout.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return Run(ctx, logger, conf, os.Stdin, os.Stdout)
}

// Run - wires storage, metrics and the game controller, then plays until the session ends.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	snapshotRepo, closeStorage, err := newSnapshotRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	sessionMetrics := metrics.New()

	if conf.MetricsPort != "" {
		serverCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()

		go func() {
			log.Info("Starting metrics server", "port", conf.MetricsPort)
			if httpErr := rest.Start(serverCtx, conf.MetricsPort, rest.NewRouter(sessionMetrics.Registry)); httpErr != nil {
				log.Error("metrics server error", "error", httpErr)
			}
		}()
	}

	sessionID, err := pkg.GenerateSessionID()
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	newBoard := func() *minesweeper.Board {
		return minesweeper.NewBoard(minesweeper.GridSize, minesweeper.BombCount, rnd)
	}

	controller := usecase.NewGameController(
		logger.With("component", "game_controller", "session", sessionID),
		console.New(in, out),
		snapshotRepo,
		sessionMetrics,
		newBoard,
	)

	result, err := controller.Run(ctx)
	if errors.Is(err, apperror.ErrInputClosed) || errors.Is(err, context.Canceled) {
		log.Info("session aborted", "reason", err)
		return nil
	}

	if err != nil {
		return fmt.Errorf("session failed: %w", err)
	}

	log.Info("session ended", "result", result)

	return nil
}

// newSnapshotRepository - picks the configured backend. The returned func releases its resources.
func newSnapshotRepository(ctx context.Context, conf *config.Config) (repository.SnapshotRepository, func() error, error) {
	switch conf.Storage {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisSnapshotRepository(redisStorage.Connection, minesweeper.GridSize), redisStorage.Close, nil
	default:
		if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("could not create data directory: %w", err)
		}

		return repository.NewFileSnapshotRepository(conf.DataDir, minesweeper.GridSize), func() error { return nil }, nil
	}
}
