package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
)

type dbSnapshot struct {
	client *redis.Client
	size   int
}

// NewRedisSnapshotRepository - stores snapshots as JSON under "snapshot:<name>". Loads accept only size x size grids.
func NewRedisSnapshotRepository(client *redis.Client, size int) SnapshotRepository {
	return &dbSnapshot{
		client: client,
		size:   size,
	}
}

func (that *dbSnapshot) Save(ctx context.Context, name string, snapshot *entity.Snapshot) error {
	snapshotJSON, err := jsonCodec.encode(snapshot)
	if err != nil {
		return err
	}

	err = that.client.Set(ctx, snapshotKey(name), snapshotJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) Load(ctx context.Context, name string) (*entity.Snapshot, error) {
	response, err := that.client.Get(ctx, snapshotKey(name)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSnapshotNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return jsonCodec.decode(response, that.size)
}

func snapshotKey(name string) string {
	return "snapshot:" + name
}
