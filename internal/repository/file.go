package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
)

const snapshotFileMode = 0o644

type fileSnapshot struct {
	dir  string
	size int
}

// NewFileSnapshotRepository - stores every snapshot as a file named after it inside dir.
// Loads accept only size x size grids.
func NewFileSnapshotRepository(dir string, size int) SnapshotRepository {
	return &fileSnapshot{
		dir:  dir,
		size: size,
	}
}

func (that *fileSnapshot) Save(_ context.Context, name string, snapshot *entity.Snapshot) error {
	data, err := codecFor(name).encode(snapshot)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(that.path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, snapshotFileMode)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync snapshot file: %w", err)
	}

	return nil
}

func (that *fileSnapshot) Load(_ context.Context, name string) (*entity.Snapshot, error) {
	file, err := os.Open(that.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSnapshotNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	return codecFor(name).decode(data, that.size)
}

func (that *fileSnapshot) path(name string) string {
	return filepath.Join(that.dir, filepath.Base(name))
}
