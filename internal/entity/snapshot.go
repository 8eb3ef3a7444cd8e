package entity

import (
	"fmt"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
)

// Snapshot - persisted form of a board, rows in row-major order.
type Snapshot struct {
	Board [][]Cell `json:"board" yaml:"board"`
}

// ValidateShape - checks that the snapshot is a size x size grid.
func (that *Snapshot) ValidateShape(size int) error {
	if len(that.Board) != size {
		return fmt.Errorf("%w: expected %d rows, got %d", apperror.ErrMalformedSnapshot, size, len(that.Board))
	}

	for row, cells := range that.Board {
		if len(cells) != size {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", apperror.ErrMalformedSnapshot, row, len(cells), size)
		}
	}

	return nil
}

// Clone - deep copy, so the caller can keep mutating its own grid.
func (that *Snapshot) Clone() *Snapshot {
	board := make([][]Cell, len(that.Board))
	for row, cells := range that.Board {
		board[row] = append([]Cell(nil), cells...)
	}

	return &Snapshot{Board: board}
}
