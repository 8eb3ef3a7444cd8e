package minesweeper

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
)

const (
	GridSize  = 9
	BombCount = 10
)

// Outcome - result of a player action that did not fail.
type Outcome int

const (
	OutcomeRevealed Outcome = iota
	OutcomeDetonated
	OutcomeFlagged
	OutcomeUnflagged
	AdvisoryFlagged
	AdvisoryAlreadyExposed
	AdvisoryNotFlagged
)

// IsAdvisory - the action had no effect on the board.
func (that Outcome) IsAdvisory() bool {
	return that == AdvisoryFlagged || that == AdvisoryAlreadyExposed || that == AdvisoryNotFlagged
}

func (that Outcome) String() string {
	switch that {
	case OutcomeRevealed:
		return "revealed"
	case OutcomeDetonated:
		return "detonated"
	case OutcomeFlagged:
		return "flagged"
	case OutcomeUnflagged:
		return "unflagged"
	case AdvisoryFlagged:
		return "advisory_flagged"
	case AdvisoryAlreadyExposed:
		return "advisory_exposed"
	case AdvisoryNotFlagged:
		return "advisory_not_flagged"
	default:
		return "unknown"
	}
}

var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

type Board struct {
	size  int
	bombs int
	cells [][]entity.Cell

	lost bool
	won  bool

	rnd *rand.Rand
}

// NewBoard - creates a size x size board of hidden cells without bombs. PlaceBombs must follow.
// A nil rnd is replaced with a time-seeded source.
func NewBoard(size, bombs int, rnd *rand.Rand) *Board {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	}

	cells := make([][]entity.Cell, size)
	for row := range cells {
		cells[row] = make([]entity.Cell, size)
	}

	return &Board{
		size:  size,
		bombs: bombs,
		cells: cells,
		rnd:   rnd,
	}
}

// FromSnapshot - adopts a saved size x size grid as is. Bombs are never re-placed on a loaded board.
func FromSnapshot(snapshot *entity.Snapshot, size, bombs int) (*Board, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("%w: empty snapshot", apperror.ErrMalformedSnapshot)
	}

	if err := snapshot.ValidateShape(size); err != nil {
		return nil, err
	}

	board := &Board{
		size:  size,
		bombs: bombs,
		cells: snapshot.Clone().Board,
	}

	if err := board.validate(); err != nil {
		return nil, err
	}

	board.lost = board.hasDetonated()
	board.CheckWin()

	return board, nil
}

// validate - checks the invariants a loaded grid must hold.
func (that *Board) validate() error {
	placed := 0

	for row := range that.cells {
		for col, cell := range that.cells[row] {
			coord := entity.Coordinate{Row: row, Col: col}

			if cell.HasBomb {
				placed++
			}

			switch {
			case cell.Display.IsDetonated() && !cell.HasBomb:
				return fmt.Errorf("%w: detonated cell %s has no bomb", apperror.ErrMalformedSnapshot, coord)
			case cell.Display.IsRevealed() && cell.HasBomb:
				return fmt.Errorf("%w: revealed cell %s has a bomb", apperror.ErrMalformedSnapshot, coord)
			case cell.Display.IsRevealed() && cell.Display.Count != that.countBombs(coord):
				return fmt.Errorf("%w: cell %s shows %d, expected %d",
					apperror.ErrMalformedSnapshot, coord, cell.Display.Count, that.countBombs(coord))
			}
		}
	}

	if placed != that.bombs {
		return fmt.Errorf("%w: expected %d bombs, got %d", apperror.ErrMalformedSnapshot, that.bombs, placed)
	}

	return nil
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) Lost() bool {
	return that.lost
}

func (that *Board) Won() bool {
	return that.won
}

func (that *Board) IsGameOver() bool {
	return that.lost || that.won
}

// Cell - returns a copy of the cell at coord.
func (that *Board) Cell(coord entity.Coordinate) (entity.Cell, error) {
	if err := that.checkBounds(coord); err != nil {
		return entity.Cell{}, err
	}

	return that.cells[coord.Row][coord.Col], nil
}

// PlaceBombs - draws random coordinates until the required number of distinct ones is collected.
func (that *Board) PlaceBombs() error {
	if that.bombCount() > 0 {
		return apperror.ErrBombsAlreadyPlaced
	}

	if that.bombs > that.size*that.size {
		return fmt.Errorf("%w: %d bombs on %d cells", apperror.ErrTooManyBombs, that.bombs, that.size*that.size)
	}

	chosen := make(map[entity.Coordinate]struct{}, that.bombs)
	for len(chosen) < that.bombs {
		coord := entity.Coordinate{
			Row: that.rnd.Intn(that.size), //nolint: gosec // game randomness
			Col: that.rnd.Intn(that.size), //nolint: gosec // game randomness
		}

		if _, ok := chosen[coord]; ok {
			continue
		}

		chosen[coord] = struct{}{}
		that.cells[coord.Row][coord.Col].HasBomb = true
	}

	return nil
}

// Neighbors - up to 8 in-bounds coordinates around coord.
func (that *Board) Neighbors(coord entity.Coordinate) ([]entity.Coordinate, error) {
	if err := that.checkBounds(coord); err != nil {
		return nil, err
	}

	return that.neighbors(coord), nil
}

func (that *Board) Flag(coord entity.Coordinate) (Outcome, error) {
	if err := that.checkBounds(coord); err != nil {
		return 0, err
	}

	cell := &that.cells[coord.Row][coord.Col]
	if cell.Display.IsRevealed() {
		return AdvisoryAlreadyExposed, nil
	}

	cell.Display = entity.StateFlagged

	return OutcomeFlagged, nil
}

func (that *Board) Unflag(coord entity.Coordinate) (Outcome, error) {
	if err := that.checkBounds(coord); err != nil {
		return 0, err
	}

	cell := &that.cells[coord.Row][coord.Col]
	if !cell.Display.IsFlagged() {
		return AdvisoryNotFlagged, nil
	}

	cell.Display = entity.StateHidden

	return OutcomeUnflagged, nil
}

func (that *Board) Expose(coord entity.Coordinate) (Outcome, error) {
	if err := that.checkBounds(coord); err != nil {
		return 0, err
	}

	cell := &that.cells[coord.Row][coord.Col]

	switch {
	case cell.HasBomb:
		cell.Display = entity.StateDetonated
		that.lost = true

		return OutcomeDetonated, nil
	case cell.Display.IsFlagged():
		return AdvisoryFlagged, nil
	case cell.Display.IsRevealed():
		return AdvisoryAlreadyExposed, nil
	}

	that.reveal(coord)

	return OutcomeRevealed, nil
}

// reveal - flood fill from start. Each cell is revealed once, the fill stops at non-zero counts and bombs.
func (that *Board) reveal(start entity.Coordinate) {
	stack := []entity.Coordinate{start}

	for len(stack) > 0 {
		coord := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &that.cells[coord.Row][coord.Col]
		if cell.HasBomb || cell.Display.IsRevealed() {
			continue
		}

		count := that.countBombs(coord)
		cell.Display = entity.StateRevealed(count)

		if count != 0 {
			continue
		}

		for _, next := range that.neighbors(coord) {
			neighbor := that.cells[next.Row][next.Col]
			if neighbor.HasBomb || neighbor.Display.IsRevealed() {
				continue
			}

			stack = append(stack, next)
		}
	}
}

// CheckWin - the game is won once every cell without a bomb is revealed. Bomb cells may stay hidden or flagged.
func (that *Board) CheckWin() {
	if that.lost {
		return
	}

	for row := range that.cells {
		for _, cell := range that.cells[row] {
			if !cell.HasBomb && !cell.Display.IsRevealed() {
				return
			}
		}
	}

	that.won = true
}

// Render - one line per row, glyphs separated by a space.
func (that *Board) Render() string {
	var sb strings.Builder

	for row := range that.cells {
		glyphs := make([]string, len(that.cells[row]))
		for col, cell := range that.cells[row] {
			glyphs[col] = cell.Display.Glyph()
		}

		sb.WriteString(strings.Join(glyphs, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Snapshot - deep copy of the grid for persistence.
func (that *Board) Snapshot() *entity.Snapshot {
	return (&entity.Snapshot{Board: that.cells}).Clone()
}

func (that *Board) checkBounds(coord entity.Coordinate) error {
	if !coord.Within(that.size) {
		return fmt.Errorf("%w: %s on a %dx%d board", apperror.ErrOutOfBounds, coord, that.size, that.size)
	}

	return nil
}

func (that *Board) neighbors(coord entity.Coordinate) []entity.Coordinate {
	result := make([]entity.Coordinate, 0, len(neighborOffsets))

	for _, offset := range neighborOffsets {
		next := entity.Coordinate{Row: coord.Row + offset[0], Col: coord.Col + offset[1]}
		if next.Within(that.size) {
			result = append(result, next)
		}
	}

	return result
}

func (that *Board) countBombs(coord entity.Coordinate) int {
	count := 0

	for _, next := range that.neighbors(coord) {
		if that.cells[next.Row][next.Col].HasBomb {
			count++
		}
	}

	return count
}

func (that *Board) bombCount() int {
	count := 0

	for row := range that.cells {
		for _, cell := range that.cells[row] {
			if cell.HasBomb {
				count++
			}
		}
	}

	return count
}

func (that *Board) hasDetonated() bool {
	for row := range that.cells {
		for _, cell := range that.cells[row] {
			if cell.Display.IsDetonated() {
				return true
			}
		}
	}

	return false
}
