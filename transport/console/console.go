package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
)

const (
	startPrompt      = "New Game or Load Game? (n/l)"
	actionPrompt     = "Reveal, flag, unflag a square or save and quit? (r/f/u/s)"
	coordinatePrompt = "Pick a Coordinate (row col)"
)

// Console - line based player input and output.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (that *Console) AskStartChoice() (entity.StartChoice, error) {
	line, err := that.ask(startPrompt)
	if err != nil {
		return entity.StartNew, err
	}

	return ParseStartChoice(line), nil
}

func (that *Console) AskAction() (entity.Action, error) {
	line, err := that.ask(actionPrompt)
	if err != nil {
		return "", err
	}

	return ParseAction(line)
}

func (that *Console) AskCoordinate() (entity.Coordinate, error) {
	line, err := that.ask(coordinatePrompt)
	if err != nil {
		return entity.Coordinate{}, err
	}

	return ParseCoordinate(line)
}

func (that *Console) ShowBoard(board string) {
	fmt.Fprint(that.out, board)
}

func (that *Console) Say(msg string) {
	fmt.Fprintln(that.out, msg)
}

// ask - prints the prompt and reads one trimmed line.
func (that *Console) ask(prompt string) (string, error) {
	that.Say(prompt)

	if !that.scanner.Scan() {
		if err := that.scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return "", apperror.ErrInputClosed
	}

	return strings.TrimSpace(that.scanner.Text()), nil
}

// ParseStartChoice - "l" loads, anything else starts a new game.
func ParseStartChoice(line string) entity.StartChoice {
	if strings.EqualFold(strings.TrimSpace(line), "l") {
		return entity.StartLoad
	}

	return entity.StartNew
}

func ParseAction(line string) (entity.Action, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "r":
		return entity.ActionReveal, nil
	case "f":
		return entity.ActionFlag, nil
	case "u":
		return entity.ActionUnflag, nil
	case "s":
		return entity.ActionSave, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidAction, line)
	}
}

// ParseCoordinate - two whitespace separated integers, row first.
func ParseCoordinate(line string) (entity.Coordinate, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return entity.Coordinate{}, fmt.Errorf("%w: got %q", apperror.ErrInvalidCoordinate, line)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("%w: row %q", apperror.ErrInvalidCoordinate, fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("%w: column %q", apperror.ErrInvalidCoordinate, fields[1])
	}

	return entity.Coordinate{Row: row, Col: col}, nil
}
