package entity

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"gopkg.in/yaml.v3"
)

const (
	HiddenGlyph    = "*"
	FlagGlyph      = "F"
	DetonatedGlyph = "B"

	MaxNeighborCount = 8
)

type DisplayKind int

const (
	KindHidden DisplayKind = iota
	KindFlagged
	KindRevealed
	KindDetonated
)

// DisplayState - what the player sees on a cell. Count is meaningful only for KindRevealed.
type DisplayState struct {
	Kind  DisplayKind
	Count int
}

var (
	StateHidden    = DisplayState{Kind: KindHidden}
	StateFlagged   = DisplayState{Kind: KindFlagged}
	StateDetonated = DisplayState{Kind: KindDetonated}
)

func StateRevealed(count int) DisplayState {
	return DisplayState{Kind: KindRevealed, Count: count}
}

func (that DisplayState) IsHidden() bool {
	return that.Kind == KindHidden
}

func (that DisplayState) IsFlagged() bool {
	return that.Kind == KindFlagged
}

func (that DisplayState) IsRevealed() bool {
	return that.Kind == KindRevealed
}

func (that DisplayState) IsDetonated() bool {
	return that.Kind == KindDetonated
}

// Glyph - single character used to draw the cell on the console.
func (that DisplayState) Glyph() string {
	switch that.Kind {
	case KindFlagged:
		return FlagGlyph
	case KindRevealed:
		return strconv.Itoa(that.Count)
	case KindDetonated:
		return DetonatedGlyph
	default:
		return HiddenGlyph
	}
}

func (that DisplayState) String() string {
	return that.Glyph()
}

// MarshalJSON - revealed cells are stored as their count, everything else as its glyph.
func (that DisplayState) MarshalJSON() ([]byte, error) {
	if that.IsRevealed() {
		return json.Marshal(that.Count)
	}

	return json.Marshal(that.Glyph())
}

func (that *DisplayState) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return fmt.Errorf("%w: display is null", apperror.ErrMalformedSnapshot)
	}

	var count int
	if err := json.Unmarshal(data, &count); err == nil {
		return that.setCount(count)
	}

	var glyph string
	if err := json.Unmarshal(data, &glyph); err != nil {
		return fmt.Errorf("%w: display %s", apperror.ErrMalformedSnapshot, string(data))
	}

	return that.setGlyph(glyph)
}

func (that DisplayState) MarshalYAML() (interface{}, error) {
	if that.IsRevealed() {
		return that.Count, nil
	}

	return that.Glyph(), nil
}

func (that *DisplayState) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: display at line %d is not a scalar", apperror.ErrMalformedSnapshot, value.Line)
	}

	if value.ShortTag() == "!!int" {
		count, err := strconv.Atoi(value.Value)
		if err != nil {
			return fmt.Errorf("%w: display %q", apperror.ErrMalformedSnapshot, value.Value)
		}

		return that.setCount(count)
	}

	return that.setGlyph(value.Value)
}

func (that *DisplayState) setCount(count int) error {
	if count < 0 || count > MaxNeighborCount {
		return fmt.Errorf("%w: count %d", apperror.ErrMalformedSnapshot, count)
	}

	*that = StateRevealed(count)

	return nil
}

func (that *DisplayState) setGlyph(glyph string) error {
	switch glyph {
	case HiddenGlyph:
		*that = StateHidden
	case FlagGlyph:
		*that = StateFlagged
	case DetonatedGlyph:
		*that = StateDetonated
	default:
		return fmt.Errorf("%w: display %q", apperror.ErrMalformedSnapshot, glyph)
	}

	return nil
}

type Cell struct {
	HasBomb bool         `json:"has_bomb" yaml:"has_bomb"`
	Display DisplayState `json:"display" yaml:"display"`
}
