package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rocketscienceinc/minesweeper-console/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-console/internal/entity"
	"gopkg.in/yaml.v3"
)

type SnapshotRepository interface {
	Save(ctx context.Context, name string, snapshot *entity.Snapshot) error
	Load(ctx context.Context, name string) (*entity.Snapshot, error)
}

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var (
	jsonCodec = codec{marshal: json.Marshal, unmarshal: json.Unmarshal}
	yamlCodec = codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
)

// codecFor - YAML for .yml/.yaml names, JSON for everything else.
func codecFor(name string) codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return yamlCodec
	default:
		return jsonCodec
	}
}

func (that codec) encode(snapshot *entity.Snapshot) ([]byte, error) {
	data, err := that.marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("could not marshal snapshot: %w", err)
	}

	return data, nil
}

// decode - parses data and rejects anything that is not a size x size grid.
func (that codec) decode(data []byte, size int) (*entity.Snapshot, error) {
	var snapshot entity.Snapshot
	if err := that.unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedSnapshot, err)
	}

	if len(snapshot.Board) == 0 {
		return nil, fmt.Errorf("%w: board is missing", apperror.ErrMalformedSnapshot)
	}

	if err := snapshot.ValidateShape(size); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
