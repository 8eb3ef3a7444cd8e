package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateSessionID - random id tying together the log lines of one console session.
func GenerateSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	return id.String(), nil
}
