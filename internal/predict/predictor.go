package predict

import (
	"context"
	"errors"
	"strings"
)

const DefaultMaxTokens = 128

var (
	ErrEmptyDescription = errors.New("description is empty")
	ErrNotConfigured    = errors.New("no predictor configured")
)

// Predictor turns a free-text campaign description into a free-text outcome
// prediction. The text is passed through unchanged in both directions.
type Predictor interface {
	Predict(ctx context.Context, description string) (string, error)
}

// Unavailable is the Predictor used when no backend is configured.
type Unavailable struct{}

func (Unavailable) Predict(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func checkDescription(d string) error {
	if strings.TrimSpace(d) == "" {
		return ErrEmptyDescription
	}
	return nil
}
