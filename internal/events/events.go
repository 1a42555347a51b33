package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subject is where submission outcomes are published.
const Subject = "inference.outcomes"

// Outcome describes how one prompt submission ended. The prompt itself is not
// included, only its length.
type Outcome struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Protocol    string    `json:"protocol"`
	PromptChars int       `json:"prompt_chars"`
	DurationMS  int64     `json:"duration_ms"`
	At          time.Time `json:"at"`
}

// Publisher exposes a minimal contract to announce outcomes.
type Publisher interface {
	Publish(ctx context.Context, o Outcome) error
	Close() error
}
