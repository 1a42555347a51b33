package events

import "context"

// NoOpPublisher drops every outcome. Used when no event bus is configured.
type NoOpPublisher struct{}

func NewNoOp() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (NoOpPublisher) Publish(context.Context, Outcome) error { return nil }

func (NoOpPublisher) Close() error { return nil }
