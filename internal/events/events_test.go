package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNoOpPublisher(t *testing.T) {
	p := NewNoOp()

	if err := p.Publish(context.Background(), Outcome{Kind: "success"}); err != nil {
		t.Errorf("Expected no error on Publish, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Expected no error on Close, got %v", err)
	}
}

func TestNATSPublisherRejectsMissingConnection(t *testing.T) {
	p := NewNATS(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	if err := p.Publish(context.Background(), Outcome{Kind: "success"}); err == nil {
		t.Error("expected error without a connection")
	}
	if err := p.Close(); err != nil {
		t.Errorf("Expected no error on Close, got %v", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := Connect(log, "nats://127.0.0.1:1"); err == nil {
		t.Error("expected connection error for unreachable server")
	}
}
