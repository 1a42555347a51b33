package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NewNATS constructs a thin NATS-based publisher.
func NewNATS(log *slog.Logger, nc *nats.Conn) Publisher {
	return &natsPublisher{log: log, nc: nc, subject: Subject}
}

// Connect dials url and returns a publisher on top of the connection.
func Connect(log *slog.Logger, url string) (Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("seed-app"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return NewNATS(log, nc), nil
}

type natsPublisher struct {
	log     *slog.Logger
	nc      *nats.Conn
	subject string
}

func (p *natsPublisher) Publish(_ context.Context, o Outcome) error {
	if p.nc == nil {
		return errors.New("nil nats connection")
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Kind == "" {
		return errors.New("outcome kind required")
	}
	body, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, body)
}

func (p *natsPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("nats drain failed", "err", err)
		p.nc.Close()
		return err
	}
	return nil
}
