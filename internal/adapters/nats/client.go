package nats

import (
	"context"
	"errors"
	"fmt"

	"device-io/internal/core/broker"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

type Client struct {
	nc *natsgo.Conn
	js natsgo.JetStreamContext
	lg zerolog.Logger
}

func New(url, name string, lg zerolog.Logger) (*Client, error) {
	nc, err := natsgo.Connect(url, natsgo.Name(name))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Client{nc: nc, js: js, lg: lg.With().Str("adapter", "nats").Logger()}, nil
}

// EnsureStream idempotently creates a file-backed stream over subjects.
func (c *Client) EnsureStream(name string, subjects ...string) error {
	_, err := c.js.AddStream(&natsgo.StreamConfig{
		Name:     name,
		Subjects: subjects,
		Storage:  natsgo.FileStorage,
		Replicas: 1,
	})
	if err != nil && !errors.Is(err, natsgo.ErrStreamNameAlreadyInUse) {
		return err
	}
	return nil
}

// Publish stores body on subject in the named stream and waits for the ack,
// so a nil error means the message is persisted by the server.
func (c *Client) Publish(ctx context.Context, stream, subject string, body []byte) error {
	_, err := c.js.Publish(subject, body, natsgo.Context(ctx), natsgo.ExpectStream(stream))
	return err
}

func (c *Client) Healthy() bool { return c.nc.IsConnected() }

// Subscribe delivers every core NATS message on subject to fn.
func (c *Client) Subscribe(subject string, fn func(subject string, data []byte)) (func() error, error) {
	sub, err := c.nc.Subscribe(subject, func(m *natsgo.Msg) {
		fn(m.Subject, m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.lg.Info().Str("subject", subject).Msg("subscribed")
	return sub.Unsubscribe, nil
}

func (c *Client) Close() error { return c.nc.Drain() }

// CommandDialer opens a dedicated connection for command publishing and
// makes sure the command stream exists.
func CommandDialer(url, stream string, subjects []string, lg zerolog.Logger) broker.Dialer {
	return func(ctx context.Context) (broker.Channel, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := New(url, "device-io-commands", lg)
		if err != nil {
			return nil, err
		}
		if err := c.EnsureStream(stream, subjects...); err != nil {
			c.nc.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
		}
		return c, nil
	}
}
