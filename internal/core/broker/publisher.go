package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("publisher closed")

type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Channel is one live broker session. It is not assumed to be safe for
// concurrent use; Publisher never shares it between goroutines.
type Channel interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
	Healthy() bool
	Close() error
}

// Dialer opens a new Channel.
type Dialer func(ctx context.Context) (Channel, error)

// Publisher owns a single broker channel, opened on first use and reused
// until it fails. Publishes are serialized by mu.
type Publisher struct {
	mu      sync.Mutex
	dial    Dialer
	ch      Channel
	closed  bool
	state   atomic.Int32
	timeout time.Duration
	lg      zerolog.Logger
}

func NewPublisher(dial Dialer, timeout time.Duration, lg zerolog.Logger) *Publisher {
	return &Publisher{
		dial:    dial,
		timeout: timeout,
		lg:      lg.With().Str("component", "publisher").Logger(),
	}
}

func (p *Publisher) State() State { return State(p.state.Load()) }

// Publish sends body with routingKey on exchange. The timeout runs from the
// moment the caller holds the channel, so time spent queued behind other
// publishes does not count against it. A channel failure drops the channel
// so the next call redials; a caller that gave up leaves it in place. There
// is no retry here.
func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	caller := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if p.ch != nil && !p.ch.Healthy() {
		p.lg.Warn().Msg("channel unhealthy, reconnecting")
		p.dropLocked()
	}
	if p.ch == nil {
		if err := p.connectLocked(ctx); err != nil {
			return err
		}
	}

	if err := p.ch.Publish(ctx, exchange, routingKey, body); err != nil {
		if caller.Err() == nil {
			p.dropLocked()
		}
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) connectLocked(ctx context.Context) error {
	p.state.Store(int32(Connecting))
	ch, err := p.dial(ctx)
	if err != nil {
		p.state.Store(int32(Disconnected))
		return fmt.Errorf("connect: %w", err)
	}
	p.ch = ch
	p.state.Store(int32(Connected))
	p.lg.Info().Msg("broker channel open")
	return nil
}

func (p *Publisher) dropLocked() {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			p.lg.Debug().Err(err).Msg("close broken channel")
		}
		p.ch = nil
	}
	p.state.Store(int32(Disconnected))
}

// Close releases the channel. Later publishes fail with ErrClosed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	var err error
	if p.ch != nil {
		err = p.ch.Close()
		p.ch = nil
	}
	p.state.Store(int32(Disconnected))
	return err
}
