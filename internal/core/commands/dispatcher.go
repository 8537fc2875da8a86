package commands

import (
	"context"
	"fmt"

	"device-io/internal/metrics"

	"github.com/rs/zerolog"
)

// Publisher hands a message to the broker. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// Receipt describes what was published for an accepted command.
type Receipt struct {
	DeviceID   uint
	MAC        string
	Exchange   string
	RoutingKey string
	WireToken  string
	Action     string
}

type Dispatcher struct {
	auth     *Authorizer
	pub      Publisher
	exchange string
	metrics  *metrics.Metrics
	lg       zerolog.Logger
}

func NewDispatcher(auth *Authorizer, pub Publisher, exchange string, m *metrics.Metrics, lg zerolog.Logger) *Dispatcher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Dispatcher{
		auth:     auth,
		pub:      pub,
		exchange: exchange,
		metrics:  m,
		lg:       lg.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch authorizes, translates and publishes one command. Nothing reaches
// the broker unless authorization fully succeeds. A nil error means the
// broker accepted the message, not that the device executed it.
func (d *Dispatcher) Dispatch(ctx context.Context, userID uint, mac string, req Request) (Receipt, error) {
	if err := req.Validate(); err != nil {
		return Receipt{}, err
	}

	dev, err := d.auth.Authorize(ctx, mac, userID, req.Kind)
	if err != nil {
		d.metrics.ObserveCommand(string(req.Kind), "rejected")
		return Receipt{}, err
	}

	rec := Receipt{
		DeviceID:   dev.ID,
		MAC:        dev.MAC,
		Exchange:   d.exchange,
		RoutingKey: RoutingKey(req.Kind, dev.MAC),
		WireToken:  Translate(req.Kind, req.Action),
		Action:     req.Action,
	}

	if err := d.pub.Publish(ctx, rec.Exchange, rec.RoutingKey, []byte(rec.WireToken)); err != nil {
		d.metrics.ObserveCommand(string(req.Kind), "failed")
		d.lg.Error().Err(err).
			Str("routing_key", rec.RoutingKey).
			Uint("user_id", userID).
			Msg("publish command")
		return Receipt{}, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	}

	d.metrics.ObserveCommand(string(req.Kind), "ok")
	d.lg.Info().
		Str("routing_key", rec.RoutingKey).
		Str("action", rec.Action).
		Uint("device_id", rec.DeviceID).
		Uint("user_id", userID).
		Msg("command published")
	return rec, nil
}
