package mqtt

import (
	"context"
	"fmt"
	"strings"

	"device-io/internal/core/broker"
	"device-io/pkg/rand"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

type Client struct {
	cli pahomqtt.Client
	qos byte
	lg  zerolog.Logger
}

// Dial connects with a persistent session so queued QoS 1 messages survive
// reconnects. Reconnecting is left to the caller.
func Dial(ctx context.Context, cfg Config, lg zerolog.Logger) (*Client, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = rand.ClientID("device-io")
	}
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(false)
	opts.SetAutoReconnect(false)

	cli := pahomqtt.NewClient(opts)
	if err := connect(ctx, cli); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return &Client{
		cli: cli,
		qos: cfg.QoS,
		lg:  lg.With().Str("adapter", "mqtt").Str("client_id", clientID).Logger(),
	}, nil
}

// Topic converts a dotted routing key or NATS-style pattern into an MQTT
// topic: separators become '/', '*' becomes '+', '>' becomes '#'.
func Topic(key string) string {
	parts := strings.Split(key, ".")
	for i, p := range parts {
		switch p {
		case "*":
			parts[i] = "+"
		case ">":
			parts[i] = "#"
		}
	}
	return strings.Join(parts, "/")
}

// Publish ignores the exchange; MQTT has a single topic namespace.
func (c *Client) Publish(ctx context.Context, _, routingKey string, body []byte) error {
	return wait(ctx, c.cli.Publish(Topic(routingKey), c.qos, false, body))
}

func (c *Client) Healthy() bool { return c.cli.IsConnectionOpen() }

func (c *Client) Subscribe(subject string, fn func(subject string, data []byte)) (func() error, error) {
	topic := Topic(subject)
	tok := c.cli.Subscribe(topic, c.qos, func(_ pahomqtt.Client, m pahomqtt.Message) {
		fn(strings.ReplaceAll(m.Topic(), "/", "."), m.Payload())
	})
	if err := wait(context.Background(), tok); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	c.lg.Info().Str("topic", topic).Msg("subscribed")
	return func() error { return wait(context.Background(), c.cli.Unsubscribe(topic)) }, nil
}

func (c *Client) Close() error {
	c.cli.Disconnect(250)
	return nil
}

// connect waits for the session. On failure the client is shut down so an
// attempt still in flight cannot take over the client id later.
func connect(ctx context.Context, cli pahomqtt.Client) error {
	if err := wait(ctx, cli.Connect()); err != nil {
		cli.Disconnect(0)
		return err
	}
	return nil
}

func wait(ctx context.Context, tok pahomqtt.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func CommandDialer(cfg Config, lg zerolog.Logger) broker.Dialer {
	return func(ctx context.Context) (broker.Channel, error) {
		return Dial(ctx, cfg, lg)
	}
}
