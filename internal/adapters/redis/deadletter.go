package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"device-io/internal/core/alerts"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	letterField = "letter"
	groupName   = "redelivery"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// DeadLetters keeps undeliverable alert emails in a Redis stream read
// through a consumer group.
type DeadLetters struct {
	rdb      *redis.Client
	stream   string
	consumer string
	lg       zerolog.Logger
}

func NewDeadLetters(rdb *redis.Client, stream, consumer string, lg zerolog.Logger) *DeadLetters {
	return &DeadLetters{
		rdb:      rdb,
		stream:   stream,
		consumer: consumer,
		lg:       lg.With().Str("adapter", "redis").Str("stream", stream).Logger(),
	}
}

// Ensure creates the stream and consumer group if they do not exist.
func (d *DeadLetters) Ensure(ctx context.Context) error {
	err := d.rdb.XGroupCreateMkStream(ctx, d.stream, groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group on %s: %w", d.stream, err)
	}
	return nil
}

func (d *DeadLetters) Push(ctx context.Context, l alerts.Letter) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return d.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: map[string]interface{}{letterField: string(raw)},
	}).Err()
}

// Pull returns up to max letters without blocking. Letters this consumer
// already read but never acknowledged come first, so a pass that died or
// failed to requeue does not strand them; new entries fill the rest.
func (d *DeadLetters) Pull(ctx context.Context, max int64) ([]alerts.PendingLetter, error) {
	out, err := d.read(ctx, "0", max)
	if err != nil {
		return nil, fmt.Errorf("read pending: %w", err)
	}
	if left := max - int64(len(out)); left > 0 {
		fresh, err := d.read(ctx, ">", left)
		if err != nil {
			return out, fmt.Errorf("read new: %w", err)
		}
		out = append(out, fresh...)
	}
	return out, nil
}

func (d *DeadLetters) read(ctx context.Context, id string, count int64) ([]alerts.PendingLetter, error) {
	streams, err := d.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: d.consumer,
		Streams:  []string{d.stream, id},
		Count:    count,
		Block:    -1,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []alerts.PendingLetter
	for _, s := range streams {
		for _, msg := range s.Messages {
			raw, _ := msg.Values[letterField].(string)
			var l alerts.Letter
			if err := json.Unmarshal([]byte(raw), &l); err != nil {
				// unreadable entries would otherwise be pending forever
				d.lg.Error().Err(err).Str("id", msg.ID).Msg("discard malformed letter")
				_ = d.Ack(ctx, msg.ID)
				continue
			}
			out = append(out, alerts.PendingLetter{Handle: msg.ID, Letter: l})
		}
	}
	return out, nil
}

// Ack acknowledges and deletes the entry.
func (d *DeadLetters) Ack(ctx context.Context, handle string) error {
	if err := d.rdb.XAck(ctx, d.stream, groupName, handle).Err(); err != nil {
		return err
	}
	return d.rdb.XDel(ctx, d.stream, handle).Err()
}
