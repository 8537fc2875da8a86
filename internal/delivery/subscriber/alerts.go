// Package subscriber feeds alerts published on the broker into the ingest queue.
package subscriber

import (
	"encoding/json"

	"device-io/internal/core/alerts"

	"github.com/rs/zerolog"
)

// Source is a broker connection able to deliver messages by subject.
type Source interface {
	Subscribe(subject string, fn func(subject string, data []byte)) (func() error, error)
}

type Enqueuer interface {
	Enqueue(ev alerts.Event) error
}

// Alerts subscribes to subject and enqueues every well-formed alert.
// Malformed payloads are logged and dropped. The returned func unsubscribes.
func Alerts(src Source, subject string, q Enqueuer, lg zerolog.Logger) (func() error, error) {
	lg = lg.With().Str("component", "alert-subscriber").Logger()
	return src.Subscribe(subject, func(subj string, data []byte) {
		var ev alerts.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			lg.Warn().Err(err).Str("subject", subj).Msg("drop malformed alert")
			return
		}
		if err := ev.Normalize(); err != nil {
			lg.Warn().Err(err).Str("subject", subj).Msg("drop invalid alert")
			return
		}
		if err := q.Enqueue(ev); err != nil {
			lg.Error().Err(err).Str("mac", ev.MAC).Msg("enqueue alert")
		}
	})
}
