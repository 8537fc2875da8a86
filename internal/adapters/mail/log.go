package mail

import (
	"context"

	"device-io/internal/core/alerts"

	"github.com/rs/zerolog"
)

// Log only records the mail it would have sent. Used when no transport is configured.
type Log struct {
	lg zerolog.Logger
}

func NewLog(lg zerolog.Logger) *Log {
	return &Log{lg: lg.With().Str("adapter", "mail-log").Logger()}
}

func (l *Log) Send(_ context.Context, e alerts.Email) error {
	l.lg.Info().Str("to", e.To).Str("subject", e.Subject).Int("html_bytes", len(e.HTML)).Msg("mail not sent (log transport)")
	return nil
}
