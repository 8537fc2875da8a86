package alerts

import (
	"context"
	"time"

	"device-io/internal/metrics"

	"github.com/rs/zerolog"
)

// Letter is an alert email waiting for another delivery attempt.
type Letter struct {
	ID        string    `json:"id"`
	Email     Email     `json:"email"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingLetter is a Letter as read back from the store, with the handle
// needed to acknowledge it.
type PendingLetter struct {
	Handle string
	Letter Letter
}

type DeadLetterStore interface {
	DeadLetterSink
	Pull(ctx context.Context, max int64) ([]PendingLetter, error)
	Ack(ctx context.Context, handle string) error
}

// Redeliverer retries dead-lettered emails. A letter that fails again is
// pushed back with its attempt count raised, until MaxAttempts is reached.
type Redeliverer struct {
	store       DeadLetterStore
	mailer      Mailer
	MaxAttempts int
	Batch       int64
	MailTimeout time.Duration
	metrics     *metrics.Metrics
	lg          zerolog.Logger
}

func NewRedeliverer(store DeadLetterStore, mailer Mailer, mailTimeout time.Duration, m *metrics.Metrics, lg zerolog.Logger) *Redeliverer {
	return &Redeliverer{
		store:       store,
		mailer:      mailer,
		MaxAttempts: 5,
		Batch:       20,
		MailTimeout: mailTimeout,
		metrics:     m,
		lg:          lg.With().Str("component", "redeliverer").Logger(),
	}
}

type RedeliveryStats struct {
	Delivered, Requeued, Dropped int
}

// RunOnce drains up to Batch letters.
func (r *Redeliverer) RunOnce(ctx context.Context) (RedeliveryStats, error) {
	var st RedeliveryStats
	pending, err := r.store.Pull(ctx, r.Batch)
	if err != nil {
		return st, err
	}
	for _, p := range pending {
		l := p.Letter
		if err := r.send(ctx, l.Email); err != nil {
			l.Attempts++
			l.LastError = err.Error()
			if l.Attempts >= r.MaxAttempts {
				st.Dropped++
				r.metrics.ObserveDeadLetter("dropped")
				r.lg.Error().Err(err).Str("letter_id", l.ID).Int("attempts", l.Attempts).Str("to", l.Email.To).Msg("giving up on alert email")
			} else if perr := r.store.Push(ctx, l); perr != nil {
				r.lg.Error().Err(perr).Str("letter_id", l.ID).Msg("requeue letter")
				continue
			} else {
				st.Requeued++
				r.metrics.ObserveDeadLetter("requeued")
			}
		} else {
			st.Delivered++
			r.metrics.ObserveDeadLetter("delivered")
			r.metrics.ObserveEmail("sent")
		}
		if err := r.store.Ack(ctx, p.Handle); err != nil {
			r.lg.Error().Err(err).Str("letter_id", l.ID).Msg("ack letter")
		}
	}
	return st, nil
}

// Run calls RunOnce every interval until ctx is done.
func (r *Redeliverer) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st, err := r.RunOnce(ctx)
			if err != nil {
				r.lg.Error().Err(err).Msg("redelivery pass")
				continue
			}
			if st != (RedeliveryStats{}) {
				r.lg.Info().Int("delivered", st.Delivered).Int("requeued", st.Requeued).Int("dropped", st.Dropped).Msg("redelivery pass")
			}
		}
	}
}

func (r *Redeliverer) send(ctx context.Context, e Email) error {
	if r.MailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.MailTimeout)
		defer cancel()
	}
	return r.mailer.Send(ctx, e)
}
