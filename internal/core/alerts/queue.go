package alerts

import (
	"context"
	"errors"
	"sync"
	"time"

	"device-io/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrQueueFull   = errors.New("alert queue full")
	ErrQueueClosed = errors.New("alert queue closed")
)

// jobTimeout bounds one background ingestion end to end.
const jobTimeout = time.Minute

// DeadLetterSink receives emails the background path could not deliver.
type DeadLetterSink interface {
	Push(ctx context.Context, l Letter) error
}

// Queue runs ingestion in the background on a fixed set of workers. Jobs
// run on their own context, so the request that enqueued them may finish
// or be cancelled without affecting them.
type Queue struct {
	svc     *Service
	jobs    chan Event
	workers int
	dlq     DeadLetterSink
	metrics *metrics.Metrics
	lg      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(svc *Service, size, workers int, dlq DeadLetterSink, m *metrics.Metrics, lg zerolog.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		svc:     svc,
		jobs:    make(chan Event, size),
		workers: workers,
		dlq:     dlq,
		metrics: m,
		lg:      lg.With().Str("component", "alert-queue").Logger(),
	}
}

func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	q.lg.Info().Int("workers", q.workers).Int("capacity", cap(q.jobs)).Msg("alert workers started")
}

// Enqueue schedules ev without blocking.
func (q *Queue) Enqueue(ev Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- ev:
		q.metrics.SetAlertQueueDepth(len(q.jobs))
		return nil
	default:
		q.lg.Warn().Str("mac", ev.MAC).Msg("alert queue full, dropping event")
		return ErrQueueFull
	}
}

// Stop refuses new events and waits for queued ones to finish or ctx to end.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for ev := range q.jobs {
		q.metrics.SetAlertQueueDepth(len(q.jobs))
		q.handle(ev)
	}
}

func (q *Queue) handle(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	res, failed := q.svc.process(ctx, ev)
	if !res.Success {
		q.lg.Warn().Str("mac", ev.MAC).Str("error", res.Error).Msg("background alert not ingested")
		return
	}
	if failed == nil {
		return
	}
	if q.dlq == nil {
		q.lg.Error().Str("to", failed.To).Str("subject", failed.Subject).Msg("alert email lost, no dead-letter store")
		return
	}
	letter := Letter{
		ID:        uuid.NewString(),
		Email:     *failed,
		Attempts:  1,
		LastError: res.Error,
		CreatedAt: time.Now().UTC(),
	}
	if err := q.dlq.Push(ctx, letter); err != nil {
		q.lg.Error().Err(err).Str("to", failed.To).Msg("dead-letter alert email")
		return
	}
	q.metrics.ObserveDeadLetter("queued")
	q.lg.Info().Str("letter_id", letter.ID).Str("to", failed.To).Msg("alert email dead-lettered")
}
