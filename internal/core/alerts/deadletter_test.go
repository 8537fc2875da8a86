package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeliverer_DeliversAndAcks(t *testing.T) {
	dlq := newFakeDeadLetters()
	require.NoError(t, dlq.Push(context.Background(), Letter{ID: "l1", Email: Email{To: "a@example.com"}, Attempts: 1}))
	mailer := &fakeMailer{}

	r := NewRedeliverer(dlq, mailer, time.Second, nil, zerolog.Nop())
	st, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, RedeliveryStats{Delivered: 1}, st)
	assert.Len(t, mailer.attempts(), 1)
	assert.Len(t, dlq.acked, 1)
	assert.Empty(t, dlq.pending)
}

func TestRedeliverer_RequeuesThenDrops(t *testing.T) {
	dlq := newFakeDeadLetters()
	require.NoError(t, dlq.Push(context.Background(), Letter{ID: "l1", Email: Email{To: "a@example.com"}, Attempts: 1}))
	mailer := &fakeMailer{err: errors.New("421 try again later")}

	r := NewRedeliverer(dlq, mailer, time.Second, nil, zerolog.Nop())
	r.MaxAttempts = 3

	st, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RedeliveryStats{Requeued: 1}, st)

	pushed := dlq.pushedLetters()
	require.Len(t, pushed, 2)
	assert.Equal(t, 2, pushed[1].Attempts)
	assert.Equal(t, "421 try again later", pushed[1].LastError)

	st, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RedeliveryStats{Dropped: 1}, st)
	assert.Empty(t, dlq.pending)
}
