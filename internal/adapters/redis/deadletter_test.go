package redis

import (
	"context"
	"testing"
	"time"

	"device-io/internal/core/alerts"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeadLetters(t *testing.T) (*DeadLetters, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := NewClient(Config{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	d := NewDeadLetters(rdb, "alerts:deadletter", "test", zerolog.Nop())
	require.NoError(t, d.Ensure(context.Background()))
	return d, mr
}

func TestDeadLetters_PushPullAck(t *testing.T) {
	d, _ := newDeadLetters(t)
	ctx := context.Background()

	letter := alerts.Letter{
		ID:        "l1",
		Email:     alerts.Email{To: "ana@example.com", Subject: "s", HTML: "<p>x</p>"},
		Attempts:  1,
		LastError: "timeout",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, d.Push(ctx, letter))

	pending, err := d.Pull(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, letter, pending[0].Letter)
	assert.NotEmpty(t, pending[0].Handle)

	require.NoError(t, d.Ack(ctx, pending[0].Handle))
	n, err := d.rdb.XLen(ctx, "alerts:deadletter").Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	again, err := d.Pull(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestDeadLetters_UnackedLetterIsPulledAgain(t *testing.T) {
	d, _ := newDeadLetters(t)
	ctx := context.Background()
	require.NoError(t, d.Push(ctx, alerts.Letter{ID: "l1", Email: alerts.Email{To: "ana@example.com"}, Attempts: 1}))

	first, err := d.Pull(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	for i := 0; i < 2; i++ {
		again, err := d.Pull(ctx, 10)
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, first[0].Handle, again[0].Handle)
		assert.Equal(t, "l1", again[0].Letter.ID)
	}

	require.NoError(t, d.Push(ctx, alerts.Letter{ID: "l2", Email: alerts.Email{To: "bo@example.com"}, Attempts: 1}))
	both, err := d.Pull(ctx, 10)
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "l1", both[0].Letter.ID)
	assert.Equal(t, "l2", both[1].Letter.ID)

	capped, err := d.Pull(ctx, 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, "l1", capped[0].Letter.ID)
}

func TestDeadLetters_RedelivererPicksUpStrandedLetter(t *testing.T) {
	d, _ := newDeadLetters(t)
	ctx := context.Background()
	require.NoError(t, d.Push(ctx, alerts.Letter{ID: "l1", Email: alerts.Email{To: "ana@example.com"}, Attempts: 1}))

	// read by a pass that never finished
	_, err := d.Pull(ctx, 10)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	r := alerts.NewRedeliverer(d, mailer, time.Second, nil, zerolog.Nop())
	st, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, alerts.RedeliveryStats{Delivered: 1}, st)
	assert.Equal(t, []string{"ana@example.com"}, mailer.to)

	n, err := d.rdb.XLen(ctx, "alerts:deadletter").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeadLetters_EnsureIsIdempotent(t *testing.T) {
	d, _ := newDeadLetters(t)
	assert.NoError(t, d.Ensure(context.Background()))
}

func TestDeadLetters_WorksWithRedeliverer(t *testing.T) {
	d, _ := newDeadLetters(t)
	ctx := context.Background()
	require.NoError(t, d.Push(ctx, alerts.Letter{ID: "l1", Email: alerts.Email{To: "ana@example.com"}, Attempts: 1}))

	mailer := &recordingMailer{}
	r := alerts.NewRedeliverer(d, mailer, time.Second, nil, zerolog.Nop())
	st, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, alerts.RedeliveryStats{Delivered: 1}, st)
	assert.Equal(t, []string{"ana@example.com"}, mailer.to)
}

type recordingMailer struct{ to []string }

func (m *recordingMailer) Send(_ context.Context, e alerts.Email) error {
	m.to = append(m.to, e.To)
	return nil
}
