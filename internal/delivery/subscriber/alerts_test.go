package subscriber

import (
	"testing"

	"device-io/internal/core/alerts"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	subject string
	fn      func(string, []byte)
}

func (f *fakeSource) Subscribe(subject string, fn func(string, []byte)) (func() error, error) {
	f.subject, f.fn = subject, fn
	return func() error { return nil }, nil
}

type recordingQueue struct{ events []alerts.Event }

func (q *recordingQueue) Enqueue(ev alerts.Event) error {
	q.events = append(q.events, ev)
	return nil
}

func TestAlerts_EnqueuesValidEvents(t *testing.T) {
	src := &fakeSource{}
	q := &recordingQueue{}
	unsub, err := Alerts(src, "alerts.>", q, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, unsub)
	assert.Equal(t, "alerts.>", src.subject)

	src.fn("alerts.device", []byte(`{"mac":"cc:db:a7:2f:ae:b0","error_type":"TIMEOUT","message":"device offline"}`))
	src.fn("alerts.device", []byte(`not json`))
	src.fn("alerts.device", []byte(`{"mac":"cc:db:a7:2f:ae:b0","error_type":"FIRE","message":"x"}`))

	require.Len(t, q.events, 1)
	assert.Equal(t, alerts.Event{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: alerts.TypeTimeout, Message: "device offline"}, q.events[0])
}
