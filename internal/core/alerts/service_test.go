package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	store  *fakeStore
	mailer *fakeMailer
	j      *journal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	j := &journal{}
	store := &fakeStore{j: j, nextID: 100}
	mailer := &fakeMailer{j: j}
	devs := fakeDevices{
		"CC:DB:A7:2F:AE:B0": {ID: 7, MAC: "CC:DB:A7:2F:AE:B0", Name: "garage-plug", UserID: 42, DeviceTypeID: 1},
		"00:11:22:33:44:55": {ID: 8, MAC: "00:11:22:33:44:55", UserID: 99, DeviceTypeID: 1},
		"66:77:88:99:AA:BB": {ID: 9, MAC: "66:77:88:99:AA:BB", UserID: 43, DeviceTypeID: 2},
	}
	usrs := fakeUsers{
		42: {ID: 42, Username: "ana", Email: "ana@example.com"},
		43: {ID: 43, Username: "noemail"},
	}
	svc := NewService(devs, usrs, store, mailer, Config{MailTimeout: time.Second}, nil, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, store: store, mailer: mailer, j: j}
}

func TestIngest_EndToEnd(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Ingest(context.Background(), Event{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: TypeTimeout, Message: "device offline"})

	require.True(t, res.Success, res.Error)
	assert.Empty(t, res.Error)
	require.NotNil(t, res.DeviceID)
	require.NotNil(t, res.UserID)
	require.NotNil(t, res.NotificationID)
	require.NotNil(t, res.EmailSent)
	assert.Equal(t, uint(7), *res.DeviceID)
	assert.Equal(t, uint(42), *res.UserID)
	assert.True(t, *res.EmailSent)

	created := f.store.all()
	require.Len(t, created, 1)
	n := created[0]
	assert.Equal(t, uint(42), n.UserID)
	require.NotNil(t, n.DeviceID)
	assert.Equal(t, uint(7), *n.DeviceID)
	assert.Equal(t, "[TIMEOUT] device offline", n.Message)
	assert.False(t, n.IsRead)
	assert.Equal(t, n.ID, *res.NotificationID)

	sent := f.mailer.attempts()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Device not responding")
	assert.Contains(t, sent[0].HTML, "device offline")
	assert.Contains(t, sent[0].HTML, "Check that the device is powered on")

	assert.Equal(t, []string{"notification", "email:ana@example.com"}, f.j.list())
}

func TestIngest_UnknownMAC(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Ingest(context.Background(), Event{MAC: "DE:AD:BE:EF:00:00", ErrorType: TypeError, Message: "boom"})

	assert.False(t, res.Success)
	assert.Equal(t, "device not found", res.Error)
	assert.Equal(t, "DE:AD:BE:EF:00:00", res.MAC)
	assert.Empty(t, f.store.all())
	assert.Empty(t, f.mailer.attempts())
}

func TestIngest_OrphanedOwner(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Ingest(context.Background(), Event{MAC: "00:11:22:33:44:55", ErrorType: TypeWarning, Message: "hot"})

	assert.False(t, res.Success)
	require.NotNil(t, res.DeviceID)
	assert.Equal(t, uint(8), *res.DeviceID)
	assert.Contains(t, res.Error, ErrResolution.Error())
	assert.Empty(t, f.store.all())
}

func TestIngest_EmailFailureKeepsNotification(t *testing.T) {
	f := newFixture(t)
	f.mailer.setErr(errors.New("535 authentication failed"))

	res := f.svc.Ingest(context.Background(), Event{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: TypeCritical, Message: "overcurrent"})

	assert.True(t, res.Success)
	require.NotNil(t, res.EmailSent)
	assert.False(t, *res.EmailSent)
	assert.True(t, strings.HasPrefix(res.Error, ErrEmailDelivery.Error()))
	assert.Len(t, f.store.all(), 1)
	assert.Equal(t, []string{"notification", "email:ana@example.com"}, f.j.list())
}

func TestIngest_StoreFailureSkipsEmail(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New("connection refused")

	res := f.svc.Ingest(context.Background(), Event{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: TypeOffline, Message: "gone"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "notification write failed")
	assert.Empty(t, f.mailer.attempts())
}

func TestIngest_OwnerWithoutEmail(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Ingest(context.Background(), Event{MAC: "66:77:88:99:AA:BB", ErrorType: TypeMaintenance, Message: "filter"})

	assert.True(t, res.Success)
	assert.False(t, *res.EmailSent)
	assert.Len(t, f.store.all(), 1)
	assert.Empty(t, f.mailer.attempts())
}

func TestEventNormalize(t *testing.T) {
	ev := Event{MAC: "cc-db-a7-2f-ae-b0", ErrorType: "timeout", Message: "  late  "}
	require.NoError(t, ev.Normalize())
	assert.Equal(t, Event{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: TypeTimeout, Message: "late"}, ev)

	for _, bad := range []Event{
		{MAC: "nope", ErrorType: TypeError, Message: "x"},
		{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: "SMOKE", Message: "x"},
		{MAC: "CC:DB:A7:2F:AE:B0", ErrorType: TypeError, Message: " "},
	} {
		assert.ErrorIs(t, bad.Normalize(), ErrInvalidEvent)
	}
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	for _, et := range errorTypes {
		p := c.Lookup(et)
		assert.NotEmpty(t, p.Title, et)
		assert.NotEmpty(t, p.Actions, et)
	}
	assert.Equal(t, c[TypeError], c.Lookup("UNKNOWN"))

	_, err := LoadCatalog([]byte("TIMEOUT:\n  title: x\n"))
	assert.Error(t, err)
}

