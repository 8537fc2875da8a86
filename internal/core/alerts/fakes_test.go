package alerts

import (
	"context"
	"errors"
	"sync"

	"device-io/internal/core/devices"
	"device-io/internal/core/notifications"
	"device-io/internal/core/users"
)

// journal records side effects in order across fakes.
type journal struct {
	mu    sync.Mutex
	steps []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.steps = append(j.steps, s)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.steps...)
}

type fakeDevices map[string]devices.Device

func (f fakeDevices) ByMAC(_ context.Context, mac string) (*devices.Device, error) {
	d, ok := f[mac]
	if !ok {
		return nil, devices.ErrNotFound
	}
	return &d, nil
}

type fakeUsers map[uint]users.User

func (f fakeUsers) ByID(_ context.Context, id uint) (*users.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

type fakeStore struct {
	mu      sync.Mutex
	j       *journal
	nextID  uint
	created []notifications.Notification
	err     error
}

func (s *fakeStore) Create(_ context.Context, n *notifications.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.nextID++
	n.ID = s.nextID
	s.created = append(s.created, *n)
	if s.j != nil {
		s.j.add("notification")
	}
	return nil
}

func (s *fakeStore) ListByUser(context.Context, uint, notifications.ListFilter) ([]notifications.Notification, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeStore) CountUnread(context.Context, uint) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *fakeStore) SetRead(context.Context, uint, uint, bool) (*notifications.Notification, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeStore) MarkAllRead(context.Context, uint) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *fakeStore) all() []notifications.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifications.Notification(nil), s.created...)
}

type fakeMailer struct {
	mu   sync.Mutex
	j    *journal
	sent []Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	if m.j != nil {
		m.j.add("email:" + e.To)
	}
	return m.err
}

func (m *fakeMailer) attempts() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

func (m *fakeMailer) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type fakeDeadLetters struct {
	mu      sync.Mutex
	seq     int
	pending map[string]Letter
	order   []string
	pushed  []Letter
	acked   []string
}

func newFakeDeadLetters() *fakeDeadLetters {
	return &fakeDeadLetters{pending: map[string]Letter{}}
}

func (f *fakeDeadLetters) Push(_ context.Context, l Letter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	h := string(rune('a' + f.seq))
	f.pending[h] = l
	f.order = append(f.order, h)
	f.pushed = append(f.pushed, l)
	return nil
}

func (f *fakeDeadLetters) Pull(_ context.Context, max int64) ([]PendingLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PendingLetter
	for len(f.order) > 0 && int64(len(out)) < max {
		h := f.order[0]
		f.order = f.order[1:]
		out = append(out, PendingLetter{Handle: h, Letter: f.pending[h]})
	}
	return out, nil
}

func (f *fakeDeadLetters) Ack(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, handle)
	f.acked = append(f.acked, handle)
	return nil
}

func (f *fakeDeadLetters) pushedLetters() []Letter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Letter(nil), f.pushed...)
}
