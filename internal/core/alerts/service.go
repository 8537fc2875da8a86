package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"device-io/internal/core/devices"
	"device-io/internal/core/notifications"
	"device-io/internal/core/users"
	"device-io/internal/metrics"

	"github.com/rs/zerolog"
)

type DeviceFinder interface {
	ByMAC(ctx context.Context, mac string) (*devices.Device, error)
}

type UserFinder interface {
	ByID(ctx context.Context, id uint) (*users.User, error)
}

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

type Config struct {
	Catalog     Catalog
	MailTimeout time.Duration
}

// Service turns device alerts into notifications and emails.
type Service struct {
	devices     DeviceFinder
	users       UserFinder
	store       notifications.Store
	mailer      Mailer
	catalog     Catalog
	mailTimeout time.Duration
	metrics     *metrics.Metrics
	lg          zerolog.Logger
	now         func() time.Time
}

func NewService(
	devs DeviceFinder,
	usrs UserFinder,
	store notifications.Store,
	mailer Mailer,
	cfg Config,
	m *metrics.Metrics,
	lg zerolog.Logger,
) *Service {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	return &Service{
		devices:     devs,
		users:       usrs,
		store:       store,
		mailer:      mailer,
		catalog:     cfg.Catalog,
		mailTimeout: cfg.MailTimeout,
		metrics:     m,
		lg:          lg.With().Str("component", "alerts").Logger(),
		now:         time.Now,
	}
}

// Ingest processes one alert and reports the outcome. It never returns an
// error; every failure is captured in the Result and logged.
func (s *Service) Ingest(ctx context.Context, ev Event) Result {
	res, _ := s.process(ctx, ev)
	return res
}

// process is Ingest plus the email that failed to send, if any, so the
// background path can dead-letter it.
func (s *Service) process(ctx context.Context, ev Event) (Result, *Email) {
	res := Result{MAC: ev.MAC}
	lg := s.lg.With().Str("mac", ev.MAC).Str("error_type", string(ev.ErrorType)).Logger()

	dev, err := s.devices.ByMAC(ctx, ev.MAC)
	if err != nil {
		if errors.Is(err, devices.ErrNotFound) {
			res.Error = "device not found"
		} else {
			res.Error = fmt.Sprintf("device lookup failed: %v", err)
		}
		lg.Warn().Err(err).Msg("alert for unresolvable device")
		s.metrics.ObserveAlert(string(ev.ErrorType), "unresolved")
		return res, nil
	}
	res.DeviceID = ptr(dev.ID)

	owner, err := s.users.ByID(ctx, dev.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			res.Error = fmt.Sprintf("%v: owner %d of device %d not found", ErrResolution, dev.UserID, dev.ID)
		} else {
			res.Error = fmt.Sprintf("owner lookup failed: %v", err)
		}
		lg.Warn().Err(err).Uint("device_id", dev.ID).Msg("alert for device without owner")
		s.metrics.ObserveAlert(string(ev.ErrorType), "unresolved")
		return res, nil
	}
	res.UserID = ptr(owner.ID)

	n := &notifications.Notification{
		UserID:   owner.ID,
		DeviceID: ptr(dev.ID),
		Message:  ev.NotificationMessage(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		res.Error = fmt.Sprintf("notification write failed: %v", err)
		lg.Error().Err(err).Uint("user_id", owner.ID).Msg("create notification")
		s.metrics.ObserveAlert(string(ev.ErrorType), "store_failed")
		return res, nil
	}
	res.Success = true
	res.NotificationID = ptr(n.ID)
	s.metrics.ObserveAlert(string(ev.ErrorType), "ok")

	sent := false
	res.EmailSent = &sent
	if owner.Email == "" {
		res.Error = "owner has no email address"
		lg.Warn().Uint("user_id", owner.ID).Msg("skip alert email")
		s.metrics.ObserveEmail("skipped")
		return res, nil
	}

	mail, err := renderEmail(owner.Email, owner.Username, dev.Label(), ev, s.catalog.Lookup(ev.ErrorType), s.now())
	if err != nil {
		res.Error = fmt.Sprintf("render email: %v", err)
		lg.Error().Err(err).Msg("render alert email")
		s.metrics.ObserveEmail("failed")
		return res, nil
	}

	if err := s.send(ctx, mail); err != nil {
		res.Error = fmt.Sprintf("%v: %v", ErrEmailDelivery, err)
		lg.Error().Err(err).Uint("user_id", owner.ID).Uint("notification_id", n.ID).Msg("send alert email")
		s.metrics.ObserveEmail("failed")
		return res, &mail
	}
	sent = true
	s.metrics.ObserveEmail("sent")
	lg.Info().Uint("user_id", owner.ID).Uint("notification_id", n.ID).Msg("alert delivered")
	return res, nil
}

func (s *Service) send(ctx context.Context, e Email) error {
	if s.mailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
	}
	return s.mailer.Send(ctx, e)
}

func ptr[T any](v T) *T { return &v }
