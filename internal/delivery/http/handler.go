// JSON REST surface: device commands, notifications and the internal alert webhook.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"device-io/internal/core/alerts"
	"device-io/internal/core/broker"
	"device-io/internal/core/commands"
	"device-io/internal/core/notifications"
	"device-io/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type CommandDispatcher interface {
	Dispatch(ctx context.Context, userID uint, mac string, req commands.Request) (commands.Receipt, error)
}

type AlertIngester interface {
	Ingest(ctx context.Context, ev alerts.Event) alerts.Result
}

type AlertEnqueuer interface {
	Enqueue(ev alerts.Event) error
}

type BrokerStatus interface {
	State() broker.State
}

type Deps struct {
	Commands      CommandDispatcher
	Alerts        AlertIngester
	Queue         AlertEnqueuer
	Notifications notifications.Store
	Broker        BrokerStatus
	Auth          *Authenticator
	InternalToken string
	Metrics       *metrics.Metrics
}

type Handler struct {
	Deps
	lg zerolog.Logger
}

func New(d Deps, lg zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(observe(d.Metrics))

	h := &Handler{Deps: d, lg: lg.With().Str("component", "http").Logger()}

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", d.Metrics.Handler())

	// --- API Routes ---
	r.Group(func(r chi.Router) {
		r.Use(d.Auth.Middleware)

		r.Route("/devices/{mac}/command", func(r chi.Router) {
			r.Post("/relay", h.handleRelayCommand)
			r.Post("/ir", h.handleIRCommand)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.handleListNotifications)
			r.Get("/unread-count", h.handleUnreadCount)
			r.Post("/read-all", h.handleMarkAllRead)
			r.Patch("/{id}/read", h.handleSetRead)
		})
	})

	r.Route("/internal/notifications", func(r chi.Router) {
		r.Use(requireToken(d.InternalToken))
		r.Post("/service", h.handleAlertWebhook)
		r.Post("/service/sync", h.handleAlertSync)
	})

	// --- Swagger Docs Route ---
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
	Broker string `json:"broker" example:"connected"`
}

// handleHealth reports liveness and the broker channel state.
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /healthz [get]
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	state := broker.Disconnected
	if h.Broker != nil {
		state = h.Broker.State()
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Broker: state.String()})
}

// observe records every request under its route pattern, not the raw path.
func observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				path = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveHTTPRequest(r.Method, path, status, time.Since(start))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
