package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"device-io/internal/core/alerts"
)

type webhookResponse struct {
	Success bool   `json:"success" example:"true"`
	MAC     string `json:"mac,omitempty" example:"CC:DB:A7:2F:AE:B0"`
	Error   string `json:"error,omitempty"`
}

// handleAlertWebhook accepts a device alert and processes it in the background.
// @Summary      Ingest a device alert
// @Description  Answers immediately; the notification and email are produced by a background worker.
// @Tags         internal
// @Accept       json
// @Produce      json
// @Param        alert  body      alerts.Event  true  "Alert"
// @Success      200    {object}  webhookResponse
// @Failure      422    {object}  webhookResponse
// @Failure      503    {object}  webhookResponse
// @Router       /internal/notifications/service [post]
func (h *Handler) handleAlertWebhook(w http.ResponseWriter, r *http.Request) {
	ev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	if err := h.Queue.Enqueue(ev); err != nil {
		status := http.StatusServiceUnavailable
		if !errors.Is(err, alerts.ErrQueueFull) && !errors.Is(err, alerts.ErrQueueClosed) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, webhookResponse{Success: false, MAC: ev.MAC, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, webhookResponse{Success: true, MAC: ev.MAC})
}

// handleAlertSync ingests an alert inline and returns the full result.
// @Summary      Ingest a device alert synchronously
// @Description  Debugging variant of the alert webhook.
// @Tags         internal
// @Accept       json
// @Produce      json
// @Param        alert  body      alerts.Event  true  "Alert"
// @Success      200    {object}  alerts.Result
// @Failure      422    {object}  webhookResponse
// @Router       /internal/notifications/service/sync [post]
func (h *Handler) handleAlertSync(w http.ResponseWriter, r *http.Request) {
	ev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Alerts.Ingest(r.Context(), ev))
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (alerts.Event, bool) {
	var ev alerts.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, webhookResponse{Error: "malformed alert body"})
		return ev, false
	}
	if err := ev.Normalize(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, webhookResponse{MAC: ev.MAC, Error: err.Error()})
		return ev, false
	}
	return ev, true
}
