package api

import (
	"errors"
	"net/http"

	"device-io/internal/core/commands"
	"device-io/internal/core/notifications"
)

type errorResponse struct {
	Error string `json:"error" example:"device not found"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commands.ErrDeviceNotFound), errors.Is(err, notifications.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrCapabilityMismatch):
		return http.StatusConflict
	case errors.Is(err, commands.ErrInvalidAction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrBrokerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.lg.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if status == http.StatusServiceUnavailable {
			writeError(w, status, "command could not be published, try again later")
			return
		}
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
