package api

import (
	"encoding/json"
	"net/http"

	"device-io/internal/core/commands"
	"device-io/internal/core/devices"

	"github.com/go-chi/chi/v5"
)

const acceptedStatus = "command accepted for publish"

type relayCommandRequest struct {
	Action string `json:"action" example:"ON" enums:"ON,OFF"`
}

type relayCommandResponse struct {
	Status     string `json:"status" example:"command accepted for publish"`
	DeviceMAC  string `json:"device_mac" example:"AA:BB:CC:DD:EE:FF"`
	ActionSent string `json:"action_sent" example:"ON"`
}

type irCommandRequest struct {
	Code string `json:"code" example:"0x20DF10EF"`
}

type irCommandResponse struct {
	Status    string `json:"status" example:"command accepted for publish"`
	DeviceMAC string `json:"device_mac" example:"AA:BB:CC:DD:EE:FF"`
	CodeSent  string `json:"code_sent" example:"0x20DF10EF"`
}

// handleRelayCommand switches a relay device on or off.
// @Summary      Send a relay command
// @Description  Authorizes the caller against the device and publishes the command to the broker. 202 means the broker accepted the message, not that the device executed it.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        mac      path      string               true  "Device MAC"
// @Param        command  body      relayCommandRequest  true  "Relay action"
// @Success      202      {object}  relayCommandResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Failure      503      {object}  errorResponse
// @Router       /devices/{mac}/command/relay [post]
func (h *Handler) handleRelayCommand(w http.ResponseWriter, r *http.Request) {
	mac, ok := h.pathMAC(w, r)
	if !ok {
		return
	}
	var req relayCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		(req.Action != commands.ActionOn && req.Action != commands.ActionOff) {
		writeError(w, http.StatusUnprocessableEntity, `body must be {"action":"ON"|"OFF"}`)
		return
	}

	rec, err := h.Commands.Dispatch(r.Context(), userIDFrom(r.Context()), mac,
		commands.Request{Kind: commands.KindRelay, Action: req.Action})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, relayCommandResponse{
		Status:     acceptedStatus,
		DeviceMAC:  rec.MAC,
		ActionSent: rec.Action,
	})
}

// handleIRCommand sends a raw infrared code through an IR emitter device.
// @Summary      Send an infrared command
// @Tags         commands
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        mac      path      string            true  "Device MAC"
// @Param        command  body      irCommandRequest  true  "IR code"
// @Success      202      {object}  irCommandResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Failure      503      {object}  errorResponse
// @Router       /devices/{mac}/command/ir [post]
func (h *Handler) handleIRCommand(w http.ResponseWriter, r *http.Request) {
	mac, ok := h.pathMAC(w, r)
	if !ok {
		return
	}
	var req irCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusUnprocessableEntity, `body must be {"code":"<ir code>"}`)
		return
	}

	rec, err := h.Commands.Dispatch(r.Context(), userIDFrom(r.Context()), mac,
		commands.Request{Kind: commands.KindIR, Action: req.Code})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, irCommandResponse{
		Status:    acceptedStatus,
		DeviceMAC: rec.MAC,
		CodeSent:  rec.Action,
	})
}

func (h *Handler) pathMAC(w http.ResponseWriter, r *http.Request) (string, bool) {
	mac, err := devices.NormalizeMAC(chi.URLParam(r, "mac"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return "", false
	}
	return mac, true
}
