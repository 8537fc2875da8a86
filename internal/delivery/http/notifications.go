package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"device-io/internal/core/notifications"

	"github.com/go-chi/chi/v5"
)

const maxListLimit = 200

type setReadRequest struct {
	IsRead *bool `json:"is_read" example:"true"`
}

type countResponse struct {
	Count int64 `json:"count" example:"3"`
}

// handleListNotifications lists the caller's notifications, newest first.
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool  false  "Only unread"
// @Param        limit   query     int   false  "Max items (default 50, max 200)"
// @Success      200     {array}   notifications.Notification
// @Failure      401     {object}  errorResponse
// @Router       /notifications [get]
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	f := notifications.ListFilter{}
	q := r.URL.Query()
	if v := q.Get("unread"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "unread must be a boolean")
			return
		}
		f.UnreadOnly = b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		f.Limit = min(n, maxListLimit)
	}

	list, err := h.Notifications.ListByUser(r.Context(), userIDFrom(r.Context()), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []notifications.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  countResponse
// @Router       /notifications/unread-count [get]
func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notifications.CountUnread(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  countResponse
// @Router       /notifications/read-all [post]
func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notifications.MarkAllRead(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// handleSetRead toggles the read flag of one notification.
// @Summary      Set read state
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Notification ID"
// @Param        body  body      setReadRequest  true  "Read state"
// @Success      200   {object}  notifications.Notification
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /notifications/{id}/read [patch]
func (h *Handler) handleSetRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusUnprocessableEntity, "id must be a positive integer")
		return
	}
	var req setReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsRead == nil {
		writeError(w, http.StatusUnprocessableEntity, `body must be {"is_read":true|false}`)
		return
	}

	n, err := h.Notifications.SetRead(r.Context(), userIDFrom(r.Context()), uint(id), *req.IsRead)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
