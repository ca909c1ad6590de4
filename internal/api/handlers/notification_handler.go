package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trendmart/storefront/internal/api/middleware"
	"github.com/trendmart/storefront/internal/models"
	"github.com/trendmart/storefront/internal/notify"
	"github.com/trendmart/storefront/internal/repository"
)

type NotificationHandler struct {
	notify *notify.Service
}

func NewNotificationHandler(notifySvc *notify.Service) *NotificationHandler {
	return &NotificationHandler{notify: notifySvc}
}

// List handles GET /notifications?limit=&offset=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	notifications, total, err := h.notify.List(r.Context(), middleware.UserID(r.Context()), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"total":         total,
	})
}

// Recent handles GET /notifications/recent, backing the header bell.
func (h *NotificationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	snap, err := h.notify.Snapshot(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Send handles POST /admin/notifications. Backoffice tools push user
// notifications through here; some still emit the legacy read-flag encodings
// (`read: 1`, `read: "true"`), which the model decode normalizes into IsRead.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var n models.Notification
	if err := decode(r, &n); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if n.UserID == "" || n.Message == "" {
		writeError(w, http.StatusBadRequest, "userId and message required")
		return
	}
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}

	if err := h.notify.Notify(r.Context(), &n); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// UnreadCount handles GET /notifications/unread-count, the badge counter.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	snap, err := h.notify.Snapshot(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": snap.UnreadCount})
}

// MarkRead handles POST /notifications/{notificationID}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := notificationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := h.notify.MarkRead(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		h.writeNotifyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notify.MarkAllRead(r.Context(), middleware.UserID(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /notifications/{notificationID}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := notificationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if err := h.notify.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		h.writeNotifyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *NotificationHandler) writeNotifyError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotificationNotFound) {
		writeError(w, http.StatusNotFound, "notification_not_found")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error")
}

func notificationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "notificationID"), 10, 64)
}
