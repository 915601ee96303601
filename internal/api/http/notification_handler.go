package http

import (
	"net/http"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.notifications.ListNotifications(r.Context(), ActorID(r), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notes,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), ActorID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
