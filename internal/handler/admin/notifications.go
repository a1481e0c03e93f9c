package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/handler"
)

// NotificationReader is the notification-oversight slice of the API.
type NotificationReader interface {
	NotificationLogs(ctx context.Context, limit int) ([]backend.NotificationLog, error)
	GetNotificationStats(ctx context.Context) (*backend.NotificationStats, error)
	SendTestNotification(ctx context.Context, notificationType string, userID int64) error
}

type NotificationHandler struct {
	notifications NotificationReader
}

func NewNotificationHandler(notifications NotificationReader) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Logs handles GET /admin/notifications/logs?limit=.
func (h *NotificationHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := h.notifications.NotificationLogs(r.Context(), limit)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// Stats handles GET /admin/notifications/stats.
func (h *NotificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.notifications.GetNotificationStats(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, stats)
}

// SendTest handles POST /admin/notifications/test.
func (h *NotificationHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string `json:"type" validate:"required"`
		UserID int64  `json:"user_id" validate:"required,gt=0"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.notifications.SendTestNotification(r.Context(), req.Type, req.UserID); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
