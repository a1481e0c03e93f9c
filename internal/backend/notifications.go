package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// NotificationLog is one dispatched notification as recorded server-side.
// Delivery itself (email/SMS/WhatsApp) is entirely the backend's concern.
type NotificationLog struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationStats summarizes dispatch outcomes per channel.
type NotificationStats struct {
	TotalSent   int            `json:"total_sent"`
	TotalFailed int            `json:"total_failed"`
	ByChannel   map[string]int `json:"by_channel"`
}

// NotificationLogs fetches recent dispatch records (admin only).
func (c *Client) NotificationLogs(ctx context.Context, limit int) ([]NotificationLog, error) {
	path := "/notifications/logs"
	if limit > 0 {
		params := url.Values{"limit": []string{strconv.Itoa(limit)}}
		path += "?" + params.Encode()
	}

	var resp struct {
		Logs []NotificationLog `json:"logs"`
	}
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// GetNotificationStats fetches dispatch statistics (admin only).
func (c *Client) GetNotificationStats(ctx context.Context) (*NotificationStats, error) {
	var resp struct {
		Stats NotificationStats `json:"stats"`
	}
	if err := c.request(ctx, http.MethodGet, "/notifications/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// SendTestNotification asks the backend to dispatch a test message of the
// given type to the given user (admin only).
func (c *Client) SendTestNotification(ctx context.Context, notificationType string, userID int64) error {
	body := struct {
		Type   string `json:"type"`
		UserID int64  `json:"userId"`
	}{notificationType, userID}
	return c.request(ctx, http.MethodPost, "/notifications/test", body, nil)
}
