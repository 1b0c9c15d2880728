package session_notifications

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/notify"
)

type NotificationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func FromNotification(n notify.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UTC(),
	}
	if n.ExpiresAt != nil {
		at := n.ExpiresAt.UTC()
		resp.ExpiresAt = &at
	}
	return resp
}

func fromList(list []notify.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, FromNotification(n))
	}
	return resp
}
