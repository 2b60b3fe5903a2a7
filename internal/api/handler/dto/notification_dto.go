package dto

import (
	"bnpl-engine/internal/domain/notification"
	"time"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	Category  string    `json:"category"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewNotificationListResponse(items []*notification.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Category:  string(n.Category),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
