package model

import "time"

// Notification statuses.
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is created for every non-view event.
type Notification struct {
	ID        int64     `json:"id"`
	EventID   *int64    `json:"eventId"`
	PlayerID  int64     `json:"playerId"`
	Type      EventType `json:"type"`
	Status    string    `json:"status"`
	Registrar int64     `json:"registrar"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationItem is one entry of the notification feed.
type NotificationItem struct {
	ID           int64     `json:"id"`
	Type         EventType `json:"type"`
	Status       string    `json:"status"`
	PlayerID     int64     `json:"player_id"`
	PlayerName   string    `json:"player_name"`
	PlayerPoster string    `json:"player_poster"`
	Message      string    `json:"message"`
	Time         string    `json:"time"`
	CreatedAt    time.Time `json:"creation_date"`
}
