package model

import (
	"fmt"
	"time"
)

// EventType is the kind of engagement recorded against a player.
type EventType string

const (
	EventView    EventType = "view"
	EventLike    EventType = "like"
	EventDislike EventType = "dislike"
	EventComment EventType = "comment"
)

// EventTypes lists every event type in output order.
var EventTypes = []EventType{EventLike, EventDislike, EventComment, EventView}

// ParseEventType validates a raw event type string.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventView, EventLike, EventDislike, EventComment:
		return t, nil
	}
	return "", fmt.Errorf("invalid event type: %q", s)
}

// IsReaction reports whether the type is tracked in user activity.
func (t EventType) IsReaction() bool {
	return t == EventLike || t == EventDislike
}

// Event is one recorded engagement action. Events are never updated.
type Event struct {
	ID          int64     `json:"id"`
	Type        EventType `json:"type"`
	PlayerID    int64     `json:"playerId"`
	UserID      int64     `json:"userId"`
	IP          string    `json:"-"`
	Country     *string   `json:"country,omitempty"`
	CountryCode *string   `json:"countryCode,omitempty"`
	State       *string   `json:"state,omitempty"`
	City        *string   `json:"city,omitempty"`
	Zip         *string   `json:"zip,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lon         *float64  `json:"lon,omitempty"`
	Device      string    `json:"device"`
	OS          string    `json:"os"`
	Browser     string    `json:"browser"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Geo is the record returned by the geolocation lookup.
type Geo struct {
	CountryName string  `json:"country_name"`
	Country     string  `json:"country"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Postal      string  `json:"postal"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Agent holds the attributes derived from a request's user agent.
type Agent struct {
	Device  string `json:"device"`
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

// UserActivity is a user's current like/dislike reaction on a player.
type UserActivity struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"playerId"`
	UserID    int64     `json:"userId"`
	Type      EventType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordEventResponse is returned after an event is stored.
type RecordEventResponse struct {
	StatisticID int64    `json:"statistic_id"`
	Statistics  CountMap `json:"statistics"`
}

// ActivityFlags reports whether the caller liked or disliked a player.
type ActivityFlags struct {
	Like    bool `json:"like"`
	Dislike bool `json:"dislike"`
}
