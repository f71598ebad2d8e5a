package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

// MaxNotificationLimit caps a single feed page.
const MaxNotificationLimit = 500

// Notification feed filters.
const (
	StatusAll = "all"
	StatusNew = "new"
)

type NotificationService struct {
	repo    *repository.NotificationRepo
	players *PlayerService
	now     func() time.Time
	log     zerolog.Logger
}

func NewNotificationService(repo *repository.NotificationRepo, players *PlayerService, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, players: players, now: time.Now, log: log}
}

// ParseNotificationStatus maps a status filter to an unread-only flag.
// An empty status means all.
func ParseNotificationStatus(status string) (unreadOnly bool, err error) {
	switch status {
	case "", StatusAll:
		return false, nil
	case StatusNew:
		return true, nil
	}
	return false, ErrInvalidStatus
}

// ClampNotificationLimit returns the effective page size for a requested
// limit. Zero or negative means no limit.
func ClampNotificationLimit(limit int) int {
	switch {
	case limit <= 0:
		return 0
	case limit > MaxNotificationLimit:
		return MaxNotificationLimit
	}
	return limit
}

// List returns the feed, newest first.
func (s *NotificationService) List(ctx context.Context, status string, limit int) ([]model.NotificationItem, error) {
	unreadOnly, err := ParseNotificationStatus(status)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.List(ctx, unreadOnly, ClampNotificationLimit(limit))
	if err != nil {
		return nil, err
	}

	players := make(map[int64]playerDisplay)
	now := s.now()

	items := make([]model.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		d, ok := players[n.PlayerID]
		if !ok {
			d, err = s.display(ctx, n.PlayerID)
			if err != nil {
				return nil, err
			}
			players[n.PlayerID] = d
		}
		items = append(items, model.NotificationItem{
			ID:           n.ID,
			Type:         n.Type,
			Status:       n.Status,
			PlayerID:     n.PlayerID,
			PlayerName:   d.title,
			PlayerPoster: d.poster,
			Message:      NotificationMessage(n.Type, d.title),
			Time:         RelativeAge(now.Sub(n.CreatedAt)),
			CreatedAt:    n.CreatedAt,
		})
	}
	return items, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}

type playerDisplay struct{ title, poster string }

// display resolves a player's title and poster. A deleted player resolves
// to empty strings.
func (s *NotificationService) display(ctx context.Context, playerID int64) (playerDisplay, error) {
	title, poster, err := s.players.Title(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		return playerDisplay{}, nil
	}
	if err != nil {
		return playerDisplay{}, fmt.Errorf("resolve player %d: %w", playerID, err)
	}
	return playerDisplay{title, poster}, nil
}

// NotificationMessage is the feed line of a notification.
func NotificationMessage(t model.EventType, playerName string) string {
	label := string(t)
	switch t {
	case model.EventComment, model.EventLike, model.EventDislike:
	default:
		label = "unknown"
	}
	return fmt.Sprintf("New %s for %s", label, playerName)
}

var ageUnits = []struct {
	seconds int64
	unit    string
}{
	{31536000, "year"},
	{2419200, "month"},
	{86400, "day"},
	{3600, "hour"},
	{60, "minute"},
}

// RelativeAge formats an elapsed duration as "N unit(s) ago", or "Just now"
// under a minute.
func RelativeAge(elapsed time.Duration) string {
	secs := int64(elapsed / time.Second)
	for _, u := range ageUnits {
		if secs >= u.seconds {
			return fmt.Sprintf("%d %s(s) ago", secs/u.seconds, u.unit)
		}
	}
	return "Just now"
}
