package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

// Steps of a multi-step event write.
const (
	StepInsertEvent        = "insert_event"
	StepInsertNotification = "insert_notification"
	StepInsertActivity     = "insert_activity"
	StepDeleteEvent        = "delete_event"
	StepDeleteNotification = "delete_notification"
	StepDeleteActivity     = "delete_activity"
)

// Caller identifies the client behind a request. A zero UserID is anonymous.
type Caller struct {
	UserID    int64
	IP        string
	UserAgent string
}

// Geolocator resolves an IP address to a location.
type Geolocator interface {
	Lookup(ctx context.Context, ip, token string) (*model.Geo, error)
}

type EventService struct {
	events        *repository.EventRepo
	notifications *repository.NotificationRepo
	activity      *repository.ActivityRepo
	bans          *repository.BanRepo
	settings      *repository.SettingRepo
	players       *PlayerService
	geo           Geolocator
	log           zerolog.Logger
}

func NewEventService(
	events *repository.EventRepo,
	notifications *repository.NotificationRepo,
	activity *repository.ActivityRepo,
	bans *repository.BanRepo,
	settings *repository.SettingRepo,
	players *PlayerService,
	geo Geolocator,
	log zerolog.Logger,
) *EventService {
	return &EventService{
		events:        events,
		notifications: notifications,
		activity:      activity,
		bans:          bans,
		settings:      settings,
		players:       players,
		geo:           geo,
		log:           log,
	}
}

// Record stores an event, its notification and the caller's reaction. The
// first failing step is returned as a StepError; earlier steps are kept.
func (s *EventService) Record(ctx context.Context, playerID int64, t model.EventType, caller Caller) (*model.RecordEventResponse, error) {
	if _, err := s.players.Get(ctx, playerID); err != nil {
		return nil, err
	}
	if err := s.checkBanned(ctx, caller, ""); err != nil {
		return nil, err
	}

	e := s.NewEvent(ctx, playerID, t, caller)
	id, err := s.events.Insert(ctx, e)
	if err != nil {
		return nil, &StepError{Step: StepInsertEvent, Err: err}
	}

	if t != model.EventView {
		if _, err := s.notifications.Insert(ctx, &id, playerID, t, caller.UserID); err != nil {
			return nil, &StepError{Step: StepInsertNotification, Err: err}
		}
	}
	if caller.UserID != 0 && t.IsReaction() {
		if err := s.activity.Insert(ctx, playerID, caller.UserID, t); err != nil {
			return nil, &StepError{Step: StepInsertActivity, Err: err}
		}
	}

	counts, err := s.events.CountByType(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &model.RecordEventResponse{StatisticID: id, Statistics: counts}, nil
}

// Delete removes an event with its notification and, for identified
// callers, the matching reaction. It returns the refreshed counts.
func (s *EventService) Delete(ctx context.Context, playerID, eventID int64, caller Caller) (model.CountMap, error) {
	if _, err := s.players.Get(ctx, playerID); err != nil {
		return nil, err
	}

	e, err := s.events.FindByID(ctx, playerID, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.notifications.DeleteByEvent(ctx, eventID); err != nil {
		return nil, &StepError{Step: StepDeleteNotification, Err: err}
	}
	if err := s.events.Delete(ctx, playerID, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, &StepError{Step: StepDeleteEvent, Err: err}
	}
	if caller.UserID != 0 && e.Type.IsReaction() {
		if err := s.activity.Delete(ctx, playerID, caller.UserID, e.Type); err != nil {
			return nil, &StepError{Step: StepDeleteActivity, Err: err}
		}
	}

	return s.events.CountByType(ctx, playerID)
}

// PublicPlayer returns a player with its counts and the caller's reactions.
func (s *EventService) PublicPlayer(ctx context.Context, playerID int64, caller Caller) (*model.PublicPlayerResponse, error) {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}

	counts, err := s.events.CountByType(ctx, playerID)
	if err != nil {
		return nil, err
	}

	resp := &model.PublicPlayerResponse{
		Player:     p,
		Statistics: counts,
		User:       model.CallerInfo{IsLoggedIn: caller.UserID != 0, ID: caller.UserID},
	}
	if caller.UserID == 0 {
		return resp, nil
	}

	types, err := s.activity.Types(ctx, playerID, caller.UserID)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		switch t {
		case model.EventLike:
			resp.Activity.Like = true
		case model.EventDislike:
			resp.Activity.Dislike = true
		}
	}
	return resp, nil
}

// PublicCounts returns the per-type counts of an existing player.
func (s *EventService) PublicCounts(ctx context.Context, playerID int64) (model.CountMap, error) {
	if _, err := s.players.Get(ctx, playerID); err != nil {
		return nil, err
	}
	return s.events.CountByType(ctx, playerID)
}

// IsBanned reports whether the caller or the given email is banned.
func (s *EventService) IsBanned(ctx context.Context, caller Caller, email string) (bool, error) {
	return s.bans.IsBanned(ctx, caller.UserID, email, caller.IP)
}

func (s *EventService) checkBanned(ctx context.Context, caller Caller, email string) error {
	banned, err := s.IsBanned(ctx, caller, email)
	if err != nil {
		return err
	}
	if banned {
		return ErrBanned
	}
	return nil
}

// NewEvent builds an event for the caller with user-agent attributes and,
// when an API key is configured, the caller's location. A failed lookup
// leaves the location empty.
func (s *EventService) NewEvent(ctx context.Context, playerID int64, t model.EventType, caller Caller) *model.Event {
	agent := ParseUserAgent(caller.UserAgent)
	e := &model.Event{
		Type:     t,
		PlayerID: playerID,
		UserID:   caller.UserID,
		IP:       caller.IP,
		Device:   agent.Device,
		OS:       agent.OS,
		Browser:  agent.Browser,
	}

	if geo := s.locate(ctx, caller.IP); geo != nil {
		e.Country = &geo.CountryName
		e.CountryCode = &geo.Country
		e.State = &geo.Region
		e.City = &geo.City
		e.Zip = &geo.Postal
		e.Lat = &geo.Latitude
		e.Lon = &geo.Longitude
	}
	return e
}

func (s *EventService) locate(ctx context.Context, ip string) *model.Geo {
	if s.geo == nil || ip == "" {
		return nil
	}
	token, err := s.settings.Get(ctx, repository.SettingAPIKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read api key")
		return nil
	}
	if token == "" {
		return nil
	}
	geo, err := s.geo.Lookup(ctx, ip, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("geo lookup failed")
		return nil
	}
	return geo
}
