package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

// ErrUnknownOption is returned for an option section name that does not exist.
var ErrUnknownOption = errors.New("unknown option section")

var validate = validator.New()

// ResolveTitle returns the display title of a player: the video's own title
// when the player holds exactly one video, otherwise the configured name.
func ResolveTitle(p *model.Player) string {
	if p.Videos != nil && len(p.Videos.Value.VideoLists) == 1 {
		return p.Videos.Value.VideoLists[0].Title
	}
	if p.Options.General != nil {
		return p.Options.General.Value.PlayerName
	}
	return ""
}

// ResolveThumbnail returns the first thumbnail of a single-video player
// whose source carries posters, or fallback.
func ResolveThumbnail(p *model.Player, fallback string) string {
	if p.Videos == nil || len(p.Videos.Value.VideoLists) != 1 {
		return fallback
	}
	switch p.Videos.Value.Type {
	case model.SourceHTML5, model.SourceYouTube, model.SourceVimeo:
	default:
		return fallback
	}
	thumbs := p.Videos.Value.VideoLists[0].Thumbnail
	if len(thumbs) == 0 || thumbs[0].Link == "" {
		return fallback
	}
	return thumbs[0].Link
}

// Shortcode is the embed code of a player.
func Shortcode(id int64) string {
	return fmt.Sprintf("[pana-video-player id='%d']", id)
}

type PlayerService struct {
	store        repository.PlayerStore
	cache        *CacheService
	defaultThumb string
	log          zerolog.Logger
}

func NewPlayerService(store repository.PlayerStore, cache *CacheService, defaultThumb string, log zerolog.Logger) *PlayerService {
	return &PlayerService{store: store, cache: cache, defaultThumb: defaultThumb, log: log}
}

// DefaultThumbnail is the placeholder used for players without a poster.
func (s *PlayerService) DefaultThumbnail() string {
	return s.defaultThumb
}

// Get returns a player, reading through the cache.
func (s *PlayerService) Get(ctx context.Context, id int64) (*model.Player, error) {
	if s.cache != nil {
		p, err := s.cache.GetPlayer(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("player_id", id).Msg("cache: get player error")
		}
		if p != nil {
			return p, nil
		}
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPlayer(ctx, p); err != nil {
			s.log.Warn().Err(err).Int64("player_id", id).Msg("cache: set player error")
		}
	}
	return p, nil
}

// Title returns the display title and thumbnail of a player.
func (s *PlayerService) Title(ctx context.Context, id int64) (title, thumbnail string, err error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	return ResolveTitle(p), ResolveThumbnail(p, s.defaultThumb), nil
}

// List returns the players index.
func (s *PlayerService) List(ctx context.Context) ([]model.PlayerSummary, error) {
	players, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PlayerSummary, 0, len(players))
	for i := range players {
		out = append(out, s.summary(&players[i]))
	}
	return out, nil
}

// Create stores a new player. Every option section and the videos section
// are required.
func (s *PlayerService) Create(ctx context.Context, req model.PlayerRequest) (*model.PlayerSummary, error) {
	p := &model.Player{Options: req.PlayerOptions, Videos: req.Videos}
	if err := validatePlayer(p); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Int64("player_id", p.ID).Msg("player created")

	summary := s.summary(p)
	return &summary, nil
}

// Update replaces the sections present in req and keeps the others.
func (s *PlayerService) Update(ctx context.Context, id int64, req model.PlayerRequest) (*model.PlayerSummary, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mergeOptions(&p.Options, req.PlayerOptions)
	if req.Videos != nil {
		p.Videos = req.Videos
	}
	if err := validatePlayer(p); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	summary := s.summary(p)
	return &summary, nil
}

// Delete removes a player configuration. Its events stay as history.
func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info().Int64("player_id", id).Msg("player deleted")
	return nil
}

// Option returns one named section of a player's configuration.
func (s *PlayerService) Option(ctx context.Context, id int64, name string) (any, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	section, ok := optionSection(p, name)
	if !ok {
		return nil, ErrUnknownOption
	}
	return section, nil
}

func (s *PlayerService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePlayer(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("player_id", id).Msg("cache: invalidate player error")
	}
}

func (s *PlayerService) summary(p *model.Player) model.PlayerSummary {
	return model.PlayerSummary{
		ID:        p.ID,
		TagID:     p.TagID,
		Title:     ResolveTitle(p),
		Thumbnail: ResolveThumbnail(p, s.defaultThumb),
		Shortcode: Shortcode(p.ID),
		CreatedAt: p.CreatedAt,
	}
}

func validatePlayer(p *model.Player) error {
	req := model.PlayerRequest{PlayerOptions: p.Options, Videos: p.Videos}
	return validate.Struct(req)
}

func mergeOptions(dst *model.PlayerOptions, src model.PlayerOptions) {
	if src.General != nil {
		dst.General = src.General
	}
	if src.Appearance != nil {
		dst.Appearance = src.Appearance
	}
	if src.PlayerButtons != nil {
		dst.PlayerButtons = src.PlayerButtons
	}
	if src.Ads != nil {
		dst.Ads = src.Ads
	}
	if src.Comments != nil {
		dst.Comments = src.Comments
	}
	if src.SensitiveContent != nil {
		dst.SensitiveContent = src.SensitiveContent
	}
	if src.EmailForm != nil {
		dst.EmailForm = src.EmailForm
	}
	if src.CallToActionBtn != nil {
		dst.CallToActionBtn = src.CallToActionBtn
	}
	if src.ActionBar != nil {
		dst.ActionBar = src.ActionBar
	}
}

func optionSection(p *model.Player, name string) (any, bool) {
	o := p.Options
	switch name {
	case "general":
		return o.General, o.General != nil
	case "appearance":
		return o.Appearance, o.Appearance != nil
	case "playerButtons":
		return o.PlayerButtons, o.PlayerButtons != nil
	case "ads":
		return o.Ads, o.Ads != nil
	case "comments":
		return o.Comments, o.Comments != nil
	case "sensitiveContent":
		return o.SensitiveContent, o.SensitiveContent != nil
	case "emailForm":
		return o.EmailForm, o.EmailForm != nil
	case "callToActionBtn":
		return o.CallToActionBtn, o.CallToActionBtn != nil
	case "actionBar":
		return o.ActionBar, o.ActionBar != nil
	case "videos":
		return p.Videos, p.Videos != nil
	}
	return nil, false
}
