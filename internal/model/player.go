package model

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Section is an option section stored verbatim. Value holds the fields the
// service reads; Raw keeps the whole object so unknown UI fields survive a
// round trip.
type Section[T any] struct {
	Value T
	Raw   json.RawMessage
}

// NewSection builds a section from a typed value.
func NewSection[T any](v T) (*Section[T], error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Section[T]{Value: v, Raw: raw}, nil
}

func (s *Section[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.Value); err != nil {
		return err
	}
	s.Raw = append(s.Raw[:0], data...)
	return nil
}

func (s Section[T]) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	return json.Marshal(s.Value)
}

// General holds the general player settings.
type General struct {
	PlayerName string `json:"playerName" validate:"required,max=200"`
}

// CommentsOptions controls who may comment and how comments are moderated.
type CommentsOptions struct {
	IsClosed           bool   `json:"isClosed"`
	WhoCanSubmit       string `json:"whoCanSubmit" validate:"omitempty,oneof=all loggedin"`
	ImmediatelyApprove bool   `json:"immediatelyApprove"`
}

// Email form actions.
const FormActionSaveEmail = "saveEmail"

// EmailFormOptions controls the email collection form.
type EmailFormOptions struct {
	Show         bool   `json:"show"`
	FormAction   string `json:"formAction"`
	EmailTo      string `json:"emailTo" validate:"omitempty,email"`
	EmailContent string `json:"emailContent"`
}

// Video source types.
const (
	SourceHTML5           = "html5"
	SourceYouTube         = "youtube"
	SourceVimeo           = "vimeo"
	SourceYouTubeChannel  = "youtubeChannel"
	SourceYouTubePlaylist = "youtubePlaylist"
)

// Thumbnail is one poster image of a video.
type Thumbnail struct {
	Link string `json:"link"`
}

// VideoEntry is one video of a player's list.
type VideoEntry struct {
	Title     string      `json:"title"`
	Thumbnail []Thumbnail `json:"thumbnail"`
	YouTubeID string      `json:"youtubeId,omitempty"`
	VimeoID   string      `json:"vimeoId,omitempty"`
}

// Videos is the video section of a player.
type Videos struct {
	Type       string       `json:"type" validate:"required"`
	VideoLists []VideoEntry `json:"videoLists"`
}

// PlayerOptions is the full option set of a player. Sections the service
// never reads are kept as opaque JSON objects.
type PlayerOptions struct {
	General          *Section[General]          `json:"general,omitempty" validate:"required"`
	Appearance       json.RawMessage            `json:"appearance,omitempty" validate:"required"`
	PlayerButtons    json.RawMessage            `json:"playerButtons,omitempty" validate:"required"`
	Ads              json.RawMessage            `json:"ads,omitempty" validate:"required"`
	Comments         *Section[CommentsOptions]  `json:"comments,omitempty" validate:"required"`
	SensitiveContent json.RawMessage            `json:"sensitiveContent,omitempty" validate:"required"`
	EmailForm        *Section[EmailFormOptions] `json:"emailForm,omitempty" validate:"required"`
	CallToActionBtn  json.RawMessage            `json:"callToActionBtn,omitempty" validate:"required"`
	ActionBar        json.RawMessage            `json:"actionBar,omitempty" validate:"required"`
}

// Player is a configured video player.
type Player struct {
	ID        int64            `json:"id"`
	TagID     uuid.UUID        `json:"tagId"`
	Options   PlayerOptions    `json:"options"`
	Videos    *Section[Videos] `json:"videos"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// PlayerRequest is the body of player create and update requests.
type PlayerRequest struct {
	PlayerOptions
	Videos *Section[Videos] `json:"videos,omitempty" validate:"required"`
}

// PlayerSummary is one entry of the players index.
type PlayerSummary struct {
	ID        int64     `json:"id"`
	TagID     uuid.UUID `json:"tagId"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Shortcode string    `json:"shortcode"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicPlayerResponse is the public player payload with counts and the
// caller's reaction state.
type PublicPlayerResponse struct {
	Player     *Player       `json:"player"`
	Statistics CountMap      `json:"statistics"`
	User       CallerInfo    `json:"user"`
	Activity   ActivityFlags `json:"activity"`
}

// CallerInfo describes the identified caller, if any.
type CallerInfo struct {
	IsLoggedIn bool  `json:"is_logged_in"`
	ID         int64 `json:"id"`
}
