package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

func TestRelativeAge(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "Just now"},
		{59 * time.Second, "Just now"},
		{time.Minute, "1 minute(s) ago"},
		{150 * time.Second, "2 minute(s) ago"},
		{3 * time.Hour, "3 hour(s) ago"},
		{49 * time.Hour, "2 day(s) ago"},
		{28 * 24 * time.Hour, "1 month(s) ago"},
		{400 * 24 * time.Hour, "1 year(s) ago"},
		{-time.Hour, "Just now"},
	}

	for _, tt := range tests {
		if got := RelativeAge(tt.elapsed); got != tt.want {
			t.Errorf("RelativeAge(%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestNotificationMessage(t *testing.T) {
	tests := []struct {
		typ  model.EventType
		want string
	}{
		{model.EventComment, "New comment for Intro"},
		{model.EventLike, "New like for Intro"},
		{model.EventDislike, "New dislike for Intro"},
		{model.EventView, "New unknown for Intro"},
		{"share", "New unknown for Intro"},
	}

	for _, tt := range tests {
		if got := NotificationMessage(tt.typ, "Intro"); got != tt.want {
			t.Errorf("NotificationMessage(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestParseNotificationStatus(t *testing.T) {
	tests := []struct {
		status     string
		unreadOnly bool
		wantErr    bool
	}{
		{"", false, false},
		{"all", false, false},
		{"new", true, false},
		{"read", false, true},
		{"NEW", false, true},
	}

	for _, tt := range tests {
		got, err := ParseNotificationStatus(tt.status)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("ParseNotificationStatus(%q) error = %v, want ErrInvalidStatus", tt.status, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNotificationStatus(%q) unexpected error: %v", tt.status, err)
		}
		if got != tt.unreadOnly {
			t.Errorf("ParseNotificationStatus(%q) = %v, want %v", tt.status, got, tt.unreadOnly)
		}
	}
}

func TestClampNotificationLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0},
		{-3, 0},
		{1, 1},
		{50, 50},
		{MaxNotificationLimit, MaxNotificationLimit},
		{MaxNotificationLimit + 1, MaxNotificationLimit},
	}
	for _, tt := range tests {
		if got := ClampNotificationLimit(tt.in); got != tt.want {
			t.Errorf("ClampNotificationLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// stubPlayerStore answers Get from a fixed map or a fixed error.
type stubPlayerStore struct {
	players map[int64]*model.Player
	err     error
}

func (s *stubPlayerStore) Get(_ context.Context, id int64) (*model.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.players[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *stubPlayerStore) List(context.Context) ([]model.Player, error) { return nil, s.err }
func (s *stubPlayerStore) Create(context.Context, *model.Player) error { return s.err }
func (s *stubPlayerStore) Update(context.Context, *model.Player) error { return s.err }
func (s *stubPlayerStore) Delete(context.Context, int64) error { return s.err }

func TestNotificationDisplay(t *testing.T) {
	errPool := errors.New("pool closed")

	tests := []struct {
		name      string
		store     *stubPlayerStore
		playerID  int64
		wantTitle string
		wantErr   error
	}{
		{
			name:      "known player",
			store:     &stubPlayerStore{players: map[int64]*model.Player{7: validPlayer(t, model.Videos{})}},
			playerID:  7,
			wantTitle: "Product tour",
		},
		{
			name:     "deleted player",
			store:    &stubPlayerStore{},
			playerID: 9,
		},
		{
			name:     "storage failure",
			store:    &stubPlayerStore{err: errPool},
			playerID: 7,
			wantErr:  errPool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewNotificationService(nil, NewPlayerService(tt.store, nil, "", zerolog.Nop()), zerolog.Nop())

			d, err := svc.display(context.Background(), tt.playerID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, d.title)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, d.title)
		})
	}
}
