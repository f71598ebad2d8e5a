package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

type BanService struct {
	repo *repository.BanRepo
	log  zerolog.Logger
}

func NewBanService(repo *repository.BanRepo, log zerolog.Logger) *BanService {
	return &BanService{repo: repo, log: log}
}

// Ban adds a global ban.
func (s *BanService) Ban(ctx context.Context, req model.BanRequest) (*model.BannedUser, error) {
	b := &model.BannedUser{
		Email:     strings.TrimSpace(req.Email),
		IP:        strings.TrimSpace(req.IP),
		Note:      req.Note,
		BannedFor: req.BannedFor,
	}
	if req.UserID != nil {
		b.UserID = *req.UserID
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info().Int64("ban_id", b.ID).Msg("user banned")
	return b, nil
}

// Unban lifts a ban by id.
func (s *BanService) Unban(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("ban_id", id).Msg("user unbanned")
	return nil
}

func (s *BanService) List(ctx context.Context) ([]model.BannedUser, error) {
	return s.repo.List(ctx)
}

// IsBanned checks a user id, email and ip. Empty values are ignored.
func (s *BanService) IsBanned(ctx context.Context, userID int64, email, ip string) (bool, error) {
	return s.repo.IsBanned(ctx, userID, strings.TrimSpace(email), ip)
}
