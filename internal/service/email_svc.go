package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

type EmailService struct {
	repo    *repository.EmailRepo
	players *PlayerService
	mailer  Mailer
	log     zerolog.Logger
}

func NewEmailService(repo *repository.EmailRepo, players *PlayerService, mailer Mailer, log zerolog.Logger) *EmailService {
	return &EmailService{repo: repo, players: players, mailer: mailer, log: log}
}

// Submit handles a player's email form. Depending on the form action the
// address is stored or the configured message is mailed to the form owner.
func (s *EmailService) Submit(ctx context.Context, playerID int64, req model.EmailFormRequest, caller Caller) error {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if p.Options.EmailForm == nil || !p.Options.EmailForm.Value.Show {
		return ErrEmailFormClosed
	}
	form := p.Options.EmailForm.Value

	if form.FormAction == model.FormActionSaveEmail {
		return s.repo.Insert(ctx, &model.EmailEntry{
			PlayerID:  playerID,
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.TrimSpace(req.Email),
			Registrar: caller.UserID,
		})
	}

	msg := Message{
		To:      form.EmailTo,
		ReplyTo: strings.TrimSpace(req.Email),
		Subject: fmt.Sprintf("New email from video id %d", playerID),
		HTML:    form.EmailContent,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email form to %s: %w", form.EmailTo, err)
	}
	s.log.Info().Int64("player_id", playerID).Msg("email form mailed")
	return nil
}

// List returns the addresses collected by a player.
func (s *EmailService) List(ctx context.Context, playerID int64) ([]model.EmailEntry, error) {
	if _, err := s.players.Get(ctx, playerID); err != nil {
		return nil, err
	}
	return s.repo.ListByPlayer(ctx, playerID)
}

func (s *EmailService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
