package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
)

// TokenTester checks a geolocation API key.
type TokenTester interface {
	TestToken(ctx context.Context, token string) error
}

type SettingsService struct {
	repo   *repository.SettingRepo
	tester TokenTester
	log    zerolog.Logger
}

func NewSettingsService(repo *repository.SettingRepo, tester TokenTester, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, tester: tester, log: log}
}

func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	return s.repo.All(ctx)
}

// APIKey returns the configured geolocation key, or ErrAPIKeyMissing.
func (s *SettingsService) APIKey(ctx context.Context) (string, error) {
	key, err := s.repo.Get(ctx, repository.SettingAPIKey)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrAPIKeyMissing
	}
	return key, nil
}

// Save stores the present settings. A non-empty API key is tested first and
// nothing is saved when the test fails.
func (s *SettingsService) Save(ctx context.Context, req model.SettingsRequest) (model.Settings, error) {
	if req.APIKey != nil {
		key := strings.TrimSpace(*req.APIKey)
		if key != "" && s.tester != nil {
			if err := s.tester.TestToken(ctx, key); err != nil {
				return model.Settings{}, err
			}
		}
		if err := s.repo.Set(ctx, repository.SettingAPIKey, key); err != nil {
			return model.Settings{}, fmt.Errorf("save api key: %w", err)
		}
	}
	if req.CustomCSS != nil {
		if err := s.repo.Set(ctx, repository.SettingCustomCSS, *req.CustomCSS); err != nil {
			return model.Settings{}, fmt.Errorf("save custom css: %w", err)
		}
	}
	return s.repo.All(ctx)
}

// SupportService serves the vendor-facing admin features.
type SupportService struct {
	client       *SupportClient
	mailer       Mailer
	supportEmail string
	log          zerolog.Logger
}

func NewSupportService(client *SupportClient, mailer Mailer, supportEmail string, log zerolog.Logger) *SupportService {
	return &SupportService{client: client, mailer: mailer, supportEmail: supportEmail, log: log}
}

// WhatsNew returns the product feature list.
func (s *SupportService) WhatsNew(ctx context.Context) (json.RawMessage, error) {
	return s.client.Features(ctx)
}

// SubmitTicket checks that this site may open tickets and mails the ticket
// to the support address.
func (s *SupportService) SubmitTicket(ctx context.Context, req model.TicketRequest) error {
	if err := s.client.CheckSiteURL(ctx); err != nil {
		return err
	}

	msg := Message{
		To:      s.supportEmail,
		ReplyTo: req.Email,
		Subject: req.Subject,
		HTML:    TicketBody(req),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send ticket: %w", err)
	}
	s.log.Info().Msg("support ticket sent")
	return nil
}

// TicketBody renders a ticket as escaped HTML.
func TicketBody(req model.TicketRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(req.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(req.Email))
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>"))
	return b.String()
}
