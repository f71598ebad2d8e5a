package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
)

type SettingsHandler struct {
	svc     *service.SettingsService
	support *service.SupportService
}

func NewSettingsHandler(svc *service.SettingsService, support *service.SupportService) *SettingsHandler {
	return &SettingsHandler{svc: svc, support: support}
}

// Get handles GET /api/admin/v1/settings
func (h *SettingsHandler) Get(c fiber.Ctx) error {
	settings, err := h.svc.Get(c.Context())
	if err != nil {
		return handleError(c, err, "setting")
	}
	return c.JSON(settings)
}

// Save handles POST /api/admin/v1/settings
func (h *SettingsHandler) Save(c fiber.Ctx) error {
	var req model.SettingsRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	settings, err := h.svc.Save(c.Context(), req)
	if err != nil {
		return handleError(c, err, "setting")
	}
	return c.JSON(settings)
}

// WhatsNew handles GET /api/admin/v1/whats-new
func (h *SettingsHandler) WhatsNew(c fiber.Ctx) error {
	features, err := h.support.WhatsNew(c.Context())
	if err != nil {
		return handleError(c, err, "feature")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(features)
}

// Ticket handles POST /api/admin/v1/ticket
func (h *SettingsHandler) Ticket(c fiber.Ctx) error {
	var req model.TicketRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	if err := h.support.SubmitTicket(c.Context(), req); err != nil {
		return handleError(c, err, "ticket")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ticket submitted"})
}
