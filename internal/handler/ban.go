package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
)

type BanHandler struct {
	svc *service.BanService
}

func NewBanHandler(svc *service.BanService) *BanHandler {
	return &BanHandler{svc: svc}
}

// Ban handles POST /api/admin/v1/ban-user
func (h *BanHandler) Ban(c fiber.Ctx) error {
	var req model.BanRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	ban, err := h.svc.Ban(c.Context(), req)
	if err != nil {
		return handleError(c, err, "user")
	}
	return c.Status(fiber.StatusCreated).JSON(ban)
}

// Unban handles DELETE /api/admin/v1/unban-user/:id
func (h *BanHandler) Unban(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.svc.Unban(c.Context(), id); err != nil {
		return handleError(c, err, "ban")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List handles GET /api/admin/v1/banned-users
func (h *BanHandler) List(c fiber.Ctx) error {
	bans, err := h.svc.List(c.Context())
	if err != nil {
		return handleError(c, err, "ban")
	}
	return c.JSON(bans)
}
