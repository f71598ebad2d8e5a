package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
)

type EmailHandler struct {
	svc *service.EmailService
}

func NewEmailHandler(svc *service.EmailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// Submit handles POST /api/v1/email-form/player/:id
func (h *EmailHandler) Submit(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}

	var req model.EmailFormRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	if err := h.svc.Submit(c.Context(), id, req, caller); err != nil {
		return handleError(c, err, "player")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Email submitted"})
}

// List handles GET /api/admin/v1/user-emails/:id
func (h *EmailHandler) List(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	entries, err := h.svc.List(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(entries)
}

// Delete handles DELETE /api/admin/v1/delete-email/:id
func (h *EmailHandler) Delete(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return handleError(c, err, "email")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
