package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List handles GET /api/admin/v1/notifications?status=all|new&limit=N
func (h *NotificationHandler) List(c fiber.Ctx) error {
	limit, msg := middleware.ParseLimit(fiber.Query[string](c, "limit"), "limit")
	if msg != "" {
		return badRequest(c, "INVALID_LIMIT", msg)
	}

	items, err := h.svc.List(c.Context(), fiber.Query[string](c, "status"), limit)
	if err != nil {
		return handleError(c, err, "notification")
	}
	return c.JSON(items)
}

// MarkRead handles PUT /api/admin/v1/notification/:id
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.svc.MarkRead(c.Context(), id); err != nil {
		return handleError(c, err, "notification")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
