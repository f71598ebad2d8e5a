package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
)

// PublicHandler serves the endpoints used by the embedded player.
type PublicHandler struct {
	svc *service.EventService
}

func NewPublicHandler(svc *service.EventService) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// Player handles GET /api/v1/player/:id
func (h *PublicHandler) Player(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}

	resp, err := h.svc.PublicPlayer(c.Context(), id, caller)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(resp)
}

// RecordEvent handles POST /api/v1/statistic/player/:id/:type
func (h *PublicHandler) RecordEvent(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	t, err := model.ParseEventType(c.Params("type"))
	if err != nil {
		return badRequest(c, "INVALID_TYPE", "type must be one of: view, like, dislike, comment")
	}
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}

	resp, err := h.svc.Record(c.Context(), id, t, caller)
	if err != nil {
		return handleError(c, err, "player")
	}
	RecordEvent(string(t))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteEvent handles DELETE /api/v1/statistic/player/:id/:statisticId
func (h *PublicHandler) DeleteEvent(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	eventID, msg := middleware.ParseID(c.Params("statisticId"), "statisticId")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}

	counts, err := h.svc.Delete(c.Context(), id, eventID, caller)
	if err != nil {
		return handleError(c, err, "statistic")
	}
	return c.JSON(fiber.Map{"statistics": counts})
}

// Counts handles GET /api/v1/statistics/player/:id
func (h *PublicHandler) Counts(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	counts, err := h.svc.PublicCounts(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(counts)
}

// IsLoggedIn handles GET /api/v1/is-logged-in
func (h *PublicHandler) IsLoggedIn(c fiber.Ctx) error {
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}
	return c.JSON(model.CallerInfo{IsLoggedIn: caller.UserID != 0, ID: caller.UserID})
}

// IsBanned handles GET /api/v1/is-banned?identifier=X
//
// identifier is an email address or a numeric user id. The caller's IP is
// always checked as well.
func (h *PublicHandler) IsBanned(c fiber.Ctx) error {
	identifier := strings.TrimSpace(fiber.Query[string](c, "identifier"))
	caller := service.Caller{IP: c.IP()}
	var email string

	if middleware.IsEmail(identifier) {
		email = identifier
	} else if id, err := strconv.ParseInt(identifier, 10, 64); err == nil && id > 0 {
		caller.UserID = id
	} else {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "identifier must be an email address or a user id")
	}

	banned, err := h.svc.IsBanned(c.Context(), caller, email)
	if err != nil {
		return handleError(c, err, "user")
	}
	if banned {
		return handleError(c, service.ErrBanned, "user")
	}
	return c.JSON(fiber.Map{"message": "Not banned"})
}
