package handler

import (
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
	"github.com/sf-developer/video-player/pkg/hash"
)

type PlayerHandler struct {
	svc *service.PlayerService
}

func NewPlayerHandler(svc *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{svc: svc}
}

// Create handles POST /api/admin/v1/player
func (h *PlayerHandler) Create(c fiber.Ctx) error {
	var req model.PlayerRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	summary, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// List handles GET /api/admin/v1/players
func (h *PlayerHandler) List(c fiber.Ctx) error {
	players, err := h.svc.List(c.Context())
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(players)
}

// Options handles GET /api/admin/v1/options/player/:id
//
// The body is tagged so editors polling for changes get 304 Not Modified.
func (h *PlayerHandler) Options(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return handleError(c, err, "player")
	}
	etag := hash.ETag(body)
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// Option handles GET /api/admin/v1/option/player/:id/:option
func (h *PlayerHandler) Option(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	section, err := h.svc.Option(c.Context(), id, c.Params("option"))
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(section)
}

// Update handles PUT /api/admin/v1/options/player/:id
func (h *PlayerHandler) Update(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	// Sections are optional on update; the merged player is validated by the service.
	var req model.PlayerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Request body must be valid JSON")
	}

	summary, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(summary)
}

// Delete handles DELETE /api/admin/v1/player/:id
func (h *PlayerHandler) Delete(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return handleError(c, err, "player")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
