package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Add handles POST /api/v1/comment/player/:id
func (h *CommentHandler) Add(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}

	var req model.CommentRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	comment, err := h.svc.Add(c.Context(), id, req, caller)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListApproved handles GET /api/v1/comments/player/:id?limit=N&offset=M
func (h *CommentHandler) ListApproved(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	limit, msg := middleware.ParseLimit(fiber.Query[string](c, "limit"), "limit")
	if msg != "" {
		return badRequest(c, "INVALID_LIMIT", msg)
	}
	offset, msg := middleware.ParseLimit(fiber.Query[string](c, "offset"), "offset")
	if msg != "" {
		return badRequest(c, "INVALID_OFFSET", msg)
	}

	comments, err := h.svc.ListApproved(c.Context(), id, limit, offset)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(comments)
}

// ListAll handles GET /api/admin/v1/comments and
// GET /api/admin/v1/player/:id/comments
func (h *CommentHandler) ListAll(c fiber.Ctx) error {
	id, ok, err := optionalPlayerID(c)
	if !ok {
		return err
	}

	comments, err := h.svc.ListAll(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(comments)
}

// Approve handles PUT /api/admin/v1/comment/:id/approve
func (h *CommentHandler) Approve(c fiber.Ctx) error {
	return h.moderate(c, h.svc.Approve)
}

// Reject handles PUT /api/admin/v1/comment/:id/reject
func (h *CommentHandler) Reject(c fiber.Ctx) error {
	return h.moderate(c, h.svc.Reject)
}

// Delete handles DELETE /api/admin/v1/comment/:id
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	return h.moderate(c, h.svc.Delete)
}

func (h *CommentHandler) moderate(c fiber.Ctx, apply func(ctx context.Context, id int64) error) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	if err := apply(c.Context(), id); err != nil {
		return handleError(c, err, "comment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reply handles POST /api/admin/v1/comment/:id/reply
func (h *CommentHandler) Reply(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	caller, msg := callerFrom(c)
	if msg != "" {
		return badRequest(c, "INVALID_USER", msg)
	}

	var req model.ReplyRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	reply, err := h.svc.Reply(c.Context(), id, req, caller)
	if err != nil {
		return handleError(c, err, "comment")
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// Authors handles GET /api/admin/v1/users-submitted-comment
func (h *CommentHandler) Authors(c fiber.Ctx) error {
	authors, err := h.svc.Authors(c.Context())
	if err != nil {
		return handleError(c, err, "comment")
	}
	return c.JSON(authors)
}
