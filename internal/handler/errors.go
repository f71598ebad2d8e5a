package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/repository"
	"github.com/sf-developer/video-player/internal/service"
)

// StatusAPIKeyMissing is returned when country statistics are requested
// before a geolocation API key is configured. Existing admin clients treat
// it as a success status carrying an explanation.
const StatusAPIKeyMissing = 211

// UserIDHeader carries the authenticated user id set by the upstream auth layer.
const UserIDHeader = "X-User-ID"

// handleError maps a service error to the API error envelope. resource
// names the looked-up thing in 404 messages.
func handleError(c fiber.Ctx, err error, resource string) error {
	var verrs validator.ValidationErrors
	var upstream *service.UpstreamError
	var step *service.StepError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", resource+" not found")
	case errors.As(err, &verrs):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", middleware.ValidationMessage(err))
	case errors.Is(err, service.ErrInvalidCompare):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_COMPARE", "compare must be one of: day, week, month, year")
	case errors.Is(err, service.ErrInvalidStatus):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_STATUS", "status must be one of: all, new")
	case errors.Is(err, service.ErrCommentsClosed):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "COMMENTS_CLOSED", err.Error())
	case errors.Is(err, service.ErrLoginRequired):
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "LOGIN_REQUIRED", "You must be logged in to comment")
	case errors.Is(err, service.ErrBanned):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "BANNED", "You are banned")
	case errors.Is(err, service.ErrEmailFormClosed):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "EMAIL_FORM_CLOSED", err.Error())
	case errors.Is(err, service.ErrAPIKeyMissing):
		return middleware.ErrorResponse(c, StatusAPIKeyMissing, "API_KEY_NOT_FOUND", "Please enter the API key in the settings")
	case errors.Is(err, service.ErrMissingParent):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARENT", err.Error())
	case errors.Is(err, service.ErrUnknownOption):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "option not found")
	case errors.Is(err, service.ErrMailDisabled):
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "MAIL_DISABLED", err.Error())
	case errors.As(err, &upstream):
		return middleware.ErrorResponse(c, upstream.Status, upstream.Code, upstream.Message)
	case errors.As(err, &step):
		middleware.Logger.Error().Err(err).Str("step", step.Step).Str("path", c.Path()).Msg("write step failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, strings.ToUpper(step.Step), "Failed to "+strings.ReplaceAll(step.Step, "_", " "))
	}

	middleware.Logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// callerFrom identifies the client. An absent or zero user id is anonymous.
func callerFrom(c fiber.Ctx) (service.Caller, string) {
	caller := service.Caller{
		IP:        c.IP(),
		UserAgent: middleware.ValidateUserAgent(c.Get(fiber.HeaderUserAgent)),
	}
	raw := strings.TrimSpace(c.Get(UserIDHeader))
	if raw == "" {
		return caller, ""
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return caller, UserIDHeader + " must be a non-negative integer"
	}
	caller.UserID = id
	return caller, ""
}

// bindJSON decodes and validates a request body. It writes the 400 response
// itself and reports whether the handler should continue.
func bindJSON(c fiber.Ctx, out any) (bool, error) {
	if err := c.Bind().JSON(out); err != nil {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
	}
	if msg := middleware.ValidateStruct(out); msg != "" {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", msg)
	}
	return true, nil
}

func badRequest(c fiber.Ctx, code, msg string) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, code, msg)
}
