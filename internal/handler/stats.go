package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/repository"
	"github.com/sf-developer/video-player/internal/service"
)

type StatsHandler struct {
	svc      *service.StatsService
	players  *service.PlayerService
	settings *service.SettingsService
}

func NewStatsHandler(svc *service.StatsService, players *service.PlayerService, settings *service.SettingsService) *StatsHandler {
	return &StatsHandler{svc: svc, players: players, settings: settings}
}

// PlayerStatistics handles GET /api/admin/v1/statistics/player/:id
func (h *StatsHandler) PlayerStatistics(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	stats, err := h.svc.PlayerStatistics(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(stats)
}

// Users handles GET /api/admin/v1/statistics/users
func (h *StatsHandler) Users(c fiber.Ctx) error {
	stats, err := h.svc.Users(c.Context())
	if err != nil {
		return handleError(c, err, "user")
	}
	return c.JSON(stats)
}

// ForUser handles GET /api/admin/v1/statistics/player/:id/user/:uid
func (h *StatsHandler) ForUser(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	uid, msg := middleware.ParseID(c.Params("uid"), "uid")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	counts, err := h.svc.CountByTypeForUser(c.Context(), id, uid)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(counts)
}

// Comments handles GET /api/admin/v1/statistics/comments and
// GET /api/admin/v1/statistics/player/:id/comments
func (h *StatsHandler) Comments(c fiber.Ctx) error {
	id, ok, err := optionalPlayerID(c)
	if !ok {
		return err
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	totals, err := h.svc.CommentTotals(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(totals)
}

// MonthlyComments handles GET /api/admin/v1/statistics/monthly-comments and
// GET /api/admin/v1/statistics/player/:id/monthly-comments
func (h *StatsHandler) MonthlyComments(c fiber.Ctx) error {
	id, ok, err := optionalPlayerID(c)
	if !ok {
		return err
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	stats, err := h.svc.MonthlyComments(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(stats)
}

// Chart handles GET /api/admin/v1/statistics/player/:id/chart
func (h *StatsHandler) Chart(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	series, err := h.svc.Chart(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(series)
}

// Countries handles GET /api/admin/v1/statistics/player/:id/countries?compare=X
func (h *StatsHandler) Countries(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}
	if _, err := h.settings.APIKey(c.Context()); err != nil {
		return handleError(c, err, "setting")
	}

	stats, err := h.svc.Countries(c.Context(), id, fiber.Query[string](c, "compare"))
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(stats)
}

// ByCountry handles GET /api/admin/v1/statistics/player/:id/country/:country
func (h *StatsHandler) ByCountry(c fiber.Ctx) error {
	return h.byLocation(c, repository.DimCountry, "country")
}

// ByState handles GET /api/admin/v1/statistics/player/:id/state/:state
func (h *StatsHandler) ByState(c fiber.Ctx) error {
	return h.byLocation(c, repository.DimState, "state")
}

// ByCity handles GET /api/admin/v1/statistics/player/:id/city/:city
func (h *StatsHandler) ByCity(c fiber.Ctx) error {
	return h.byLocation(c, repository.DimCity, "city")
}

func (h *StatsHandler) byLocation(c fiber.Ctx, dim repository.Dimension, param string) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	value, msg := middleware.ValidateLocation(c.Params(param), param)
	if msg != "" {
		return badRequest(c, "INVALID_"+strings.ToUpper(param), msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	counts, err := h.svc.CountByDimension(c.Context(), id, dim, value)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(counts)
}

// ByDate handles GET /api/admin/v1/statistics/player/:id/date/:date
func (h *StatsHandler) ByDate(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	date, msg := middleware.ParseDate(c.Params("date"), "date")
	if msg != "" {
		return badRequest(c, "INVALID_DATE", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	counts, err := h.svc.CountByDimension(c.Context(), id, repository.DimDate, date.Format(time.DateOnly))
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(counts)
}

// ByYear handles GET /api/admin/v1/statistics/player/:id/year/:year
func (h *StatsHandler) ByYear(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	year, msg := middleware.ParseYear(c.Params("year"))
	if msg != "" {
		return badRequest(c, "INVALID_YEAR", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	stats, err := h.svc.CountByYear(c.Context(), id, year)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(stats)
}

// ByRange handles GET /api/admin/v1/statistics/player/:id/range/:start/:end
func (h *StatsHandler) ByRange(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}
	start, end, msg := middleware.ParseDateRange(c.Params("start"), c.Params("end"))
	if msg != "" {
		return badRequest(c, "INVALID_RANGE", msg)
	}

	if err := h.requirePlayer(c, id); err != nil {
		return handleError(c, err, "player")
	}

	stats, err := h.svc.CountByDateRange(c.Context(), id, start, end)
	if err != nil {
		return handleError(c, err, "player")
	}
	return c.JSON(stats)
}

// requirePlayer fails with repository.ErrNotFound for unknown players. An id
// of 0 addresses every player and always passes.
func (h *StatsHandler) requirePlayer(c fiber.Ctx, id int64) error {
	if id == 0 {
		return nil
	}
	_, err := h.players.Get(c.Context(), id)
	return err
}

// optionalPlayerID reads :id when the route has one. Routes without it
// cover every player and yield 0.
func optionalPlayerID(c fiber.Ctx) (int64, bool, error) {
	raw := c.Params("id")
	if raw == "" {
		return 0, true, nil
	}
	id, msg := middleware.ParseID(raw, "id")
	if msg != "" {
		return 0, false, badRequest(c, "INVALID_ID", msg)
	}
	return id, true, nil
}
