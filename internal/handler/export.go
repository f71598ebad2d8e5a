package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/service"
)

type ExportHandler struct {
	emails *service.EmailService
}

func NewExportHandler(emails *service.EmailService) *ExportHandler {
	return &ExportHandler{emails: emails}
}

// Emails handles GET /api/admin/v1/user-emails/:id/export
// Serves the addresses collected by a player as a CSV attachment.
func (h *ExportHandler) Emails(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"), "id")
	if msg != "" {
		return badRequest(c, "INVALID_ID", msg)
	}

	entries, err := h.emails.List(c.Context(), id)
	if err != nil {
		return handleError(c, err, "player")
	}

	body, err := EmailsCSV(entries)
	if err != nil {
		return handleError(c, err, "player")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=player-%d-emails.csv", id))
	return c.Send(body)
}

// EmailsCSV renders collected addresses with a header row.
func EmailsCSV(entries []model.EmailEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "email", "registrar", "creation_date"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			csvSafe(e.Name),
			csvSafe(e.Email),
			strconv.FormatInt(e.Registrar, 10),
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// csvSafe neutralizes values a spreadsheet would evaluate as a formula.
func csvSafe(s string) string {
	if s != "" && (s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@') {
		return "'" + s
	}
	return s
}
