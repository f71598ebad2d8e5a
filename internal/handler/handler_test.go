package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf-developer/video-player/internal/model"
	"github.com/sf-developer/video-player/internal/repository"
	"github.com/sf-developer/video-player/internal/service"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, target, body string, header map[string]string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func errorCodeOf(t *testing.T, raw []byte) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Error.Code
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", repository.ErrNotFound, 404, "NOT_FOUND"},
		{"wrapped not found", errors.Join(errors.New("get player"), repository.ErrNotFound), 404, "NOT_FOUND"},
		{"invalid compare", service.ErrInvalidCompare, 400, "INVALID_COMPARE"},
		{"invalid status", service.ErrInvalidStatus, 400, "INVALID_STATUS"},
		{"comments closed", service.ErrCommentsClosed, 404, "COMMENTS_CLOSED"},
		{"login required", service.ErrLoginRequired, 401, "LOGIN_REQUIRED"},
		{"banned", service.ErrBanned, 403, "BANNED"},
		{"email form closed", service.ErrEmailFormClosed, 404, "EMAIL_FORM_CLOSED"},
		{"api key missing", service.ErrAPIKeyMissing, StatusAPIKeyMissing, "API_KEY_NOT_FOUND"},
		{"missing parent", service.ErrMissingParent, 400, "MISSING_PARENT"},
		{"unknown option", service.ErrUnknownOption, 404, "NOT_FOUND"},
		{"mail disabled", service.ErrMailDisabled, 503, "MAIL_DISABLED"},
		{"upstream", &service.UpstreamError{Status: 403, Code: "SITE_BANNED", Message: "banned site"}, 403, "SITE_BANNED"},
		{"step", &service.StepError{Step: service.StepInsertNotification, Err: errors.New("boom")}, 500, "INSERT_NOTIFICATION"},
		{"other", errors.New("boom"), 500, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c fiber.Ctx) error { return handleError(c, tt.err, "player") })

			resp, raw := do(t, app, http.MethodGet, "/", "", nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, errorCodeOf(t, raw))
		})
	}
}

func TestIsLoggedIn(t *testing.T) {
	app := fiber.New()
	app.Get("/is-logged-in", NewPublicHandler(nil).IsLoggedIn)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"anonymous", "", `{"is_logged_in":false,"id":0}`},
		{"zero is anonymous", "0", `{"is_logged_in":false,"id":0}`},
		{"identified", "17", `{"is_logged_in":true,"id":17}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]string{}
			if tt.header != "" {
				header[UserIDHeader] = tt.header
			}
			resp, raw := do(t, app, http.MethodGet, "/is-logged-in", "", header)
			assert.Equal(t, 200, resp.StatusCode)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}

	resp, raw := do(t, app, http.MethodGet, "/is-logged-in", "", map[string]string{UserIDHeader: "admin"})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_USER", errorCodeOf(t, raw))
}

func TestPublicHandler_Validation(t *testing.T) {
	h := NewPublicHandler(nil)
	app := fiber.New()
	app.Get("/player/:id", h.Player)
	app.Post("/statistic/player/:id/:type", h.RecordEvent)
	app.Delete("/statistic/player/:id/:statisticId", h.DeleteEvent)
	app.Get("/is-banned", h.IsBanned)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"non-numeric player", http.MethodGet, "/player/abc", 400, "INVALID_ID"},
		{"zero player", http.MethodGet, "/player/0", 400, "INVALID_ID"},
		{"unknown event type", http.MethodPost, "/statistic/player/3/share", 400, "INVALID_TYPE"},
		{"bad player on record", http.MethodPost, "/statistic/player/x/like", 400, "INVALID_ID"},
		{"bad statistic id", http.MethodDelete, "/statistic/player/3/-1", 400, "INVALID_ID"},
		{"missing identifier", http.MethodGet, "/is-banned", 404, "NOT_FOUND"},
		{"garbage identifier", http.MethodGet, "/is-banned?identifier=nobody", 404, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, app, tt.method, tt.target, "", nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, errorCodeOf(t, raw))
		})
	}
}

func TestStatsHandler_Validation(t *testing.T) {
	h := NewStatsHandler(nil, nil, nil)
	app := fiber.New()
	app.Get("/statistics/player/:id", h.PlayerStatistics)
	app.Get("/statistics/player/:id/user/:uid", h.ForUser)
	app.Get("/statistics/player/:id/city/:city", h.ByCity)
	app.Get("/statistics/player/:id/country/:country", h.ByCountry)
	app.Get("/statistics/player/:id/date/:date", h.ByDate)
	app.Get("/statistics/player/:id/year/:year", h.ByYear)
	app.Get("/statistics/player/:id/range/:start/:end", h.ByRange)
	app.Get("/statistics/player/:id/countries", h.Countries)
	app.Get("/statistics/player/:id/comments", h.Comments)

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"bad player", "/statistics/player/abc", "INVALID_ID"},
		{"bad user", "/statistics/player/1/user/zero", "INVALID_ID"},
		{"city with digits", "/statistics/player/1/city/123", "INVALID_CITY"},
		{"country injection", "/statistics/player/1/country/US;--", "INVALID_COUNTRY"},
		{"bad date", "/statistics/player/1/date/2024-13-01", "INVALID_DATE"},
		{"short year", "/statistics/player/1/year/24", "INVALID_YEAR"},
		{"reversed range", "/statistics/player/1/range/2024-02-01/2024-01-01", "INVALID_RANGE"},
		{"bad countries player", "/statistics/player/-2/countries", "INVALID_ID"},
		{"bad comments player", "/statistics/player/nope/comments", "INVALID_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, app, http.MethodGet, tt.target, "", nil)
			assert.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, tt.wantCode, errorCodeOf(t, raw))
		})
	}
}

func TestBindJSON(t *testing.T) {
	ban := NewBanHandler(nil)
	settings := NewSettingsHandler(nil, nil)
	comments := NewCommentHandler(nil)
	app := fiber.New()
	app.Post("/ban-user", ban.Ban)
	app.Post("/ticket", settings.Ticket)
	app.Post("/comment/:id/reply", comments.Reply)

	tests := []struct {
		name        string
		target      string
		body        string
		wantCode    string
		wantMessage string
	}{
		{"malformed json", "/ban-user", `{"email":`, "INVALID_BODY", ""},
		{"ban without ip", "/ban-user", `{"user_id":0,"email":"a@example.com","note":"n","banned_for":"spam"}`, "VALIDATION_ERROR", "ip is required"},
		{"ban with bad ip", "/ban-user", `{"user_id":0,"email":"a@example.com","ip":"nope","note":"n","banned_for":"spam"}`, "VALIDATION_ERROR", "ip must be a valid IP address"},
		{"ticket with bad email", "/ticket", `{"name":"A","email":"a","subject":"s","message":"m"}`, "VALIDATION_ERROR", "email must be a valid email address"},
		{"empty reply", "/comment/4/reply", `{"reply":""}`, "VALIDATION_ERROR", "reply is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, app, http.MethodPost, tt.target, tt.body, nil)
			assert.Equal(t, 400, resp.StatusCode)

			var body errorBody
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error.Message)
			}
		})
	}
}

func TestNotificationHandler_Validation(t *testing.T) {
	h := NewNotificationHandler(nil)
	app := fiber.New()
	app.Get("/notifications", h.List)
	app.Put("/notification/:id", h.MarkRead)

	resp, raw := do(t, app, http.MethodGet, "/notifications?limit=-5", "", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_LIMIT", errorCodeOf(t, raw))

	resp, raw = do(t, app, http.MethodPut, "/notification/abc", "", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", errorCodeOf(t, raw))
}

func TestCommentHandler_Validation(t *testing.T) {
	h := NewCommentHandler(nil)
	app := fiber.New()
	app.Get("/comments/player/:id", h.ListApproved)
	app.Put("/comment/:id/approve", h.Approve)

	resp, raw := do(t, app, http.MethodGet, "/comments/player/2?offset=-1", "", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_OFFSET", errorCodeOf(t, raw))

	resp, raw = do(t, app, http.MethodGet, "/comments/player/2?limit=ten", "", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_LIMIT", errorCodeOf(t, raw))

	resp, raw = do(t, app, http.MethodPut, "/comment/0/approve", "", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", errorCodeOf(t, raw))
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	app := fiber.New()
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)

	resp, raw := do(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	resp, raw = do(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, 503, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database map[string]any `json:"database"`
			Cache    map[string]any `json:"cache"`
		} `json:"checks"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "down", body.Checks.Database["status"])
	assert.Equal(t, "disabled", body.Checks.Cache["status"])
	assert.Equal(t, Version, body.Version)
}

func TestRecordEvent_WithoutMetrics(t *testing.T) {
	assert.NotPanics(t, func() { RecordEvent("like") })
}

func TestEmailsCSV(t *testing.T) {
	entries := []model.EmailEntry{
		{ID: 1, Name: "Ada", Email: "ada@example.com", Registrar: 3, CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "=HYPERLINK(\"x\")", Email: "eve@example.com"},
	}

	out, err := EmailsCSV(entries)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email,registrar,creation_date", lines[0])
	assert.Equal(t, "1,Ada,ada@example.com,3,2024-05-01T08:00:00Z", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `2,"'=HYPERLINK(""x"")"`), lines[2])
}
