package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/sf-developer/video-player/internal/handler"
	"github.com/sf-developer/video-player/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health       *handler.HealthHandler
	Public       *handler.PublicHandler
	Player       *handler.PlayerHandler
	Stats        *handler.StatsHandler
	Comment      *handler.CommentHandler
	Notification *handler.NotificationHandler
	Ban          *handler.BanHandler
	Email        *handler.EmailHandler
	Export       *handler.ExportHandler
	Settings     *handler.SettingsHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
//
// Admin routes are expected behind an authenticating reverse proxy that
// sets X-User-ID; the service itself does not check capabilities.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	readLimit := middleware.NewPublicReadRateLimiter().Handler()
	eventLimit := middleware.NewEventRateLimiter().Handler()
	commentLimit := middleware.NewCommentRateLimiter().Handler()
	emailLimit := middleware.NewEmailFormRateLimiter().Handler()
	ticketLimit := middleware.NewTicketRateLimiter().Handler()

	// Public routes used by the embedded player
	pub := app.Group("/api/v1")
	pub.Get("/player/:id", readLimit, h.Public.Player)
	pub.Get("/statistics/player/:id", readLimit, h.Public.Counts)
	pub.Post("/statistic/player/:id/:type", eventLimit, h.Public.RecordEvent)
	pub.Delete("/statistic/player/:id/:statisticId", eventLimit, h.Public.DeleteEvent)
	pub.Get("/is-logged-in", h.Public.IsLoggedIn)
	pub.Get("/is-banned", readLimit, h.Public.IsBanned)
	pub.Post("/comment/player/:id", commentLimit, h.Comment.Add)
	pub.Get("/comments/player/:id", readLimit, h.Comment.ListApproved)
	pub.Post("/email-form/player/:id", emailLimit, h.Email.Submit)

	admin := app.Group("/api/admin/v1")

	// Players
	admin.Post("/player", h.Player.Create)
	admin.Get("/players", h.Player.List)
	admin.Get("/options/player/:id", h.Player.Options)
	admin.Put("/options/player/:id", h.Player.Update)
	admin.Get("/option/player/:id/:option", h.Player.Option)
	admin.Delete("/player/:id", h.Player.Delete)

	// Statistics
	admin.Get("/statistics/users", h.Stats.Users)
	admin.Get("/statistics/comments", h.Stats.Comments)
	admin.Get("/statistics/monthly-comments", h.Stats.MonthlyComments)
	admin.Get("/statistics/player/:id", h.Stats.PlayerStatistics)
	admin.Get("/statistics/player/:id/user/:uid", h.Stats.ForUser)
	admin.Get("/statistics/player/:id/comments", h.Stats.Comments)
	admin.Get("/statistics/player/:id/monthly-comments", h.Stats.MonthlyComments)
	admin.Get("/statistics/player/:id/chart", h.Stats.Chart)
	admin.Get("/statistics/player/:id/countries", h.Stats.Countries)
	admin.Get("/statistics/player/:id/country/:country", h.Stats.ByCountry)
	admin.Get("/statistics/player/:id/state/:state", h.Stats.ByState)
	admin.Get("/statistics/player/:id/city/:city", h.Stats.ByCity)
	admin.Get("/statistics/player/:id/date/:date", h.Stats.ByDate)
	admin.Get("/statistics/player/:id/year/:year", h.Stats.ByYear)
	admin.Get("/statistics/player/:id/range/:start/:end", h.Stats.ByRange)

	// Comments
	admin.Get("/comments", h.Comment.ListAll)
	admin.Get("/player/:id/comments", h.Comment.ListAll)
	admin.Put("/comment/:id/approve", h.Comment.Approve)
	admin.Put("/comment/:id/reject", h.Comment.Reject)
	admin.Post("/comment/:id/reply", h.Comment.Reply)
	admin.Delete("/comment/:id", h.Comment.Delete)
	admin.Get("/users-submitted-comment", h.Comment.Authors)

	// Notifications
	admin.Get("/notifications", h.Notification.List)
	admin.Put("/notification/:id", h.Notification.MarkRead)

	// Bans
	admin.Get("/banned-users", h.Ban.List)
	admin.Post("/ban-user", h.Ban.Ban)
	admin.Delete("/unban-user/:id", h.Ban.Unban)

	// Collected emails
	admin.Get("/user-emails/:id", h.Email.List)
	admin.Get("/user-emails/:id/export", h.Export.Emails)
	admin.Delete("/delete-email/:id", h.Email.Delete)

	// Settings and support
	admin.Get("/settings", h.Settings.Get)
	admin.Post("/settings", h.Settings.Save)
	admin.Get("/whats-new", h.Settings.WhatsNew)
	admin.Post("/ticket", ticketLimit, h.Settings.Ticket)
}
