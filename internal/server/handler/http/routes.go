package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lifeceo/backend/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the Life CEO API.
//
// Routes:
//
//	POST /api/register                              → authHandler.Register
//	POST /api/login                                 → authHandler.Login
//
// Protected (bearer token required):
//
//	GET  /api/profile                               → authHandler.Profile
//	PUT  /api/profile                               → authHandler.SaveProfile
//	POST /api/onboarding                            → authHandler.CompleteOnboarding
//	GET  /api/topics                                → catalogHandler.Topics
//	PUT  /api/topics                                → catalogHandler.ReplaceTopics
//	PATCH /api/topics/{topicID}                     → catalogHandler.UpdateTopic
//	GET  /api/days/{date}                           → dayLogHandler.Day
//	POST /api/days/{date}/adhoc                     → dayLogHandler.AddAdHoc
//	POST /api/days/{date}/schedule                  → dayLogHandler.ScheduleAction
//	POST /api/days/{date}/entries/{entryID}/toggle  → dayLogHandler.ToggleEntry
//	DELETE /api/days/{date}/entries/{entryID}       → dayLogHandler.RemoveEntry
//	GET  /api/logs                                  → dayLogHandler.Logs
//	GET  /api/report                                → dayLogHandler.Report
//	GET  /api/backup                                → backupHandler.Export
//	POST /api/backup                                → backupHandler.Import
func NewRouter(
	authHandler *AuthHandler,
	catalogHandler *CatalogHandler,
	dayLogHandler *DayLogHandler,
	backupHandler *BackupHandler,
	tokens middleware.TokenValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))

			r.Get("/profile", authHandler.Profile)
			r.Put("/profile", authHandler.SaveProfile)
			r.Post("/onboarding", authHandler.CompleteOnboarding)

			r.Get("/topics", catalogHandler.Topics)
			r.Put("/topics", catalogHandler.ReplaceTopics)
			r.Patch("/topics/{topicID}", catalogHandler.UpdateTopic)

			r.Get("/days/{date}", dayLogHandler.Day)
			r.Post("/days/{date}/adhoc", dayLogHandler.AddAdHoc)
			r.Post("/days/{date}/schedule", dayLogHandler.ScheduleAction)
			r.Post("/days/{date}/entries/{entryID}/toggle", dayLogHandler.ToggleEntry)
			r.Delete("/days/{date}/entries/{entryID}", dayLogHandler.RemoveEntry)

			r.Get("/logs", dayLogHandler.Logs)
			r.Get("/report", dayLogHandler.Report)

			r.Get("/backup", backupHandler.Export)
			r.Post("/backup", backupHandler.Import)
		})
	})

	return r
}
