package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/blackhacks/scrim-system/handlers"
	"github.com/blackhacks/scrim-system/middleware"
	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/presence"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Admin      *handlers.AdminHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Standings  *handlers.StandingsHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret []byte, tracker presence.Tracker, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	trackPresence := middleware.TrackPresence(tracker, logger)

	// Публичные маршруты
	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	// Живые обновления таблицы. Сокет не требует JWT: токен неудобно
	// передавать из браузерного WebSocket API, а канал только читает.
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.Subscribe)

	// Маршруты для любого аутентифицированного пользователя
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(trackPresence)

		r.Get("/auth/me", h.Auth.Me)
		r.Post("/auth/renew", h.Auth.RenewLicense)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.List)
			r.Post("/", h.Tournament.Create)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.Get)
				r.Patch("/", h.Tournament.Rename)
				r.Delete("/", h.Tournament.Delete)

				r.Put("/teams", h.Tournament.UpdateTeams)
				r.Put("/scoring", h.Tournament.UpdateScoring)
				r.Post("/scoring/parse", h.Tournament.ParseScoring)

				r.Post("/days", h.Tournament.AddDay)
				r.Route("/days/{dayID}", func(r chi.Router) {
					r.Put("/teams", h.Tournament.UpdateDayTeams)

					r.Get("/standings", h.Standings.DayStandings)
					r.Get("/standings/export.csv", h.Standings.ExportCSV)
					r.Get("/standings/export.xlsx", h.Standings.ExportXLSX)

					r.Post("/matches", h.Match.AddMatch)
					r.Route("/matches/{matchID}", func(r chi.Router) {
						r.Delete("/", h.Match.RemoveMatch)
						r.Post("/screenshots", h.Match.UploadScreenshot)
						r.Delete("/screenshots", h.Match.RemoveScreenshot)
						r.Post("/analyze", h.Match.Analyze)
						r.Post("/reset", h.Match.Reset)
					})

					r.Post("/penalties", h.Match.AddPenalty)
					r.Delete("/penalties/{penaltyID}", h.Match.RemovePenalty)
				})
			})
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.Tournament.ListPresets)
			r.Post("/", h.Tournament.SavePreset)
			r.Delete("/{presetID}", h.Tournament.DeletePreset)
		})
	})

	// Маршруты только для администратора
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(trackPresence)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/keys", h.Admin.ListKeys)
			r.Post("/keys", h.Admin.GenerateKeys)
			r.Post("/keys/{code}/revoke", h.Admin.RevokeKey)
			r.Delete("/keys/{code}", h.Admin.DeleteKey)

			r.Get("/users", h.Admin.ListUsers)
			r.Delete("/users/{userID}", h.Admin.DeleteUser)
			r.Put("/users/{userID}/license", h.Admin.SetUserLicenseExpiry)
		})
	})
}
