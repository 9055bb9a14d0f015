package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/natacion/clubmanager/internal/handlers"
	"github.com/natacion/clubmanager/internal/metrics"
)

func Router(api *handlers.API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public
	r.Get("/healthz", api.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Post("/tg/webhook", api.TelegramWebhook)

	r.Route("/admin", func(ar chi.Router) {
		// Auth endpoints (public)
		ar.Post("/login", api.AdminLogin)
		ar.Post("/logout", api.AdminLogout)

		ar.Group(func(ag chi.Router) {
			ag.Use(api.Auth.RequireAdmin)

			// Clubs
			ag.Get("/clubs", api.ListClubs)
			ag.Post("/clubs", api.CreateClub)
			ag.Get("/clubs/points", api.AllClubPoints)
			ag.Get("/clubs/points.png", api.ClubPointsChart)
			ag.Get("/clubs/{id}", api.GetClub)
			ag.Put("/clubs/{id}", api.UpdateClub)
			ag.Get("/clubs/{id}/logo", api.ClubLogo)
			ag.Put("/clubs/{id}/logo", api.UploadClubLogo)
			ag.Get("/clubs/{id}/points", api.ClubPoints)

			// Catalogs
			ag.Get("/categories", api.ListCategories)
			ag.Post("/categories", api.CreateCategory)
			ag.Put("/categories/{id}", api.UpdateCategory)
			ag.Get("/styles", api.ListStyles)
			ag.Post("/styles", api.CreateStyle)
			ag.Get("/products", api.ListProducts)
			ag.Post("/products", api.CreateProduct)

			// Swimmers
			ag.Get("/swimmers", api.ListSwimmers)
			ag.Post("/swimmers", api.CreateSwimmer)
			ag.Get("/swimmers/{id}", api.GetSwimmer)
			ag.Put("/swimmers/{id}", api.UpdateSwimmer)
			ag.Put("/swimmers/{id}/birth-year", api.SetBirthYear)
			ag.Post("/swimmers/{id}/payments", api.RegisterPayment)
			ag.Post("/swimmers/{id}/best-times", api.AddBestTime)
			ag.Get("/swimmers/{id}/photo", api.SwimmerPhoto)
			ag.Put("/swimmers/{id}/photo", api.UploadSwimmerPhoto)
			ag.Get("/swimmers/{id}/qr.png", api.SwimmerQR)

			// Championships
			ag.Get("/championships", api.ListChampionships)
			ag.Post("/championships", api.CreateChampionship)
			ag.Get("/championships/{id}", api.GetChampionship)
			ag.Put("/championships/{id}/clubs", api.SetChampionshipClubs)
			ag.Get("/championships/{id}/roster", api.ChampionshipRoster)
			ag.Get("/championships/{id}/roster.csv", api.ChampionshipRosterCSV)
			ag.Post("/championships/{id}/swimmers", api.AddSwimmerToChampionship)
			ag.Post("/championships/{id}/swimmers/add-valid", api.AddAllValidSwimmers)
			ag.Get("/championships/{id}/classification", api.Classification)
			ag.Get("/championships/{id}/classification.xlsx", api.ClassificationXLSX)
			ag.Get("/championships/{id}/duration", api.TotalDuration)
			ag.Get("/championships/{id}/sessions", api.ListSessions)

			// Sessions, tests, series
			ag.Post("/sessions", api.CreateSession)
			ag.Put("/sessions/{id}", api.RescheduleSession)
			ag.Post("/tests", api.CreateTest)
			ag.Get("/tests/{id}", api.GetTest)
			ag.Get("/tests/{id}/registrations", api.TestRegistrations)
			ag.Post("/tests/{id}/registrations", api.RegisterSwimmerForTest)
			ag.Get("/tests/{id}/check", api.CheckTestRegistrations)
			ag.Post("/tests/{id}/series", api.GenerateSeries)
			ag.Put("/results/{id}", api.RecordResult)
		})
	})

	return r
}
