package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/versusite/handlers"
	"github.com/Dosada05/versusite/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

type Options struct {
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter // nil отключает ограничение
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	catalogHandler *handlers.CatalogHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// websocket вне лимитера и таймаута: соединение долгоживущее
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/catalogs", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateCatalog)
			r.Get("/", catalogHandler.ListCatalogs)
			r.Post("/import", catalogHandler.ImportCatalog)

			r.Route("/{catalogID}", func(r chi.Router) {
				r.Get("/", catalogHandler.GetCatalog)
				r.Put("/", catalogHandler.UpdateCatalog)
				r.Delete("/", catalogHandler.DeleteCatalog)
				r.Post("/items", catalogHandler.AddItems)
				r.Get("/search", catalogHandler.SearchItems)
				r.Get("/export", catalogHandler.ExportCatalog)
				r.Post("/export", catalogHandler.UploadExport)
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", tournamentHandler.StartTournament)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetTournament)
				r.Get("/next", tournamentHandler.GetNextMatch)
				r.Get("/rankings", tournamentHandler.GetRankings)

				// Только владелец токена записи может выбирать победителей
				r.With(middleware.RequireBearer).Post("/matches/{matchID}/winner", tournamentHandler.ResolveMatch)
			})
		})
	})
}
