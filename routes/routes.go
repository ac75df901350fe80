package routes

import (
	"net/http"

	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AllowedOrigins []string
	// WriteLimiter guards every mutating route; nil disables throttling.
	WriteLimiter *middleware.RateLimiter
}

func SetupRoutes(
	router chi.Router,
	fixtureHandler *handlers.FixtureHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	wsHandler *handlers.WebSocketHandler,
	opts Options,
) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	writes := func(h http.HandlerFunc) http.Handler {
		if opts.WriteLimiter == nil {
			return h
		}
		return opts.WriteLimiter.Limit(h)
	}

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/fixtures", func(r chi.Router) {
		r.Method(http.MethodPost, "/", writes(fixtureHandler.CreateFixture))

		r.Route("/{fixtureID}", func(r chi.Router) {
			r.Get("/", fixtureHandler.GetFixture)
			r.Method(http.MethodPost, "/participants", writes(participantHandler.AddParticipant))
			r.Method(http.MethodPost, "/generate", writes(fixtureHandler.GenerateBracket))
			r.Get("/matches", fixtureHandler.ListMatches)
			r.Get("/standings", fixtureHandler.GetStandings)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatch)
		r.Method(http.MethodPost, "/result", writes(matchHandler.SubmitResult))
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Method(http.MethodPost, "/", writes(teamHandler.CreateTeam))
		r.Get("/{teamID}", teamHandler.GetTeamByID)
	})

	router.Get("/ws/fixtures/{fixtureID}", wsHandler.ServeWs)
}
