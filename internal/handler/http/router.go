package http

import (
	"log/slog"
	"os"

	"github.com/chronopointe/pointage-go/internal/handler/http/middleware"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env         string
	FrontendURL string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	punchHandler PunchHandler,
	shiftHandler ShiftHandler,
	anomalyHandler AnomalyHandler,
	reportHandler ReportHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "pointage-api"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/badge-login", authHandler.BadgeLogin)
		})

		// Punch submission authenticates through the badge token in the
		// body, so the sync agent needs no extra credential.
		r.Post("/punch", punchHandler.Submit)

		// SSE stream authenticates through its own short-lived token.
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires a verified badge token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/badge-logout", authHandler.BadgeLogout)
			r.Get("/punches", punchHandler.ListWorkDay)
			r.Get("/work-day/summary", punchHandler.WorkDaySummary)
			r.Get("/planned-shift", shiftHandler.GetPlanned)

			r.Route("/anomalies", func(r chi.Router) {
				r.Get("/", anomalyHandler.List)
				r.Get("/{id}", anomalyHandler.Get)
				r.Post("/{id}/validate", anomalyHandler.Validate)
				r.Post("/{id}/refuse", anomalyHandler.Refuse)
				r.Post("/{id}/correct", anomalyHandler.Correct)
			})

			r.Get("/reports/work-day", reportHandler.ExportWorkDay)
			r.Get("/events/token", eventsHandler.GetSSEToken)
		})
	})
	return r
}
