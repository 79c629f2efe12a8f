// Package app wires adapters and services into the HTTP application.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/ai-mock-interview/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interview/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	out := make([]string, 0, strings.Count(s, ",")+1)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server, tokens httpserver.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Report-Cached"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		handlerTimeout := cfg.HTTPHandlerTimeout
		if handlerTimeout <= 0 {
			handlerTimeout = 140 * time.Second
		}
		api.Use(httpserver.TimeoutMiddleware(handlerTimeout))
		api.Use(httpserver.BodyLimit(maxBody(cfg)))

		api.Group(func(pub chi.Router) {
			pub.Use(httprate.LimitByIP(rateLimit(cfg), time.Minute))
			pub.Post("/auth/register", srv.RegisterHandler())
			pub.Post("/auth/login", srv.LoginHandler())
		})
		api.Get("/interview/domains", srv.DomainsHandler())
		api.Get("/interview", srv.QuestionsHandler())

		api.Group(func(pr chi.Router) {
			pr.Use(httpserver.RequireAuth(tokens))
			pr.Get("/interview/{sessionId}", srv.GetInterviewHandler())
			pr.Get("/answer/{sessionId}", srv.ListAnswersHandler())
			pr.Get("/report/user/all", srv.ListReportsHandler())
			pr.Get("/report/{reportId}", srv.GetReportHandler())

			pr.Group(func(wr chi.Router) {
				wr.Use(httprate.LimitByIP(rateLimit(cfg), time.Minute))
				wr.Post("/interview/start", srv.StartInterviewHandler())
				wr.Post("/answer/submit", srv.SubmitAnswerHandler())
				wr.Get("/report/generate/{sessionId}", srv.GenerateReportHandler())
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", srv.ReadyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	return httpserver.SecurityHeaders(r)
}

func rateLimit(cfg config.Config) int {
	if cfg.RateLimitPerMin > 0 {
		return cfg.RateLimitPerMin
	}
	return 60
}

func maxBody(cfg config.Config) int64 {
	if cfg.MaxBodyKB > 0 {
		return cfg.MaxBodyKB * 1024
	}
	return 256 * 1024
}
