package routes

import (
	"net/http"
	"strings"
	"time"

	"mcpguide/mcpguide/config"
	"mcpguide/mcpguide/controllers"
	"mcpguide/mcpguide/middlewares"
	"mcpguide/mcpguide/site"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the whole HTTP surface: the page, its assets, the chat
// proxy under /api and the health check.
func NewRouter(cfg config.Config, chatCtrl *controllers.ChatController, siteCtrl *controllers.SiteController, healthCtrl *controllers.HealthController) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Trace)
	r.Use(middlewares.RequestLog)
	r.Use(middlewares.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/healthz", HealthRoutes(healthCtrl))

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middlewares.TraceHeader},
			ExposedHeaders: []string{middlewares.TraceHeader},
			MaxAge:         300,
		}))
		api.Mount(strings.TrimPrefix(site.ChatEndpoint, "/api"), ChatRoutes(chatCtrl, cfg))
	})

	r.Mount("/", SiteRoutes(siteCtrl))
	return r
}
