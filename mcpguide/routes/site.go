package routes

import (
	"net/http"

	"mcpguide/mcpguide/controllers"
	"mcpguide/mcpguide/site"

	"github.com/go-chi/chi/v5"
)

// SiteRoutes serves the explainer page and its embedded assets.
func SiteRoutes(ctrl *controllers.SiteController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ctrl.Page)
	r.Handle("/static/*", http.StripPrefix("/static/", site.StaticHandler()))
	return r
}
