package controllers

import (
	"bytes"
	"net/http"

	"mcpguide/mcpguide/site"
	httputils "mcpguide/mcpguide/utils/http"
	"mcpguide/mcpguide/utils/logging"

	"go.uber.org/zap"
)

type SiteController struct {
	renderer *site.Renderer
}

func NewSiteController(renderer *site.Renderer) *SiteController {
	return &SiteController{renderer: renderer}
}

// Page renders the explainer for the state carried in the query string.
func (c *SiteController) Page(w http.ResponseWriter, r *http.Request) {
	defer logging.LogDuration(r.Context(), "render_page")()

	st := site.ParseState(r.URL.Query(), c.renderer.Catalog())
	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, st); err != nil {
		logging.ErrorLogger.Error("render page failed",
			zap.Error(err),
			zap.String("section", st.Section.Slug()),
			zap.String("trace_id", logging.TraceID(r.Context())))
		httputils.WriteError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
