package controllers

import (
	"net/http"

	httputils "mcpguide/mcpguide/utils/http"
)

type HealthController struct {
	providerConfigured bool
}

func NewHealthController(providerConfigured bool) *HealthController {
	return &HealthController{providerConfigured: providerConfigured}
}

type HealthStatus struct {
	Status             string `json:"status"`
	ProviderConfigured bool   `json:"provider_configured"`
}

// HealthCheck always answers 200: a missing provider key only disables chat.
func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputils.WriteJSON(w, http.StatusOK, HealthStatus{Status: "ok", ProviderConfigured: h.providerConfigured})
}
