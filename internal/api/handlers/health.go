package handlers

import (
	"logistics-network-service/internal/services"
	"net/http"
)

type HealthHandler struct {
	Network *services.Network
}

// Health provides a minimal liveness check endpoint with network size.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"status": "ok"}
	if h.Network != nil {
		res["locations"] = h.Network.Size()
		res["links"] = h.Network.LinkCount()
		res["revision"] = h.Network.Revision()
	}
	writeJSON(w, r, http.StatusOK, res)
}
