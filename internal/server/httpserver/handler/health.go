package handler

import (
	"net/http"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleStatus handles GET /status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.status())
}

func (h *Handler) status() StatusResponse {
	st := h.gate.Status()
	addrs := st.AuthorizedAddresses
	if addrs == nil {
		addrs = []string{}
	}
	return StatusResponse{
		TokenValid:          st.TokenValid,
		SessionActive:       st.SessionActive,
		TokenPreview:        st.TokenPreview,
		AuthorizedAddresses: addrs,
		MonitorCount:        h.commands.MonitorCount(),
		CurrentMonitor:      st.CurrentMonitor,
		Version:             h.version,
	}
}
