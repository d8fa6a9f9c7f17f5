// lrigschat/controllers/health.go
package controllers

import (
	"encoding/json"
	"net/http"

	"lrigschat/lrigschat/services/mistral"
)

type HealthController struct {
	client *mistral.Client
}

func NewHealthController(client *mistral.Client) *HealthController {
	return &HealthController{client: client}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// APIHealth runs a live connectivity check against the provider, the
// way the original sidebar probed the API on startup.
func (h *HealthController) APIHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.client.TestConnection(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "unreachable",
			"kind":   mistral.ErrorKind(err),
			"error":  err.Error(),
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "connected"}`))
}
