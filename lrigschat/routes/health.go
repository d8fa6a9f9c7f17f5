// lrigschat/routes/health.go
package routes

import (
	"lrigschat/lrigschat/controllers"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(ctrl *controllers.HealthController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ctrl.HealthCheck)
	r.Get("/api", ctrl.APIHealth)
	return r
}
