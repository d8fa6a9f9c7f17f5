// lrigschat/routes/models.go
package routes

import (
	"encoding/json"
	"net/http"

	"lrigschat/lrigschat/controllers"

	"github.com/go-chi/chi/v5"
)

func ModelRoutes(ctrl *controllers.ModelsController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.List(r.Context()))
	})
	return r
}
