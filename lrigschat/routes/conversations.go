// lrigschat/routes/conversations.go
package routes

import (
	"encoding/json"
	"net/http"

	"lrigschat/lrigschat/controllers"
	"lrigschat/lrigschat/middlewares"
	"lrigschat/lrigschat/types"

	"github.com/go-chi/chi/v5"
)

func ConversationRoutes(ctrl *controllers.ConversationsController) chi.Router {
	r := chi.NewRouter()

	// GET /conversations : sidebar listing
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.List(store))
	})

	// POST /conversations : new chat, becomes active
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ctrl.Create(store))
	})

	// GET /conversations/{id} : full message history
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		conv, err := ctrl.Messages(store, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(conv)
	})

	// POST /conversations/{id}/select : switch active chat
	r.Post("/{id}/select", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		if err := ctrl.Select(store, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// PUT /conversations/{id} : rename
	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		var req types.RenameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.Rename(store, chi.URLParam(r, "id"), req.Title); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// DELETE /conversations/{id}
	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		if err := ctrl.Delete(store, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
