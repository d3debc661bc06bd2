package user

import (
	"net/http"

	"github.com/gorilla/mux"

	"social/internal/api"
)

type JSONHandler struct {
	users Repository
}

func NewJSONHandler(users Repository) *JSONHandler {
	return &JSONHandler{users: users}
}

func (h *JSONHandler) GetUserById(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	account, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, account)
}

// SetupJSONRoutes Helper function to set up routes
func (h *JSONHandler) SetupJSONRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id}", h.GetUserById).Methods(http.MethodGet)
}
