package connection

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"social/internal/api"
)

type JSONHandler struct {
	useCase *UseCase
}

func NewJSONHandler(useCase *UseCase) *JSONHandler {
	return &JSONHandler{useCase: useCase}
}

type createRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type statusResponse struct {
	Connection View `json:"connection"`
	Changed    bool `json:"changed"`
}

func (h *JSONHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	caller, err := api.Caller(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var req createRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	c, err := h.useCase.Create(r.Context(), caller, req.UserID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, c.View())
}

func (h *JSONHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	caller, err := api.Caller(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	c, err := h.useCase.Get(r.Context(), id, caller)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, c.View())
}

func (h *JSONHandler) ListUserConnections(w http.ResponseWriter, r *http.Request) {
	userID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := api.RequireCaller(r, userID); err != nil {
		api.WriteError(w, r, err)
		return
	}
	connections, err := h.useCase.ListForUser(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	views := make([]View, len(connections))
	for i, c := range connections {
		views[i] = c.View()
	}
	api.WriteJSON(w, http.StatusOK, views)
}

func (h *JSONHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := api.Caller(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var req statusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	c, changed, err := h.useCase.UpdateStatus(r.Context(), id, caller, req.Status)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, statusResponse{Connection: c.View(), Changed: changed})
}

func (h *JSONHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	caller, err := api.Caller(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.useCase.Delete(r.Context(), id, caller); err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JSONHandler) SetupJSONRoutes(r *mux.Router) {
	r.HandleFunc("/connections", h.CreateConnection).Methods(http.MethodPost)
	r.HandleFunc("/connections/{id}", h.GetConnection).Methods(http.MethodGet)
	r.HandleFunc("/connections/{id}", h.DeleteConnection).Methods(http.MethodDelete)
	r.HandleFunc("/connections/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}/connections", h.ListUserConnections).Methods(http.MethodGet)
}
