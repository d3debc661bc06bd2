package message

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

type updateRequest struct {
	Text      *string     `json:"text" validate:"omitempty,max=4000"`
	ImageURLs []string    `json:"image_urls" validate:"omitempty,dive,url"`
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
}

func (h *JSONHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
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
	m, err := h.useCase.Get(r.Context(), id, caller)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, m.View())
}

func (h *JSONHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
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
	var req updateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	m, err := h.useCase.Update(r.Context(), id, caller, UpdateRequest{
		Text:      req.Text,
		ImageURLs: req.ImageURLs,
		RecipeIDs: req.RecipeIDs,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, m.View())
}

func (h *JSONHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
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

func (h *JSONHandler) ListRecipeMessages(w http.ResponseWriter, r *http.Request) {
	caller, err := api.Caller(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	recipeID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	msgs, err := h.useCase.ListWithRecipe(r.Context(), recipeID, caller)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	views := make([]View, len(msgs))
	for i, m := range msgs {
		views[i] = m.View()
	}
	api.WriteJSON(w, http.StatusOK, views)
}

func (h *JSONHandler) SetupJSONRoutes(r *mux.Router) {
	r.HandleFunc("/messages/{id}", h.GetMessage).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", h.UpdateMessage).Methods(http.MethodPatch)
	r.HandleFunc("/messages/{id}", h.DeleteMessage).Methods(http.MethodDelete)
	r.HandleFunc("/recipes/{id}/messages", h.ListRecipeMessages).Methods(http.MethodGet)
}
