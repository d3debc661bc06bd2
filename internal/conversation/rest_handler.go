package conversation

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

type sendRequest struct {
	Text        string      `json:"text" validate:"max=4000"`
	ImageURLs   []string    `json:"image_urls" validate:"omitempty,dive,url"`
	RecipeIDs   []uuid.UUID `json:"recipe_ids"`
	RepliedToID *uuid.UUID  `json:"replied_to_id"`
}

type readResponse struct {
	Marked int `json:"marked"`
}

func (h *JSONHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
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
	conv, err := h.useCase.Get(r.Context(), id, caller)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, conv.Detail(caller))
}

func (h *JSONHandler) ListUserConversations(w http.ResponseWriter, r *http.Request) {
	userID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := api.RequireCaller(r, userID); err != nil {
		api.WriteError(w, r, err)
		return
	}
	convs, err := h.useCase.ListForUser(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	views := make([]View, len(convs))
	for i, c := range convs {
		views[i] = c.View(userID)
	}
	api.WriteJSON(w, http.StatusOK, views)
}

// sendTo builds a handler that posts to the conversation, connection or group named by the
// route id, as chosen by target.
func (h *JSONHandler) sendTo(target func(req *SendRequest, id uuid.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		var body sendRequest
		if err := api.DecodeJSON(r, &body); err != nil {
			api.WriteError(w, r, err)
			return
		}

		req := SendRequest{
			SenderID:    caller,
			Text:        body.Text,
			ImageURLs:   body.ImageURLs,
			RecipeIDs:   body.RecipeIDs,
			RepliedToID: body.RepliedToID,
		}
		target(&req, id)

		m, err := h.useCase.Send(r.Context(), req)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, m.View())
	}
}

func (h *JSONHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
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
	n, err := h.useCase.MarkAsRead(r.Context(), id, caller)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, readResponse{Marked: n})
}

func (h *JSONHandler) SetupJSONRoutes(r *mux.Router) {
	r.HandleFunc("/conversations/{id}", h.GetConversation).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{id}/read", h.MarkAsRead).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/conversations", h.ListUserConversations).Methods(http.MethodGet)

	r.HandleFunc("/conversations/{id}/messages",
		h.sendTo(func(req *SendRequest, id uuid.UUID) { req.ConversationID = id })).Methods(http.MethodPost)
	r.HandleFunc("/connections/{id}/messages",
		h.sendTo(func(req *SendRequest, id uuid.UUID) { req.ConnectionID = id })).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}/messages",
		h.sendTo(func(req *SendRequest, id uuid.UUID) { req.GroupID = id })).Methods(http.MethodPost)
}
