package group

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"social/internal/api"
	"social/internal/user"
)

type JSONHandler struct {
	useCase *UseCase
}

func NewJSONHandler(useCase *UseCase) *JSONHandler {
	return &JSONHandler{useCase: useCase}
}

type createRequest struct {
	Name        string      `json:"name" validate:"required,max=100"`
	Description string      `json:"description" validate:"max=500"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

type infoRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type membersRequest struct {
	MemberIDs []uuid.UUID `json:"member_ids" validate:"required"`
}

type infoResponse struct {
	Group   View `json:"group"`
	Changed bool `json:"changed"`
}

type membersResponse struct {
	Group   *View          `json:"group,omitempty"`
	Added   []user.Account `json:"added"`
	Removed []user.Account `json:"removed"`
	Deleted bool           `json:"deleted"`
}

func (h *JSONHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
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

	g, err := h.useCase.Create(r.Context(), caller, req.Name, req.Description, req.MemberIDs)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, g.View())
}

func (h *JSONHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
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
	g, err := h.useCase.Get(r.Context(), id, caller)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, g.View())
}

func (h *JSONHandler) ListUserGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := api.RequireCaller(r, userID); err != nil {
		api.WriteError(w, r, err)
		return
	}
	groups, err := h.useCase.ListForUser(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	views := make([]View, len(groups))
	for i, g := range groups {
		views[i] = g.View()
	}
	api.WriteJSON(w, http.StatusOK, views)
}

func (h *JSONHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
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
	var req infoRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	g, changed, err := h.useCase.UpdateInfo(r.Context(), id, caller, req.Name, req.Description)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, infoResponse{Group: g.View(), Changed: changed})
}

func (h *JSONHandler) UpdateMembers(w http.ResponseWriter, r *http.Request) {
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
	var req membersRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	res, err := h.useCase.UpdateMembers(r.Context(), id, caller, req.MemberIDs)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	out := membersResponse{Added: res.Added, Removed: res.Removed, Deleted: res.Deleted}
	if !res.Deleted {
		view := res.Group.View()
		out.Group = &view
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h *JSONHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
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
	r.HandleFunc("/groups", h.CreateGroup).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}", h.GetGroup).Methods(http.MethodGet)
	r.HandleFunc("/groups/{id}", h.UpdateGroup).Methods(http.MethodPut)
	r.HandleFunc("/groups/{id}", h.DeleteGroup).Methods(http.MethodDelete)
	r.HandleFunc("/groups/{id}/members", h.UpdateMembers).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}/groups", h.ListUserGroups).Methods(http.MethodGet)
}
