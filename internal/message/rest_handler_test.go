package message

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social/internal/api"
	"social/internal/recipe"
)

func TestHandlerReadsAreLimitedToParticipants(t *testing.T) {
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	m := newRecipe(t, "", pasta)
	uc, _, recipes := newUseCase(m)
	recipes[pasta.ID] = pasta

	router := api.NewRouter(1000, 1000)
	NewJSONHandler(uc).SetupJSONRoutes(router)

	get := func(path string, caller uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if caller != uuid.Nil {
			req.Header.Set(api.UserIDHeader, caller.String())
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/messages/"+m.ID.String(), bob.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, m.ID, view.ID)

	assert.Equal(t, http.StatusForbidden, get("/messages/"+m.ID.String(), uuid.New()).Code)
	assert.Equal(t, http.StatusForbidden, get("/messages/"+m.ID.String(), uuid.Nil).Code)
	assert.Equal(t, http.StatusForbidden, get("/recipes/"+pasta.ID.String()+"/messages", uuid.Nil).Code)

	rec = get("/recipes/"+pasta.ID.String()+"/messages", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
