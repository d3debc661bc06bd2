package message

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social/infrastructure"
	"social/internal/recipe"
)

var edited = sent.Add(time.Hour)

func ptr(s string) *string { return &s }

func newText(t *testing.T, text string) *Message {
	t.Helper()
	m, err := NewMessage(Draft{Sender: alice, Text: text, SentDate: sent})
	require.NoError(t, err)
	return m
}

func newImage(t *testing.T, text string, urls ...string) *Message {
	t.Helper()
	m, err := NewMessage(Draft{Sender: alice, Text: text, ImageURLs: urls, SentDate: sent})
	require.NoError(t, err)
	return m
}

func newRecipe(t *testing.T, text string, refs ...recipe.Ref) *Message {
	t.Helper()
	m, err := NewMessage(Draft{Sender: alice, Text: text, Recipes: refs, SentDate: sent})
	require.NoError(t, err)
	return m
}

func TestTextUpdate(t *testing.T) {
	m := newText(t, "hello")
	require.NoError(t, m.Update(UpdateRequest{Text: ptr("hello there")}, nil, edited))

	assert.Equal(t, "hello there", m.Text())
	require.NotNil(t, m.UpdatedDate)
	assert.Equal(t, edited, *m.UpdatedDate)
}

func TestTextUpdateRejected(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateRequest
	}{
		{"images", UpdateRequest{Text: ptr("new"), ImageURLs: []string{"https://img/1.png"}}},
		{"recipes", UpdateRequest{RecipeIDs: []uuid.UUID{uuid.New()}}},
		{"no text", UpdateRequest{}},
		{"same text", UpdateRequest{Text: ptr("hello")}},
		{"empty text", UpdateRequest{Text: ptr("")}},
		{"blank text", UpdateRequest{Text: ptr("   ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newText(t, "hello")
			err := m.Update(tt.req, nil, edited)

			assert.ErrorIs(t, err, infrastructure.ErrTextMessageUpdateRejected)
			var rejectedErr *UpdateRejectedError
			require.True(t, errors.As(err, &rejectedErr))
			assert.NotEmpty(t, rejectedErr.Reason)

			assert.Equal(t, ContentText, m.Type())
			assert.Equal(t, "hello", m.Text())
			assert.Nil(t, m.UpdatedDate)
		})
	}
}

func TestImageUpdateAppends(t *testing.T) {
	m := newImage(t, "look", "https://img/1.png")
	require.NoError(t, m.Update(UpdateRequest{ImageURLs: []string{"https://img/2.png"}}, nil, edited))

	content := m.Content.(*ImageContent)
	assert.Equal(t, []string{"https://img/1.png", "https://img/2.png"}, content.ImageURLs)
	assert.Equal(t, "look", content.Text)
}

func TestImageUpdateClearsText(t *testing.T) {
	m := newImage(t, "look", "https://img/1.png")
	require.NoError(t, m.Update(UpdateRequest{Text: ptr("")}, nil, edited))
	assert.Equal(t, "", m.Text())
	assert.Len(t, m.Content.(*ImageContent).ImageURLs, 1)
}

func TestImageUpdateRejected(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateRequest
	}{
		{"recipes", UpdateRequest{Text: ptr("new"), RecipeIDs: []uuid.UUID{uuid.New()}}},
		{"nothing", UpdateRequest{}},
		{"same text", UpdateRequest{Text: ptr("look")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newImage(t, "look", "https://img/1.png")
			err := m.Update(tt.req, nil, edited)

			assert.ErrorIs(t, err, infrastructure.ErrImageMessageUpdateRejected)
			assert.Equal(t, []string{"https://img/1.png"}, m.Content.(*ImageContent).ImageURLs)
			assert.Equal(t, "look", m.Text())
			assert.Nil(t, m.UpdatedDate)
		})
	}
}

func TestRecipeUpdateAppendsResolved(t *testing.T) {
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	soup := recipe.Ref{ID: uuid.New(), Title: "soup"}
	m := newRecipe(t, "", pasta)

	require.NoError(t, m.Update(UpdateRequest{RecipeIDs: []uuid.UUID{soup.ID}}, recipe.NewSet(&soup), edited))
	assert.Equal(t, []recipe.Ref{pasta, soup}, m.Content.(*RecipeContent).Recipes)
}

func TestRecipeUpdateRejected(t *testing.T) {
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	soup := recipe.Ref{ID: uuid.New(), Title: "soup"}

	tests := []struct {
		name string
		req  UpdateRequest
	}{
		{"images", UpdateRequest{ImageURLs: []string{"https://img/1.png"}}},
		{"nothing", UpdateRequest{}},
		{"same text", UpdateRequest{Text: ptr("try")}},
		{"unknown recipe", UpdateRequest{Text: ptr("new"), RecipeIDs: []uuid.UUID{soup.ID, uuid.New()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newRecipe(t, "try", pasta)
			err := m.Update(tt.req, recipe.NewSet(&soup), edited)

			assert.ErrorIs(t, err, infrastructure.ErrRecipeMessageUpdateRejected)
			assert.Equal(t, []recipe.Ref{pasta}, m.Content.(*RecipeContent).Recipes)
			assert.Equal(t, "try", m.Text())
			assert.Nil(t, m.UpdatedDate)
		})
	}
}

func TestUpdateRejectedErrorMessage(t *testing.T) {
	err := &UpdateRejectedError{Type: ContentImage, Reason: "nothing to update"}
	assert.Equal(t, "image message update rejected: nothing to update", err.Error())
}
