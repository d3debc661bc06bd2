package message

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social/infrastructure"
	"social/internal/recipe"
)

type memoryMessages struct {
	byID    map[uuid.UUID]*Message
	updates int
}

func (m *memoryMessages) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	msg, ok := m.byID[id]
	if !ok {
		return nil, infrastructure.ErrMessageNotFound
	}
	return msg, nil
}

func (m *memoryMessages) ListByConversations(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Message, error) {
	out := map[uuid.UUID][]*Message{}
	for _, msg := range m.byID {
		for _, id := range ids {
			if msg.ConversationID == id {
				out[id] = append(out[id], msg)
			}
		}
	}
	return out, nil
}

func (m *memoryMessages) ListWithRecipe(_ context.Context, recipeID uuid.UUID) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.byID {
		if c, ok := msg.Content.(*RecipeContent); ok {
			for _, r := range c.Recipes {
				if r.ID == recipeID {
					out = append(out, msg)
					break
				}
			}
		}
	}
	return out, nil
}

func (m *memoryMessages) Create(_ context.Context, msg *Message) error {
	m.byID[msg.ID] = msg
	return nil
}

func (m *memoryMessages) Update(ctx context.Context, msg *Message) error {
	return m.UpdateAll(ctx, []*Message{msg})
}

func (m *memoryMessages) UpdateAll(_ context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if _, ok := m.byID[msg.ID]; !ok {
			return infrastructure.ErrMessageUpdateFailed
		}
		m.updates++
	}
	return nil
}

func (m *memoryMessages) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return infrastructure.ErrMessageNotFound
	}
	delete(m.byID, id)
	return nil
}

type memoryRecipes map[uuid.UUID]recipe.Ref

func (m memoryRecipes) GetByID(_ context.Context, id uuid.UUID) (*recipe.Ref, error) {
	r, ok := m[id]
	if !ok {
		return nil, infrastructure.ErrRecipeNotFound
	}
	return &r, nil
}

func (m memoryRecipes) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*recipe.Ref, error) {
	var out []*recipe.Ref
	for _, id := range ids {
		if r, ok := m[id]; ok {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

// participants maps a conversation id to the users taking part in it.
type participants map[uuid.UUID][]uuid.UUID

func (p participants) CanRead(_ context.Context, conversationID, userID uuid.UUID) (bool, error) {
	return slices.Contains(p[conversationID], userID), nil
}

// newUseCase stores msgs in a conversation shared by alice and bob.
func newUseCase(msgs ...*Message) (*UseCase, *memoryMessages, memoryRecipes) {
	store := &memoryMessages{byID: map[uuid.UUID]*Message{}}
	for _, m := range msgs {
		store.byID[m.ID] = m
	}
	recipes := memoryRecipes{}
	access := participants{uuid.Nil: {alice.ID, bob.ID}}
	uc := NewUseCase(store, recipes, access)
	uc.now = func() time.Time { return edited }
	return uc, store, recipes
}

func TestUseCaseUpdateText(t *testing.T) {
	m := newText(t, "hello")
	uc, store, _ := newUseCase(m)

	got, err := uc.Update(context.Background(), m.ID, alice.ID, UpdateRequest{Text: ptr("hello!")})
	require.NoError(t, err)
	assert.Equal(t, "hello!", got.Text())
	assert.Equal(t, edited, *got.UpdatedDate)
	assert.Equal(t, 1, store.updates)
}

func TestUseCaseUpdateOnlyBySender(t *testing.T) {
	m := newText(t, "hello")
	uc, store, _ := newUseCase(m)

	_, err := uc.Update(context.Background(), m.ID, bob.ID, UpdateRequest{Text: ptr("hijacked")})
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
	assert.Equal(t, "hello", m.Text())
	assert.Zero(t, store.updates)
}

func TestUseCaseUpdateRecipeResolvesIDs(t *testing.T) {
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	soup := recipe.Ref{ID: uuid.New(), Title: "soup"}
	m := newRecipe(t, "", pasta)
	uc, store, recipes := newUseCase(m)
	recipes[soup.ID] = soup

	got, err := uc.Update(context.Background(), m.ID, alice.ID, UpdateRequest{RecipeIDs: []uuid.UUID{soup.ID}})
	require.NoError(t, err)
	assert.Equal(t, []recipe.Ref{pasta, soup}, got.Content.(*RecipeContent).Recipes)

	_, err = uc.Update(context.Background(), m.ID, alice.ID, UpdateRequest{RecipeIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, infrastructure.ErrRecipeMessageUpdateRejected)
	assert.Len(t, m.Content.(*RecipeContent).Recipes, 2)
	assert.Equal(t, 1, store.updates)
}

func TestUseCaseUpdateTextWithRecipesRejected(t *testing.T) {
	m := newText(t, "hello")
	uc, _, recipes := newUseCase(m)
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	recipes[pasta.ID] = pasta

	_, err := uc.Update(context.Background(), m.ID, alice.ID, UpdateRequest{RecipeIDs: []uuid.UUID{pasta.ID}})
	assert.ErrorIs(t, err, infrastructure.ErrTextMessageUpdateRejected)
	assert.Equal(t, ContentText, m.Type())
}

func TestUseCaseUpdateMissing(t *testing.T) {
	uc, _, _ := newUseCase()
	_, err := uc.Update(context.Background(), uuid.New(), alice.ID, UpdateRequest{Text: ptr("x")})
	assert.ErrorIs(t, err, infrastructure.ErrMessageNotFound)
}

func TestUseCaseDelete(t *testing.T) {
	m := newText(t, "hello")
	uc, store, _ := newUseCase(m)

	assert.ErrorIs(t, uc.Delete(context.Background(), m.ID, bob.ID), infrastructure.ErrUnauthorized)
	require.NoError(t, uc.Delete(context.Background(), m.ID, alice.ID))
	assert.Empty(t, store.byID)
}

func TestUseCaseListWithRecipe(t *testing.T) {
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	shared := newRecipe(t, "", pasta)
	uc, _, recipes := newUseCase(shared, newText(t, "unrelated"))

	_, err := uc.ListWithRecipe(context.Background(), pasta.ID, alice.ID)
	assert.ErrorIs(t, err, infrastructure.ErrRecipeNotFound)

	recipes[pasta.ID] = pasta
	msgs, err := uc.ListWithRecipe(context.Background(), pasta.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, shared.ID, msgs[0].ID)

	msgs, err = uc.ListWithRecipe(context.Background(), pasta.ID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, msgs, "messages of foreign conversations are hidden")
}

func TestUseCaseGetRequiresParticipant(t *testing.T) {
	m := newText(t, "hello")
	uc, _, _ := newUseCase(m)

	got, err := uc.Get(context.Background(), m.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = uc.Get(context.Background(), m.ID, uuid.New())
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)

	_, err = uc.Get(context.Background(), uuid.New(), bob.ID)
	assert.ErrorIs(t, err, infrastructure.ErrMessageNotFound)
}
