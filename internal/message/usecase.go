package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/logging"
	"social/internal/recipe"
)

// ConversationAccess reports whether a user takes part in a conversation.
type ConversationAccess interface {
	CanRead(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
}

type UseCase struct {
	messages Repository
	recipes  recipe.Provider
	access   ConversationAccess
	now      func() time.Time
}

func NewUseCase(messages Repository, recipes recipe.Provider, access ConversationAccess) *UseCase {
	return &UseCase{messages: messages, recipes: recipes, access: access, now: time.Now}
}

// Get returns message id if viewerID takes part in its conversation.
func (uc *UseCase) Get(ctx context.Context, id, viewerID uuid.UUID) (*Message, error) {
	m, err := uc.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := uc.access.CanRead(ctx, m.ConversationID, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot read message %s", infrastructure.ErrUnauthorized, viewerID, id)
	}
	return m, nil
}

// Update edits the content of message id. Only the sender may edit.
func (uc *UseCase) Update(ctx context.Context, id, editorID uuid.UUID, req UpdateRequest) (*Message, error) {
	m, err := uc.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Sender.ID != editorID {
		return nil, fmt.Errorf("%w: only the sender can edit message %s", infrastructure.ErrUnauthorized, id)
	}

	var recipes recipe.Set
	if m.Type() == ContentRecipe && len(req.RecipeIDs) > 0 {
		refs, err := uc.recipes.GetByIDs(ctx, req.RecipeIDs)
		if err != nil {
			return nil, err
		}
		recipes = recipe.NewSet(refs...)
	}

	if err := m.Update(req, recipes, uc.now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.messages.Update(ctx, m); err != nil {
		if errors.Is(err, infrastructure.ErrMessageUpdateFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", infrastructure.ErrMessageUpdateFailed, err)
	}

	logging.Ctx(ctx).Info().
		Str("message_id", m.ID.String()).
		Str("type", string(m.Type())).
		Msg("message updated")
	return m, nil
}

// Delete removes message id. Only the sender may delete.
func (uc *UseCase) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	m, err := uc.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Sender.ID != requesterID {
		return fmt.Errorf("%w: only the sender can delete message %s", infrastructure.ErrUnauthorized, id)
	}
	if err := uc.messages.Delete(ctx, id); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("message_id", id.String()).Msg("message deleted")
	return nil
}

// ListWithRecipe returns the messages sharing recipeID in conversations viewerID takes part in.
func (uc *UseCase) ListWithRecipe(ctx context.Context, recipeID, viewerID uuid.UUID) ([]*Message, error) {
	if _, err := uc.recipes.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	msgs, err := uc.messages.ListWithRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	readable := map[uuid.UUID]bool{}
	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		ok, seen := readable[m.ConversationID]
		if !seen {
			if ok, err = uc.access.CanRead(ctx, m.ConversationID, viewerID); err != nil {
				return nil, err
			}
			readable[m.ConversationID] = ok
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}
