package conversation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/connection"
	"social/internal/group"
	"social/internal/logging"
	"social/internal/message"
	"social/internal/recipe"
	"social/internal/user"
)

type UseCase struct {
	conversations Repository
	connections   connection.Repository
	groups        group.Repository
	messages      message.Repository
	users         user.Repository
	recipes       recipe.Provider
	now           func() time.Time
}

func NewUseCase(
	conversations Repository,
	connections connection.Repository,
	groups group.Repository,
	messages message.Repository,
	users user.Repository,
	recipes recipe.Provider,
) *UseCase {
	return &UseCase{
		conversations: conversations,
		connections:   connections,
		groups:        groups,
		messages:      messages,
		users:         users,
		recipes:       recipes,
		now:           time.Now,
	}
}

// SendRequest addresses a message to exactly one of a conversation, a connection or a group.
type SendRequest struct {
	ConversationID uuid.UUID
	ConnectionID   uuid.UUID
	GroupID        uuid.UUID

	SenderID    uuid.UUID
	Text        string
	ImageURLs   []string
	RecipeIDs   []uuid.UUID
	RepliedToID *uuid.UUID
}

func (r SendRequest) targets() int {
	n := 0
	for _, id := range []uuid.UUID{r.ConversationID, r.ConnectionID, r.GroupID} {
		if id != uuid.Nil {
			n++
		}
	}
	return n
}

func (uc *UseCase) StartConnectionConversation(ctx context.Context, c *connection.Connection) error {
	conv, err := NewConnectionConversation(c)
	if err != nil {
		return err
	}
	return uc.conversations.Create(ctx, conv)
}

func (uc *UseCase) StartGroupConversation(ctx context.Context, g *group.Group) error {
	conv, err := NewGroupConversation(g)
	if err != nil {
		return err
	}
	return uc.conversations.Create(ctx, conv)
}

// Get returns conversation id if viewerID takes part in it.
func (uc *UseCase) Get(ctx context.Context, id, viewerID uuid.UUID) (*Conversation, error) {
	conv, err := uc.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(viewerID) {
		return nil, fmt.Errorf("%w: %s is not part of conversation %s", infrastructure.ErrUnauthorized, viewerID, id)
	}
	return conv, nil
}

// CanRead reports whether userID takes part in conversation id.
func (uc *UseCase) CanRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	conv, err := uc.conversations.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return conv.HasParticipant(userID), nil
}

// ListForUser returns the conversations of userID, most recent activity first. Conversations
// without messages come last.
func (uc *UseCase) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	convs, err := uc.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(convs, func(a, b *Conversation) int {
		la, lb := a.LastMessage(), b.LastMessage()
		switch {
		case la == nil && lb == nil:
			return 0
		case la == nil:
			return 1
		case lb == nil:
			return -1
		}
		return lb.SentDate.Compare(la.SentDate)
	})
	return convs, nil
}

// Send creates a message from req. The conversation of a connection or group is created
// on first use when it does not exist yet.
func (uc *UseCase) Send(ctx context.Context, req SendRequest) (*message.Message, error) {
	if req.targets() != 1 {
		return nil, fmt.Errorf("%w: exactly one of conversation, connection or group is required", infrastructure.ErrInvalidInput)
	}
	if len(req.ImageURLs) > 0 && len(req.RecipeIDs) > 0 {
		return nil, fmt.Errorf("%w: a message carries either images or recipes", infrastructure.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Text) == "" && len(req.ImageURLs) == 0 && len(req.RecipeIDs) == 0 {
		return nil, infrastructure.ErrCorruptedMessage
	}

	conv, created, err := uc.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	sender, ok := conv.Participant(req.SenderID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not part of conversation %s", infrastructure.ErrUnauthorized, req.SenderID, conv.ID)
	}
	var recipes []recipe.Ref
	if len(req.RecipeIDs) > 0 {
		found, err := uc.recipes.GetByIDs(ctx, req.RecipeIDs)
		if err != nil {
			return nil, err
		}
		refs, missing, ok := recipe.NewSet(found...).Resolve(req.RecipeIDs)
		if !ok {
			return nil, fmt.Errorf("%w: %s", infrastructure.ErrRecipeNotFound, missing)
		}
		recipes = refs
	}

	var repliedTo *message.Message
	if req.RepliedToID != nil {
		repliedTo = conv.FindMessage(*req.RepliedToID)
		if repliedTo == nil {
			return nil, fmt.Errorf("%w: %s in conversation %s", infrastructure.ErrMessageNotFound, *req.RepliedToID, conv.ID)
		}
	}

	m, err := message.NewMessage(message.Draft{
		ConversationID: conv.ID,
		Sender:         sender,
		Text:           req.Text,
		ImageURLs:      req.ImageURLs,
		Recipes:        recipes,
		SentDate:       uc.now().UTC(),
		RepliedTo:      repliedTo,
	})
	if err != nil {
		return nil, err
	}

	if created {
		if err := uc.conversations.Create(ctx, conv); err != nil {
			return nil, err
		}
	}
	if err := uc.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	conv.Append(m)
	// The message is stored at this point. last_message_at only orders listings and is
	// rewritten by the next send.
	if err := uc.conversations.Update(ctx, conv); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("conversation_id", conv.ID.String()).
			Msg("last message time not updated")
	}

	logging.Ctx(ctx).Info().
		Str("conversation_id", conv.ID.String()).
		Str("message_id", m.ID.String()).
		Str("type", string(m.Type())).
		Msg("message sent")
	return m, nil
}

// MarkAsRead marks every message of conversation id as seen by userID and returns how many
// messages changed.
func (uc *UseCase) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (int, error) {
	conv, err := uc.conversations.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	reader, ok := conv.Participant(userID)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not part of conversation %s", infrastructure.ErrUnauthorized, userID, id)
	}

	changed := conv.MarkAsRead(reader)
	if len(changed) == 0 {
		return 0, nil
	}
	if err := uc.messages.UpdateAll(ctx, changed); err != nil {
		if errors.Is(err, infrastructure.ErrMessageUpdateFailed) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", infrastructure.ErrMessageUpdateFailed, err)
	}

	logging.Ctx(ctx).Debug().
		Str("conversation_id", id.String()).
		Int("messages", len(changed)).
		Msg("conversation marked as read")
	return len(changed), nil
}

// resolve finds the target conversation. created is set when the connection or group has
// no conversation yet and a new, unsaved one was built.
func (uc *UseCase) resolve(ctx context.Context, req SendRequest) (conv *Conversation, created bool, err error) {
	switch {
	case req.ConversationID != uuid.Nil:
		conv, err = uc.conversations.GetByID(ctx, req.ConversationID)
		return conv, false, err

	case req.ConnectionID != uuid.Nil:
		conv, err = uc.conversations.GetByConnection(ctx, req.ConnectionID)
		if !errors.Is(err, infrastructure.ErrConversationNotFound) {
			return conv, false, err
		}
		c, err := uc.connections.GetByID(ctx, req.ConnectionID)
		if err != nil {
			return nil, false, err
		}
		conv, err = NewConnectionConversation(c)
		return conv, err == nil, err

	default:
		conv, err = uc.conversations.GetByGroup(ctx, req.GroupID)
		if !errors.Is(err, infrastructure.ErrConversationNotFound) {
			return conv, false, err
		}
		g, err := uc.groups.GetByID(ctx, req.GroupID)
		if err != nil {
			return nil, false, err
		}
		conv, err = NewGroupConversation(g)
		return conv, err == nil, err
	}
}
