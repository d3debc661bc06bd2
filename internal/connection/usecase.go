package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/logging"
	"social/internal/user"
)

// ConversationStarter opens the conversation that belongs to a new connection.
type ConversationStarter interface {
	StartConnectionConversation(ctx context.Context, c *Connection) error
}

type UseCase struct {
	connections   Repository
	users         user.Repository
	conversations ConversationStarter
}

func NewUseCase(connections Repository, users user.Repository, conversations ConversationStarter) *UseCase {
	return &UseCase{connections: connections, users: users, conversations: conversations}
}

// Create connects requester with other. The new connection is Pending and comes with an
// empty conversation.
func (uc *UseCase) Create(ctx context.Context, requesterID, otherID uuid.UUID) (*Connection, error) {
	requester, err := uc.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	other, err := uc.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	c, err := New(*requester, *other)
	if err != nil {
		return nil, err
	}

	switch _, err := uc.connections.GetByUsers(ctx, requesterID, otherID); {
	case err == nil:
		return nil, fmt.Errorf("%w: between %s and %s", infrastructure.ErrConnectionExists, requesterID, otherID)
	case !errors.Is(err, infrastructure.ErrConnectionNotFound):
		return nil, err
	}

	if err := uc.connections.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := uc.conversations.StartConnectionConversation(ctx, c); err != nil {
		if delErr := uc.connections.Delete(ctx, c.ID); delErr != nil {
			logging.Ctx(ctx).Error().Err(delErr).Str("connection_id", c.ID.String()).Msg("failed to remove connection without conversation")
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("connection_id", c.ID.String()).
		Str("account1", requesterID.String()).
		Str("account2", otherID.String()).
		Msg("connection created")
	return c, nil
}

// Get returns connection id if viewerID is one of its accounts.
func (uc *UseCase) Get(ctx context.Context, id, viewerID uuid.UUID) (*Connection, error) {
	c, err := uc.connections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Involves(viewerID) {
		return nil, fmt.Errorf("%w: %s is not part of connection %s", infrastructure.ErrUnauthorized, viewerID, id)
	}
	return c, nil
}

// ListForUser returns the connections of userID. A non-empty status narrows the result.
func (uc *UseCase) ListForUser(ctx context.Context, userID uuid.UUID, status string) ([]*Connection, error) {
	var filter Status
	if status != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	all, err := uc.connections.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return all, nil
	}

	out := make([]*Connection, 0, len(all))
	for _, c := range all {
		if c.Status == filter {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpdateStatus moves connection id to status on behalf of actorID, who must be one of the
// two parties. Nothing is written when the status is unchanged.
func (uc *UseCase) UpdateStatus(ctx context.Context, id, actorID uuid.UUID, status string) (*Connection, bool, error) {
	c, err := uc.connections.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !c.Involves(actorID) {
		return nil, false, fmt.Errorf("%w: %s is not part of connection %s", infrastructure.ErrUnauthorized, actorID, id)
	}

	previous := c.Status
	changed, err := c.SetStatus(status)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return c, false, nil
	}

	if err := uc.connections.Update(ctx, c); err != nil {
		if errors.Is(err, infrastructure.ErrConnectionUpdateFailed) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("%w: %v", infrastructure.ErrConnectionUpdateFailed, err)
	}

	logging.Ctx(ctx).Info().
		Str("connection_id", c.ID.String()).
		Str("from", string(previous)).
		Str("to", string(c.Status)).
		Msg("connection status changed")
	return c, true, nil
}

// Delete removes the connection together with its conversation.
func (uc *UseCase) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	c, err := uc.connections.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.Involves(actorID) {
		return fmt.Errorf("%w: %s is not part of connection %s", infrastructure.ErrUnauthorized, actorID, id)
	}
	if err := uc.connections.Delete(ctx, id); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("connection_id", id.String()).Msg("connection deleted")
	return nil
}
