package conversation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/connection"
	"social/internal/group"
	"social/internal/message"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	GetByConnection(ctx context.Context, connectionID uuid.UUID) (*Conversation, error)
	GetByGroup(ctx context.Context, groupID uuid.UUID) (*Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error)
	Create(ctx context.Context, c *Conversation) error
	// Update stores the latest message time used to order conversations.
	Update(ctx context.Context, c *Conversation) error
}

// repository assembles conversations from their record, the backing connection or group,
// and the message history.
type repository struct {
	*sql.DB
	saver       Saver
	updater     Updater
	provider    Provider
	connections connection.Repository
	groups      group.Repository
	messages    message.Repository
}

func NewRepository(
	db *sql.DB,
	storage *PostgresStorage,
	connections connection.Repository,
	groups group.Repository,
	messages message.Repository,
) Repository {
	return &repository{
		DB:          db,
		saver:       storage,
		updater:     storage,
		provider:    storage,
		connections: connections,
		groups:      groups,
		messages:    messages,
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	rec, err := r.provider.ConversationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.assembleOne(ctx, rec)
}

func (r *repository) GetByConnection(ctx context.Context, connectionID uuid.UUID) (*Conversation, error) {
	rec, err := r.provider.ConversationByConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return r.assembleOne(ctx, rec)
}

func (r *repository) GetByGroup(ctx context.Context, groupID uuid.UUID) (*Conversation, error) {
	rec, err := r.provider.ConversationByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return r.assembleOne(ctx, rec)
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	recs, err := r.provider.ConversationsForUser(ctx, userID)
	if err != nil || len(recs) == 0 {
		return nil, err
	}

	connections, err := r.connections.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := r.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	connectionsByID := make(map[uuid.UUID]*connection.Connection, len(connections))
	for _, c := range connections {
		connectionsByID[c.ID] = c
	}
	groupsByID := make(map[uuid.UUID]*group.Group, len(groups))
	for _, g := range groups {
		groupsByID[g.ID] = g
	}

	out := make([]*Conversation, 0, len(recs))
	for _, rec := range recs {
		c := &Conversation{ID: rec.ID}
		if rec.ConnectionID.Valid {
			c.Connection = connectionsByID[rec.ConnectionID.UUID]
		}
		if rec.GroupID.Valid {
			c.Group = groupsByID[rec.GroupID.UUID]
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("conversation %s: %w", rec.ID, err)
		}
		out = append(out, c)
	}
	return out, r.attachMessages(ctx, out...)
}

func (r *repository) Create(ctx context.Context, c *Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return infrastructure.TimeOperation(ctx, "conversation.create", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.saver.SaveConversation(tx, recordOf(c))
		})
	})
}

func (r *repository) Update(ctx context.Context, c *Conversation) error {
	return infrastructure.TimeOperation(ctx, "conversation.update", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.updater.UpdateConversation(tx, recordOf(c))
		})
	})
}

func (r *repository) assembleOne(ctx context.Context, rec *Record) (*Conversation, error) {
	c := &Conversation{ID: rec.ID}
	switch {
	case rec.ConnectionID.Valid && !rec.GroupID.Valid:
		conn, err := r.connections.GetByID(ctx, rec.ConnectionID.UUID)
		if err != nil {
			return nil, err
		}
		c.Connection = conn
	case rec.GroupID.Valid && !rec.ConnectionID.Valid:
		g, err := r.groups.GetByID(ctx, rec.GroupID.UUID)
		if err != nil {
			return nil, err
		}
		c.Group = g
	default:
		return nil, fmt.Errorf("conversation %s: %w", rec.ID, infrastructure.ErrMalformedConversation)
	}
	if err := r.attachMessages(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) attachMessages(ctx context.Context, convs ...*Conversation) error {
	ids := make([]uuid.UUID, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	byConversation, err := r.messages.ListByConversations(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range convs {
		c.Messages = byConversation[c.ID]
	}
	return nil
}
