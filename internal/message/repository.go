package message

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	ListByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*Message, error)
	ListWithRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Message, error)
	Create(ctx context.Context, m *Message) error
	Update(ctx context.Context, m *Message) error
	// UpdateAll persists every message in one transaction.
	UpdateAll(ctx context.Context, msgs []*Message) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	*sql.DB
	saver    Saver
	updater  Updater
	deleter  Deleter
	provider Provider
}

func NewRepository(db *sql.DB, storage *PostgresStorage) Repository {
	return &repository{
		DB:       db,
		saver:    storage,
		updater:  storage,
		deleter:  storage,
		provider: storage,
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	return r.provider.MessageByID(ctx, id)
}

func (r *repository) ListByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*Message, error) {
	return r.provider.MessagesByConversations(ctx, conversationIDs)
}

func (r *repository) ListWithRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Message, error) {
	return r.provider.MessagesWithRecipe(ctx, recipeID)
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	return infrastructure.TimeOperation(ctx, "message.create", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.saver.SaveMessage(tx, m)
		})
	})
}

func (r *repository) Update(ctx context.Context, m *Message) error {
	return r.UpdateAll(ctx, []*Message{m})
}

func (r *repository) UpdateAll(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return infrastructure.TimeOperation(ctx, "message.update", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			for _, m := range msgs {
				if err := r.updater.UpdateMessage(tx, m); err != nil {
					return fmt.Errorf("message %s: %w", m.ID, err)
				}
			}
			return nil
		})
	})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return infrastructure.TimeOperation(ctx, "message.delete", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.deleter.DeleteMessage(tx, id)
		})
	})
}
