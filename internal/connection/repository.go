package connection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Connection, error)
	// GetByUsers finds the connection between a and b regardless of argument order.
	GetByUsers(ctx context.Context, a, b uuid.UUID) (*Connection, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error)
	Create(ctx context.Context, c *Connection) error
	Update(ctx context.Context, c *Connection) error
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

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Connection, error) {
	c, err := r.provider.ConnectionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", id, err)
	}
	return c, nil
}

func (r *repository) GetByUsers(ctx context.Context, a, b uuid.UUID) (*Connection, error) {
	return r.provider.ConnectionByUsers(ctx, a, b)
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	return r.provider.ConnectionsForUser(ctx, userID)
}

func (r *repository) Create(ctx context.Context, c *Connection) error {
	return infrastructure.TimeOperation(ctx, "connection.create", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.saver.SaveConnection(tx, c)
		})
	})
}

func (r *repository) Update(ctx context.Context, c *Connection) error {
	return infrastructure.TimeOperation(ctx, "connection.update", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.updater.UpdateConnection(tx, c)
		})
	})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return infrastructure.TimeOperation(ctx, "connection.delete", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.deleter.DeleteConnection(tx, id)
		})
	})
}
