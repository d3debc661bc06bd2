package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error)
	Create(ctx context.Context, g *Group) error
	Update(ctx context.Context, g *Group) error
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

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	g, err := r.provider.GroupByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", id, err)
	}
	return g, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	return r.provider.GroupsForUser(ctx, userID)
}

func (r *repository) Create(ctx context.Context, g *Group) error {
	return infrastructure.TimeOperation(ctx, "group.create", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.saver.SaveGroup(tx, g)
		})
	})
}

func (r *repository) Update(ctx context.Context, g *Group) error {
	return infrastructure.TimeOperation(ctx, "group.update", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.updater.UpdateGroup(tx, g)
		})
	})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return infrastructure.TimeOperation(ctx, "group.delete", func() error {
		return infrastructure.WithTransaction(r.DB, ctx, func(tx *sql.Tx) error {
			return r.deleter.DeleteGroup(tx, id)
		})
	})
}
