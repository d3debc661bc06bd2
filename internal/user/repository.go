package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// GetByIDs returns the accounts that exist; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Account, error)
}

type repository struct {
	provider Provider
}

func NewRepository(provider Provider) Repository {
	return &repository{provider: provider}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := r.provider.AccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", infrastructure.ErrUserNotFound, id)
	}
	return account, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.provider.AccountsByIDs(ctx, ids)
}
