package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"social/infrastructure"
)

type Provider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Ref, error)
	// GetByIDs returns the recipes that exist; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Ref, error)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) GetByID(ctx context.Context, id uuid.UUID) (*Ref, error) {
	var ref Ref
	err := s.db.QueryRowContext(ctx, `SELECT id, title FROM recipes WHERE id = $1`, id).Scan(&ref.ID, &ref.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", infrastructure.ErrRecipeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	return &ref, nil
}

func (s *PostgresStorage) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Ref, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM recipes WHERE id = ANY($1::uuid[])`, pq.Array(strs))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var refs []*Ref
	for rows.Next() {
		var ref Ref
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, &ref)
	}
	return refs, rows.Err()
}
