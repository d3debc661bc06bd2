package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Provider interface {
	AccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	AccountsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Account, error)
}

// AccountColumns lists the users columns in the order AccountRow scans them.
func AccountColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.user_name, %[1]s.profile_image_id", alias)
}

// AccountRow scans the columns produced by AccountColumns.
type AccountRow struct {
	ID             uuid.UUID
	UserName       string
	ProfileImageID uuid.NullUUID
}

func (r *AccountRow) Dest() []any {
	return []any{&r.ID, &r.UserName, &r.ProfileImageID}
}

func (r *AccountRow) Account() Account {
	a := Account{ID: r.ID, UserName: r.UserName}
	if r.ProfileImageID.Valid {
		id := r.ProfileImageID.UUID
		a.ProfileImageID = &id
	}
	return a
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) AccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var row AccountRow
	err := s.db.QueryRowContext(ctx,
		"SELECT "+AccountColumns("u")+" FROM users u WHERE u.id = $1", id,
	).Scan(row.Dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	a := row.Account()
	return &a, nil
}

func (s *PostgresStorage) AccountsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+AccountColumns("u")+" FROM users u WHERE u.id = ANY($1::uuid[])", pq.Array(uuidStrings(ids)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var row AccountRow
		if err := rows.Scan(row.Dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		a := row.Account()
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
