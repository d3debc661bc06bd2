package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"social/infrastructure"
	"social/internal/user"
)

const uniqueViolation = "23505"

type Saver interface {
	SaveConnection(tx *sql.Tx, c *Connection) error
}

type Updater interface {
	UpdateConnection(tx *sql.Tx, c *Connection) error
}

type Deleter interface {
	DeleteConnection(tx *sql.Tx, id uuid.UUID) error
}

type Provider interface {
	ConnectionByID(ctx context.Context, id uuid.UUID) (*Connection, error)
	ConnectionByUsers(ctx context.Context, a, b uuid.UUID) (*Connection, error)
	ConnectionsForUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

var selectConnections = `
	SELECT c.id, c.status, ` + user.AccountColumns("a1") + `, ` + user.AccountColumns("a2") + `
	FROM connections c
	JOIN users a1 ON a1.id = c.account1_id
	JOIN users a2 ON a2.id = c.account2_id`

func (s *PostgresStorage) SaveConnection(tx *sql.Tx, c *Connection) error {
	_, err := tx.Exec(`
		INSERT INTO connections (id, account1_id, account2_id, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		c.ID, c.Account1.ID, c.Account2.ID, string(c.Status))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: between %s and %s", infrastructure.ErrConnectionExists, c.Account1.ID, c.Account2.ID)
	}
	return err
}

func (s *PostgresStorage) UpdateConnection(tx *sql.Tx, c *Connection) error {
	res, err := tx.Exec(`UPDATE connections SET status = $1, updated_at = NOW() WHERE id = $2`, string(c.Status), c.ID)
	if err != nil {
		return err
	}
	return infrastructure.RequireAffected(res, infrastructure.ErrConnectionUpdateFailed)
}

func (s *PostgresStorage) DeleteConnection(tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.Exec(`DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return infrastructure.RequireAffected(res, infrastructure.ErrConnectionNotFound)
}

func (s *PostgresStorage) ConnectionByID(ctx context.Context, id uuid.UUID) (*Connection, error) {
	return s.queryOne(ctx, selectConnections+` WHERE c.id = $1`, id)
}

func (s *PostgresStorage) ConnectionByUsers(ctx context.Context, a, b uuid.UUID) (*Connection, error) {
	return s.queryOne(ctx, selectConnections+`
		WHERE (c.account1_id = $1 AND c.account2_id = $2) OR (c.account1_id = $2 AND c.account2_id = $1)`, a, b)
}

func (s *PostgresStorage) ConnectionsForUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	rows, err := s.db.QueryContext(ctx, selectConnections+`
		WHERE c.account1_id = $1 OR c.account2_id = $1 ORDER BY c.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()

	var out []*Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) queryOne(ctx context.Context, query string, args ...any) (*Connection, error) {
	c, err := scanConnection(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, infrastructure.ErrConnectionNotFound
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(row scanner) (*Connection, error) {
	var (
		c      Connection
		status string
		a1, a2 user.AccountRow
	)
	dest := append([]any{&c.ID, &status}, a1.Dest()...)
	dest = append(dest, a2.Dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.Status = Status(status)
	c.Account1 = a1.Account()
	c.Account2 = a2.Account()
	return &c, nil
}
