package group

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

type Saver interface {
	SaveGroup(tx *sql.Tx, g *Group) error
}

type Updater interface {
	UpdateGroup(tx *sql.Tx, g *Group) error
}

type Deleter interface {
	DeleteGroup(tx *sql.Tx, id uuid.UUID) error
}

type Provider interface {
	GroupByID(ctx context.Context, id uuid.UUID) (*Group, error)
	GroupsForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) SaveGroup(tx *sql.Tx, g *Group) error {
	if _, err := tx.Exec(`
		INSERT INTO groups (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())`,
		g.ID, g.Name, g.Description); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return saveMembers(tx, g)
}

// UpdateGroup rewrites the group row and its whole member list.
func (s *PostgresStorage) UpdateGroup(tx *sql.Tx, g *Group) error {
	res, err := tx.Exec(`UPDATE groups SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		g.Name, g.Description, g.ID)
	if err != nil {
		return err
	}
	if err := infrastructure.RequireAffected(res, infrastructure.ErrGroupUpdateFailed); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM group_members WHERE group_id = $1`, g.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	return saveMembers(tx, g)
}

func (s *PostgresStorage) DeleteGroup(tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.Exec(`DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return infrastructure.RequireAffected(res, infrastructure.ErrGroupNotFound)
}

func saveMembers(tx *sql.Tx, g *Group) error {
	stmt, err := tx.Prepare(`INSERT INTO group_members (group_id, user_id, position) VALUES ($1, $2, $3)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range g.Users {
		if _, err := stmt.Exec(g.ID, u.ID, i); err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

func (s *PostgresStorage) GroupByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	var g Group
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, infrastructure.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}

	if err := s.loadMembers(ctx, map[uuid.UUID]*Group{g.ID: &g}); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStorage) GroupsForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	byID := make(map[uuid.UUID]*Group)
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
		byID[g.ID] = &g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return groups, s.loadMembers(ctx, byID)
}

func (s *PostgresStorage) loadMembers(ctx context.Context, groups map[uuid.UUID]*Group) error {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id.String())
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT gm.group_id, `+user.AccountColumns("u")+`
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ANY($1::uuid[])
		ORDER BY gm.group_id, gm.position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			groupID uuid.UUID
			row     user.AccountRow
		)
		if err := rows.Scan(append([]any{&groupID}, row.Dest()...)...); err != nil {
			return err
		}
		if g, ok := groups[groupID]; ok {
			g.Users = append(g.Users, row.Account())
		}
	}
	return rows.Err()
}
