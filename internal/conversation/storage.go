package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"social/infrastructure"
)

// Record is the stored form of a conversation; the backing entity and messages live in
// their own tables.
type Record struct {
	ID            uuid.UUID
	ConnectionID  uuid.NullUUID
	GroupID       uuid.NullUUID
	LastMessageAt sql.NullTime
}

func recordOf(c *Conversation) Record {
	r := Record{ID: c.ID}
	if c.Connection != nil {
		r.ConnectionID = uuid.NullUUID{UUID: c.Connection.ID, Valid: true}
	}
	if c.Group != nil {
		r.GroupID = uuid.NullUUID{UUID: c.Group.ID, Valid: true}
	}
	if last := c.LastMessage(); last != nil {
		r.LastMessageAt = sql.NullTime{Time: last.SentDate, Valid: true}
	}
	return r
}

type Saver interface {
	SaveConversation(tx *sql.Tx, r Record) error
}

type Updater interface {
	UpdateConversation(tx *sql.Tx, r Record) error
}

type Provider interface {
	ConversationByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ConversationByConnection(ctx context.Context, connectionID uuid.UUID) (*Record, error)
	ConversationByGroup(ctx context.Context, groupID uuid.UUID) (*Record, error)
	ConversationsForUser(ctx context.Context, userID uuid.UUID) ([]Record, error)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) SaveConversation(tx *sql.Tx, r Record) error {
	_, err := tx.Exec(`
		INSERT INTO conversations (id, connection_id, group_id, last_message_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.ConnectionID, r.GroupID, r.LastMessageAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

func (s *PostgresStorage) UpdateConversation(tx *sql.Tx, r Record) error {
	res, err := tx.Exec(`UPDATE conversations SET last_message_at = $1 WHERE id = $2`, r.LastMessageAt, r.ID)
	if err != nil {
		return err
	}
	return infrastructure.RequireAffected(res, infrastructure.ErrConversationUpdateFailed)
}

const selectConversations = `SELECT cv.id, cv.connection_id, cv.group_id, cv.last_message_at FROM conversations cv`

func (s *PostgresStorage) ConversationByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.queryOne(ctx, selectConversations+` WHERE cv.id = $1`, id)
}

func (s *PostgresStorage) ConversationByConnection(ctx context.Context, connectionID uuid.UUID) (*Record, error) {
	return s.queryOne(ctx, selectConversations+` WHERE cv.connection_id = $1`, connectionID)
}

func (s *PostgresStorage) ConversationByGroup(ctx context.Context, groupID uuid.UUID) (*Record, error) {
	return s.queryOne(ctx, selectConversations+` WHERE cv.group_id = $1`, groupID)
}

func (s *PostgresStorage) ConversationsForUser(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectConversations+`
		LEFT JOIN connections c ON c.id = cv.connection_id
		WHERE c.account1_id = $1 OR c.account2_id = $1
			OR EXISTS (SELECT 1 FROM group_members gm WHERE gm.group_id = cv.group_id AND gm.user_id = $1)
		ORDER BY cv.last_message_at DESC NULLS LAST, cv.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.ConnectionID, &r.GroupID, &r.LastMessageAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) queryOne(ctx context.Context, query string, args ...any) (*Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.ConnectionID, &r.GroupID, &r.LastMessageAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, infrastructure.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return &r, nil
}
