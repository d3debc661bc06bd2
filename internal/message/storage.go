package message

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"social/infrastructure"
	"social/internal/recipe"
	"social/internal/user"
)

type Saver interface {
	SaveMessage(tx *sql.Tx, m *Message) error
}

type Updater interface {
	UpdateMessage(tx *sql.Tx, m *Message) error
}

type Deleter interface {
	DeleteMessage(tx *sql.Tx, id uuid.UUID) error
}

type Provider interface {
	MessageByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// MessagesByConversations returns messages in send order, keyed by conversation.
	MessagesByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*Message, error)
	MessagesWithRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Message, error)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) SaveMessage(tx *sql.Tx, m *Message) error {
	text, images, _ := columns(m)
	var repliedTo uuid.NullUUID
	if m.RepliedTo != nil {
		repliedTo = uuid.NullUUID{UUID: m.RepliedTo.ID, Valid: true}
	}

	if _, err := tx.Exec(`
		INSERT INTO messages (id, conversation_id, sender_id, content_type, text_content, image_urls, sent_date, updated_date, replied_to_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ConversationID, m.Sender.ID, string(m.Type()), text, pq.Array(images),
		m.SentDate, m.UpdatedDate, repliedTo); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if err := saveRecipes(tx, m); err != nil {
		return err
	}
	return saveSeenBy(tx, m)
}

// UpdateMessage rewrites the content of m and adds readers missing from message_seen_by.
// Stored readers are never removed. The content type never changes.
func (s *PostgresStorage) UpdateMessage(tx *sql.Tx, m *Message) error {
	text, images, _ := columns(m)
	res, err := tx.Exec(`
		UPDATE messages SET text_content = $1, image_urls = $2, updated_date = $3
		WHERE id = $4 AND content_type = $5`,
		text, pq.Array(images), m.UpdatedDate, m.ID, string(m.Type()))
	if err != nil {
		return err
	}
	if err := infrastructure.RequireAffected(res, infrastructure.ErrMessageUpdateFailed); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM message_recipes WHERE message_id = $1`, m.ID); err != nil {
		return err
	}
	if err := saveRecipes(tx, m); err != nil {
		return err
	}
	return addSeenBy(tx, m)
}

func (s *PostgresStorage) DeleteMessage(tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.Exec(`DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return infrastructure.RequireAffected(res, infrastructure.ErrMessageNotFound)
}

func columns(m *Message) (text sql.NullString, images []string, recipes []recipe.Ref) {
	switch c := m.Content.(type) {
	case *TextContent:
		text = sql.NullString{String: c.Text, Valid: true}
	case *ImageContent:
		text = sql.NullString{String: c.Text, Valid: c.Text != ""}
		images = c.ImageURLs
	case *RecipeContent:
		text = sql.NullString{String: c.Text, Valid: c.Text != ""}
		recipes = c.Recipes
	}
	return text, images, recipes
}

func saveRecipes(tx *sql.Tx, m *Message) error {
	_, _, recipes := columns(m)
	for i, r := range recipes {
		if _, err := tx.Exec(`INSERT INTO message_recipes (message_id, recipe_id, position) VALUES ($1, $2, $3)`,
			m.ID, r.ID, i); err != nil {
			return fmt.Errorf("failed to insert message recipe: %w", err)
		}
	}
	return nil
}

func saveSeenBy(tx *sql.Tx, m *Message) error {
	for i, a := range m.SeenBy {
		if _, err := tx.Exec(`INSERT INTO message_seen_by (message_id, user_id, position) VALUES ($1, $2, $3)`,
			m.ID, a.ID, i); err != nil {
			return fmt.Errorf("failed to insert seen-by: %w", err)
		}
	}
	return nil
}

// addSeenBy appends the readers of m that are not stored yet, after the stored ones.
func addSeenBy(tx *sql.Tx, m *Message) error {
	for _, a := range m.SeenBy {
		if _, err := tx.Exec(`
			INSERT INTO message_seen_by (message_id, user_id, position)
			SELECT $1, $2, COALESCE(MAX(position) + 1, 0) FROM message_seen_by WHERE message_id = $1
			ON CONFLICT (message_id, user_id) DO NOTHING`,
			m.ID, a.ID); err != nil {
			return fmt.Errorf("failed to insert seen-by: %w", err)
		}
	}
	return nil
}

var selectMessages = `
	SELECT m.id, m.conversation_id, m.content_type, m.text_content, m.image_urls,
		m.sent_date, m.updated_date, m.replied_to_id, ` + user.AccountColumns("u") + `
	FROM messages m
	JOIN users u ON u.id = m.sender_id`

func (s *PostgresStorage) MessageByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	msgs, err := s.query(ctx, true, selectMessages+` WHERE m.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: %s", infrastructure.ErrMessageNotFound, id)
	}
	return msgs[0], nil
}

func (s *PostgresStorage) MessagesByConversations(ctx context.Context, conversationIDs []uuid.UUID) (map[uuid.UUID][]*Message, error) {
	out := make(map[uuid.UUID][]*Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}
	msgs, err := s.query(ctx, true, selectMessages+`
		WHERE m.conversation_id = ANY($1::uuid[]) ORDER BY m.seq`, pq.Array(uuidStrings(conversationIDs)))
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		out[m.ConversationID] = append(out[m.ConversationID], m)
	}
	return out, nil
}

func (s *PostgresStorage) MessagesWithRecipe(ctx context.Context, recipeID uuid.UUID) ([]*Message, error) {
	return s.query(ctx, true, selectMessages+`
		WHERE EXISTS (SELECT 1 FROM message_recipes mr WHERE mr.message_id = m.id AND mr.recipe_id = $1)
		ORDER BY m.sent_date`, recipeID)
}

type messageRow struct {
	msg         Message
	contentType string
	text        sql.NullString
	images      pq.StringArray
	updated     sql.NullTime
	repliedTo   uuid.NullUUID
	sender      user.AccountRow
}

func (r *messageRow) dest() []any {
	return append([]any{
		&r.msg.ID, &r.msg.ConversationID, &r.contentType, &r.text, &r.images,
		&r.msg.SentDate, &r.updated, &r.repliedTo,
	}, r.sender.Dest()...)
}

// query loads messages with their recipes and seen-by lists. With replies set, replied-to
// messages are attached one level deep.
func (s *PostgresStorage) query(ctx context.Context, replies bool, query string, args ...any) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var (
		loaded []*messageRow
		byID   = make(map[uuid.UUID]*Message)
	)
	for rows.Next() {
		var row messageRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		row.msg.Sender = row.sender.Account()
		if row.updated.Valid {
			t := row.updated.Time
			row.msg.UpdatedDate = &t
		}
		loaded = append(loaded, &row)
		byID[row.msg.ID] = &row.msg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(loaded))
	for _, row := range loaded {
		ids = append(ids, row.msg.ID)
	}
	recipes, err := s.recipesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.attachSeenBy(ctx, byID, ids); err != nil {
		return nil, err
	}

	out := make([]*Message, 0, len(loaded))
	for _, row := range loaded {
		switch ContentType(row.contentType) {
		case ContentImage:
			row.msg.Content = &ImageContent{Text: row.text.String, ImageURLs: []string(row.images)}
		case ContentRecipe:
			row.msg.Content = &RecipeContent{Text: row.text.String, Recipes: recipes[row.msg.ID]}
		case ContentText:
			row.msg.Content = &TextContent{Text: row.text.String}
		default:
			return nil, fmt.Errorf("%w: message %s has content type %q", infrastructure.ErrCorruptedMessage, row.msg.ID, row.contentType)
		}
		out = append(out, &row.msg)
	}

	if replies {
		if err := s.attachReplies(ctx, loaded); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStorage) attachReplies(ctx context.Context, loaded []*messageRow) error {
	var missing []uuid.UUID
	for _, row := range loaded {
		if row.repliedTo.Valid {
			missing = append(missing, row.repliedTo.UUID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	parents, err := s.query(ctx, false, selectMessages+` WHERE m.id = ANY($1::uuid[])`, pq.Array(uuidStrings(missing)))
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*Message, len(parents))
	for _, p := range parents {
		byID[p.ID] = p
	}
	for _, row := range loaded {
		if row.repliedTo.Valid {
			row.msg.RepliedTo = byID[row.repliedTo.UUID]
		}
	}
	return nil
}

func (s *PostgresStorage) recipesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]recipe.Ref, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mr.message_id, r.id, r.title
		FROM message_recipes mr
		JOIN recipes r ON r.id = mr.recipe_id
		WHERE mr.message_id = ANY($1::uuid[])
		ORDER BY mr.message_id, mr.position`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to query message recipes: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]recipe.Ref)
	for rows.Next() {
		var (
			messageID uuid.UUID
			ref       recipe.Ref
		)
		if err := rows.Scan(&messageID, &ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		out[messageID] = append(out[messageID], ref)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) attachSeenBy(ctx context.Context, byID map[uuid.UUID]*Message, ids []uuid.UUID) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sb.message_id, `+user.AccountColumns("u")+`
		FROM message_seen_by sb
		JOIN users u ON u.id = sb.user_id
		WHERE sb.message_id = ANY($1::uuid[])
		ORDER BY sb.message_id, sb.position, sb.user_id`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return fmt.Errorf("failed to query seen-by: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			messageID uuid.UUID
			row       user.AccountRow
		)
		if err := rows.Scan(append([]any{&messageID}, row.Dest()...)...); err != nil {
			return err
		}
		if m, ok := byID[messageID]; ok {
			m.SeenBy = append(m.SeenBy, row.Account())
		}
	}
	return rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
