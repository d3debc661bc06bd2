package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social/infrastructure"
	"social/internal/connection"
	"social/internal/group"
	"social/internal/message"
	"social/internal/recipe"
	"social/internal/user"
)

type memoryUsers map[uuid.UUID]user.Account

func (m memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*user.Account, error) {
	a, ok := m[id]
	if !ok {
		return nil, infrastructure.ErrUserNotFound
	}
	return &a, nil
}

func (m memoryUsers) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*user.Account, error) {
	var out []*user.Account
	for _, id := range ids {
		if a, ok := m[id]; ok {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

type memoryRecipes map[uuid.UUID]recipe.Ref

func (m memoryRecipes) GetByID(_ context.Context, id uuid.UUID) (*recipe.Ref, error) {
	r, ok := m[id]
	if !ok {
		return nil, infrastructure.ErrRecipeNotFound
	}
	return &r, nil
}

func (m memoryRecipes) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*recipe.Ref, error) {
	var out []*recipe.Ref
	for _, id := range ids {
		if r, ok := m[id]; ok {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

// store keeps every entity in memory. Conversations share message pointers with the
// message table the way a reload from storage would observe them.
type store struct {
	connections   map[uuid.UUID]*connection.Connection
	groups        map[uuid.UUID]*group.Group
	conversations map[uuid.UUID]*Conversation
	messages      map[uuid.UUID]*message.Message
	order         []uuid.UUID
	seenWrites    int
	updateErr     error
}

func newStore() *store {
	return &store{
		connections:   map[uuid.UUID]*connection.Connection{},
		groups:        map[uuid.UUID]*group.Group{},
		conversations: map[uuid.UUID]*Conversation{},
		messages:      map[uuid.UUID]*message.Message{},
	}
}

type conversationRepo struct{ *store }

func (r conversationRepo) load(c *Conversation) *Conversation {
	out := &Conversation{ID: c.ID, Connection: c.Connection, Group: c.Group}
	for _, id := range r.order {
		if m := r.messages[id]; m != nil && m.ConversationID == c.ID {
			out.Messages = append(out.Messages, m)
		}
	}
	return out
}

func (r conversationRepo) GetByID(_ context.Context, id uuid.UUID) (*Conversation, error) {
	c, ok := r.conversations[id]
	if !ok {
		return nil, infrastructure.ErrConversationNotFound
	}
	return r.load(c), nil
}

func (r conversationRepo) GetByConnection(_ context.Context, id uuid.UUID) (*Conversation, error) {
	for _, c := range r.conversations {
		if c.Connection != nil && c.Connection.ID == id {
			return r.load(c), nil
		}
	}
	return nil, infrastructure.ErrConversationNotFound
}

func (r conversationRepo) GetByGroup(_ context.Context, id uuid.UUID) (*Conversation, error) {
	for _, c := range r.conversations {
		if c.Group != nil && c.Group.ID == id {
			return r.load(c), nil
		}
	}
	return nil, infrastructure.ErrConversationNotFound
}

func (r conversationRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*Conversation, error) {
	var out []*Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			out = append(out, r.load(c))
		}
	}
	return out, nil
}

func (r conversationRepo) Create(_ context.Context, c *Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.conversations[c.ID] = &Conversation{ID: c.ID, Connection: c.Connection, Group: c.Group}
	return nil
}

func (r conversationRepo) Update(_ context.Context, c *Conversation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.conversations[c.ID]; !ok {
		return infrastructure.ErrConversationUpdateFailed
	}
	return nil
}

type connectionRepo struct{ *store }

func (r connectionRepo) GetByID(_ context.Context, id uuid.UUID) (*connection.Connection, error) {
	c, ok := r.connections[id]
	if !ok {
		return nil, infrastructure.ErrConnectionNotFound
	}
	return c, nil
}

func (r connectionRepo) GetByUsers(_ context.Context, a, b uuid.UUID) (*connection.Connection, error) {
	for _, c := range r.connections {
		if c.Matches(a, b) {
			return c, nil
		}
	}
	return nil, infrastructure.ErrConnectionNotFound
}

func (r connectionRepo) ListForUser(context.Context, uuid.UUID) ([]*connection.Connection, error) {
	return nil, nil
}

func (r connectionRepo) Create(_ context.Context, c *connection.Connection) error {
	r.connections[c.ID] = c
	return nil
}

func (r connectionRepo) Update(context.Context, *connection.Connection) error { return nil }

func (r connectionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.connections, id)
	return nil
}

type groupRepo struct{ *store }

func (r groupRepo) GetByID(_ context.Context, id uuid.UUID) (*group.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, infrastructure.ErrGroupNotFound
	}
	return g, nil
}

func (r groupRepo) ListForUser(context.Context, uuid.UUID) ([]*group.Group, error) { return nil, nil }

func (r groupRepo) Create(_ context.Context, g *group.Group) error {
	r.groups[g.ID] = g
	return nil
}

func (r groupRepo) Update(context.Context, *group.Group) error { return nil }

func (r groupRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.groups, id)
	return nil
}

type messageRepo struct{ *store }

func (r messageRepo) GetByID(_ context.Context, id uuid.UUID) (*message.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, infrastructure.ErrMessageNotFound
	}
	return m, nil
}

func (r messageRepo) ListByConversations(context.Context, []uuid.UUID) (map[uuid.UUID][]*message.Message, error) {
	return nil, nil
}

func (r messageRepo) ListWithRecipe(context.Context, uuid.UUID) ([]*message.Message, error) {
	return nil, nil
}

func (r messageRepo) Create(_ context.Context, m *message.Message) error {
	r.messages[m.ID] = m
	r.store.order = append(r.store.order, m.ID)
	return nil
}

func (r messageRepo) Update(ctx context.Context, m *message.Message) error {
	return r.UpdateAll(ctx, []*message.Message{m})
}

func (r messageRepo) UpdateAll(_ context.Context, msgs []*message.Message) error {
	r.store.seenWrites += len(msgs)
	return nil
}

func (r messageRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.messages, id)
	return nil
}

type fixture struct {
	*store
	useCase *UseCase
	recipes memoryRecipes
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newStore()
	f := &fixture{store: s, recipes: memoryRecipes{}, clock: t0}
	f.useCase = NewUseCase(
		conversationRepo{s},
		connectionRepo{s},
		groupRepo{s},
		messageRepo{s},
		memoryUsers{u1.ID: u1, u2.ID: u2, u3.ID: u3},
		f.recipes,
	)
	f.useCase.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func (f *fixture) connect(t *testing.T, a, b user.Account) *connection.Connection {
	t.Helper()
	c, err := connection.New(a, b)
	require.NoError(t, err)
	f.connections[c.ID] = c
	require.NoError(t, f.useCase.StartConnectionConversation(context.Background(), c))
	return c
}

func TestSendAndMarkAsRead(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, u1, u2)
	ctx := context.Background()

	m, err := f.useCase.Send(ctx, SendRequest{ConnectionID: c.ID, SenderID: u1.ID, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, message.ContentText, m.Type())
	assert.Equal(t, []uuid.UUID{u1.ID}, m.SeenByIDs())

	conv, err := conversationRepo{f.store}.GetByConnection(ctx, c.ID)
	require.NoError(t, err)

	n, err := f.useCase.MarkAsRead(ctx, conv.ID, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uuid.UUID{u1.ID, u2.ID}, f.messages[m.ID].SeenByIDs())
	assert.Equal(t, 1, f.seenWrites)

	n, err = f.useCase.MarkAsRead(ctx, conv.ID, u2.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, f.seenWrites, "already read conversation writes nothing")
}

func TestSendValidatesContent(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, u1, u2)
	ctx := context.Background()

	_, err := f.useCase.Send(ctx, SendRequest{ConnectionID: c.ID, SenderID: u1.ID, Text: "  "})
	assert.ErrorIs(t, err, infrastructure.ErrCorruptedMessage)

	_, err = f.useCase.Send(ctx, SendRequest{
		ConnectionID: c.ID,
		SenderID:     u1.ID,
		ImageURLs:    []string{"https://img/1.png"},
		RecipeIDs:    []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	_, err = f.useCase.Send(ctx, SendRequest{SenderID: u1.ID, Text: "nowhere"})
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)

	assert.Empty(t, f.messages)
}

func TestSendRequiresParticipant(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, u1, u2)

	_, err := f.useCase.Send(context.Background(), SendRequest{ConnectionID: c.ID, SenderID: u3.ID, Text: "hi"})
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
}

func TestSendRecipeAndImage(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, u1, u2)
	pasta := recipe.Ref{ID: uuid.New(), Title: "pasta"}
	f.recipes[pasta.ID] = pasta
	ctx := context.Background()

	m, err := f.useCase.Send(ctx, SendRequest{ConnectionID: c.ID, SenderID: u2.ID, RecipeIDs: []uuid.UUID{pasta.ID}})
	require.NoError(t, err)
	assert.Equal(t, message.ContentRecipe, m.Type())
	assert.Equal(t, []recipe.Ref{pasta}, m.Content.(*message.RecipeContent).Recipes)

	m, err = f.useCase.Send(ctx, SendRequest{ConnectionID: c.ID, SenderID: u2.ID, ImageURLs: []string{"https://img/1.png"}})
	require.NoError(t, err)
	assert.Equal(t, message.ContentImage, m.Type())

	_, err = f.useCase.Send(ctx, SendRequest{ConnectionID: c.ID, SenderID: u2.ID, RecipeIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, infrastructure.ErrRecipeNotFound)
}

func TestSendReply(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, u1, u2)
	ctx := context.Background()

	q, err := f.useCase.Send(ctx, SendRequest{ConnectionID: c.ID, SenderID: u1.ID, Text: "dinner?"})
	require.NoError(t, err)

	a, err := f.useCase.Send(ctx, SendRequest{ConversationID: q.ConversationID, SenderID: u2.ID, Text: "yes", RepliedToID: &q.ID})
	require.NoError(t, err)
	require.NotNil(t, a.RepliedTo)
	assert.Equal(t, q.ID, a.RepliedTo.ID)

	other := f.connect(t, u1, u3)
	missing := uuid.New()
	_, err = f.useCase.Send(ctx, SendRequest{ConnectionID: other.ID, SenderID: u1.ID, Text: "x", RepliedToID: &q.ID})
	assert.ErrorIs(t, err, infrastructure.ErrMessageNotFound)
	_, err = f.useCase.Send(ctx, SendRequest{ConnectionID: other.ID, SenderID: u1.ID, Text: "x", RepliedToID: &missing})
	assert.ErrorIs(t, err, infrastructure.ErrMessageNotFound)
}

func TestSendCreatesMissingGroupConversation(t *testing.T) {
	f := newFixture(t)
	g := group.New("friends", "", []user.Account{u1, u2, u3})
	f.groups[g.ID] = g

	m, err := f.useCase.Send(context.Background(), SendRequest{GroupID: g.ID, SenderID: u3.ID, Text: "hi all"})
	require.NoError(t, err)

	conv, err := conversationRepo{f.store}.GetByGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, m.ConversationID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, KindGroup, conv.Kind())
}

func TestSendOutsiderDoesNotCreateConversation(t *testing.T) {
	f := newFixture(t)
	g := group.New("friends", "", []user.Account{u1, u2})
	f.groups[g.ID] = g

	_, err := f.useCase.Send(context.Background(), SendRequest{GroupID: g.ID, SenderID: u3.ID, Text: "let me in"})
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
	assert.Empty(t, f.conversations)
}

func TestSendUnresolvedContentDoesNotCreateConversation(t *testing.T) {
	f := newFixture(t)
	g := group.New("friends", "", []user.Account{u1, u2})
	f.groups[g.ID] = g
	ctx := context.Background()

	_, err := f.useCase.Send(ctx, SendRequest{GroupID: g.ID, SenderID: u1.ID, RecipeIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, infrastructure.ErrRecipeNotFound)
	missing := uuid.New()
	_, err = f.useCase.Send(ctx, SendRequest{GroupID: g.ID, SenderID: u1.ID, Text: "re", RepliedToID: &missing})
	assert.ErrorIs(t, err, infrastructure.ErrMessageNotFound)

	assert.Empty(t, f.conversations)
	assert.Empty(t, f.messages)
}

func TestSendKeepsMessageWhenLastMessageTimeFails(t *testing.T) {
	f := newFixture(t)
	c := f.connect(t, u1, u2)
	f.updateErr = infrastructure.ErrConversationUpdateFailed

	m, err := f.useCase.Send(context.Background(), SendRequest{ConnectionID: c.ID, SenderID: u1.ID, Text: "hello"})
	require.NoError(t, err)
	assert.Contains(t, f.messages, m.ID)
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quiet := f.connect(t, u1, u3)
	busy := f.connect(t, u1, u2)
	g := group.New("friends", "", []user.Account{u1, u2})
	f.groups[g.ID] = g
	require.NoError(t, f.useCase.StartGroupConversation(ctx, g))

	_, err := f.useCase.Send(ctx, SendRequest{GroupID: g.ID, SenderID: u2.ID, Text: "first"})
	require.NoError(t, err)
	_, err = f.useCase.Send(ctx, SendRequest{ConnectionID: busy.ID, SenderID: u2.ID, Text: "latest"})
	require.NoError(t, err)

	convs, err := f.useCase.ListForUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, busy.ID, convs[0].Connection.ID)
	assert.Equal(t, g.ID, convs[1].Group.ID)
	assert.Equal(t, quiet.ID, convs[2].Connection.ID)

	_, err = f.useCase.ListForUser(ctx, uuid.New())
	assert.ErrorIs(t, err, infrastructure.ErrUserNotFound)

	_, err = f.useCase.Get(ctx, convs[0].ID, u3.ID)
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
	got, err := f.useCase.Get(ctx, convs[0].ID, u2.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)

	ok, err := f.useCase.CanRead(ctx, convs[0].ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.useCase.CanRead(ctx, convs[0].ID, u3.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
