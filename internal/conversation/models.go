package conversation

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/connection"
	"social/internal/group"
	"social/internal/message"
	"social/internal/user"
)

type Kind string

const (
	KindConnection Kind = "Connection"
	KindGroup      Kind = "Group"
)

// Conversation is the message thread of exactly one connection or one group.
// Messages are kept in send order.
type Conversation struct {
	ID         uuid.UUID
	Connection *connection.Connection
	Group      *group.Group
	Messages   []*message.Message
}

func NewConnectionConversation(c *connection.Connection) (*Conversation, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no connection", infrastructure.ErrMalformedConversation)
	}
	return &Conversation{ID: uuid.New(), Connection: c}, nil
}

func NewGroupConversation(g *group.Group) (*Conversation, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: no group", infrastructure.ErrMalformedConversation)
	}
	return &Conversation{ID: uuid.New(), Group: g}, nil
}

// Validate checks that exactly one backing entity is set.
func (c *Conversation) Validate() error {
	if (c.Connection == nil) == (c.Group == nil) {
		return infrastructure.ErrMalformedConversation
	}
	return nil
}

func (c *Conversation) Kind() Kind {
	if c.Group != nil {
		return KindGroup
	}
	return KindConnection
}

// Participants returns the two connected accounts or the group members.
func (c *Conversation) Participants() []user.Account {
	switch {
	case c.Connection != nil:
		return c.Connection.Accounts()
	case c.Group != nil:
		return c.Group.Users
	}
	return nil
}

func (c *Conversation) Participant(id uuid.UUID) (user.Account, bool) {
	for _, a := range c.Participants() {
		if a.ID == id {
			return a, true
		}
	}
	return user.Account{}, false
}

func (c *Conversation) HasParticipant(id uuid.UUID) bool {
	_, ok := c.Participant(id)
	return ok
}

func (c *Conversation) Append(m *message.Message) {
	m.ConversationID = c.ID
	c.Messages = append(c.Messages, m)
}

func (c *Conversation) FindMessage(id uuid.UUID) *message.Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// LastMessage returns the message with the latest SentDate, or nil when there are none.
// Messages sent at the same instant are ordered by id, the greater id being later.
func (c *Conversation) LastMessage() *message.Message {
	var last *message.Message
	for _, m := range c.Messages {
		if last == nil || later(m, last) {
			last = m
		}
	}
	return last
}

func later(a, b *message.Message) bool {
	if !a.SentDate.Equal(b.SentDate) {
		return a.SentDate.After(b.SentDate)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// MarkAsRead adds a to the seen-by list of every message a has not seen and returns
// those messages. Running it again returns nothing.
func (c *Conversation) MarkAsRead(a user.Account) []*message.Message {
	var changed []*message.Message
	for _, m := range c.Messages {
		if m.MarkAsSeenBy(a) {
			changed = append(changed, m)
		}
	}
	return changed
}

func (c *Conversation) UnreadCount(userID uuid.UUID) int {
	n := 0
	for _, m := range c.Messages {
		if !m.IsSeenBy(userID) {
			n++
		}
	}
	return n
}

type View struct {
	ID             uuid.UUID     `json:"id"`
	Kind           Kind          `json:"kind"`
	ConnectionID   *uuid.UUID    `json:"connection_id,omitempty"`
	GroupID        *uuid.UUID    `json:"group_id,omitempty"`
	Title          string        `json:"title"`
	ParticipantIDs []uuid.UUID   `json:"participant_ids"`
	LastMessage    *message.View `json:"last_message,omitempty"`
	UnreadCount    int           `json:"unread_count"`
	MessageCount   int           `json:"message_count"`
}

type DetailView struct {
	View
	Messages []message.View `json:"messages"`
}

// View projects the conversation as seen by viewerID. Connection conversations are titled
// after the other party, group conversations after the group.
func (c *Conversation) View(viewerID uuid.UUID) View {
	participants := c.Participants()
	ids := make([]uuid.UUID, len(participants))
	for i, a := range participants {
		ids[i] = a.ID
	}

	v := View{
		ID:             c.ID,
		Kind:           c.Kind(),
		ParticipantIDs: ids,
		UnreadCount:    c.UnreadCount(viewerID),
		MessageCount:   len(c.Messages),
	}
	switch {
	case c.Connection != nil:
		id := c.Connection.ID
		v.ConnectionID = &id
		if other, ok := c.Connection.Other(viewerID); ok {
			v.Title = other.UserName
		}
	case c.Group != nil:
		id := c.Group.ID
		v.GroupID = &id
		v.Title = c.Group.Name
	}
	if last := c.LastMessage(); last != nil {
		lv := last.View()
		v.LastMessage = &lv
	}
	return v
}

func (c *Conversation) Detail(viewerID uuid.UUID) DetailView {
	msgs := make([]message.View, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = m.View()
	}
	return DetailView{View: c.View(viewerID), Messages: msgs}
}
