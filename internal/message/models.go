package message

import (
	"time"

	"github.com/google/uuid"

	"social/internal/recipe"
	"social/internal/user"
)

type ContentType string

const (
	ContentText   ContentType = "Text"
	ContentImage  ContentType = "Image"
	ContentRecipe ContentType = "Recipe"
)

// Content is one of *TextContent, *ImageContent or *RecipeContent.
type Content interface {
	Type() ContentType
	sealed()
}

type TextContent struct {
	Text string
}

type ImageContent struct {
	Text      string
	ImageURLs []string
}

type RecipeContent struct {
	Text    string
	Recipes []recipe.Ref
}

func (*TextContent) Type() ContentType   { return ContentText }
func (*ImageContent) Type() ContentType  { return ContentImage }
func (*RecipeContent) Type() ContentType { return ContentRecipe }

func (*TextContent) sealed()   {}
func (*ImageContent) sealed()  {}
func (*RecipeContent) sealed() {}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Sender         user.Account
	SentDate       time.Time
	UpdatedDate    *time.Time
	// RepliedTo is loaded one level deep; its own RepliedTo is always nil.
	RepliedTo *Message
	// SeenBy keeps insertion order, the sender first.
	SeenBy  []user.Account
	Content Content
}

func (m *Message) Type() ContentType {
	return m.Content.Type()
}

// Text returns the text of any variant.
func (m *Message) Text() string {
	switch c := m.Content.(type) {
	case *TextContent:
		return c.Text
	case *ImageContent:
		return c.Text
	case *RecipeContent:
		return c.Text
	}
	return ""
}

// MarkAsSeenBy records that a has seen the message. It reports false when a already had.
func (m *Message) MarkAsSeenBy(a user.Account) bool {
	if m.IsSeenBy(a.ID) {
		return false
	}
	m.SeenBy = append(m.SeenBy, a)
	return true
}

func (m *Message) IsSeenBy(id uuid.UUID) bool {
	for _, a := range m.SeenBy {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (m *Message) SeenByIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(m.SeenBy))
	for i, a := range m.SeenBy {
		ids[i] = a.ID
	}
	return ids
}

// View is the serialized form of a message.
type View struct {
	ID             uuid.UUID    `json:"id"`
	ConversationID uuid.UUID    `json:"conversation_id"`
	Sender         user.Account `json:"sender"`
	Type           ContentType  `json:"type"`
	Text           string       `json:"text,omitempty"`
	ImageURLs      []string     `json:"image_urls,omitempty"`
	Recipes        []recipe.Ref `json:"recipes,omitempty"`
	SentDate       time.Time    `json:"sent_date"`
	UpdatedDate    *time.Time   `json:"updated_date,omitempty"`
	RepliedToID    *uuid.UUID   `json:"replied_to_id,omitempty"`
	SeenBy         []uuid.UUID  `json:"seen_by"`
}

func (m *Message) View() View {
	v := View{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         m.Sender,
		Type:           m.Type(),
		Text:           m.Text(),
		SentDate:       m.SentDate,
		UpdatedDate:    m.UpdatedDate,
		SeenBy:         m.SeenByIDs(),
	}
	switch c := m.Content.(type) {
	case *ImageContent:
		v.ImageURLs = append([]string(nil), c.ImageURLs...)
	case *RecipeContent:
		v.Recipes = append([]recipe.Ref(nil), c.Recipes...)
	}
	if m.RepliedTo != nil {
		id := m.RepliedTo.ID
		v.RepliedToID = &id
	}
	return v
}
