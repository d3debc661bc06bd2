package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/recipe"
	"social/internal/user"
)

// Draft carries the raw inputs of a message about to be sent.
type Draft struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Sender         user.Account
	Text           string
	ImageURLs      []string
	Recipes        []recipe.Ref
	SentDate       time.Time
	RepliedTo      *Message
}

// HasContent reports whether the draft carries text, images or recipes.
func (d Draft) HasContent() bool {
	return strings.TrimSpace(d.Text) != "" || len(d.ImageURLs) > 0 || len(d.Recipes) > 0
}

// NewMessage picks the variant from the draft: images win over recipes, recipes over text.
// Drafts that carry both images and recipes must be rejected before reaching here.
func NewMessage(d Draft) (*Message, error) {
	if len(d.ImageURLs) > 0 && len(d.Recipes) > 0 {
		return nil, fmt.Errorf("%w: a message carries either images or recipes", infrastructure.ErrInvalidInput)
	}

	var content Content
	switch {
	case len(d.ImageURLs) > 0:
		content = &ImageContent{Text: d.Text, ImageURLs: append([]string(nil), d.ImageURLs...)}
	case len(d.Recipes) > 0:
		content = &RecipeContent{Text: d.Text, Recipes: append([]recipe.Ref(nil), d.Recipes...)}
	default:
		if strings.TrimSpace(d.Text) == "" {
			return nil, infrastructure.ErrCorruptedMessage
		}
		content = &TextContent{Text: d.Text}
	}

	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Message{
		ID:             id,
		ConversationID: d.ConversationID,
		Sender:         d.Sender,
		SentDate:       d.SentDate,
		RepliedTo:      d.RepliedTo,
		SeenBy:         []user.Account{d.Sender},
		Content:        content,
	}, nil
}
