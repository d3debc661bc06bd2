package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/recipe"
)

// UpdateRequest is an edit of message content. A nil Text leaves the text alone.
type UpdateRequest struct {
	Text      *string
	ImageURLs []string
	RecipeIDs []uuid.UUID
}

// UpdateRejectedError explains why an edit did not apply. It matches the
// infrastructure sentinel of its variant with errors.Is.
type UpdateRejectedError struct {
	Type   ContentType
	Reason string
}

func (e *UpdateRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Unwrap(), e.Reason)
}

func (e *UpdateRejectedError) Unwrap() error {
	switch e.Type {
	case ContentImage:
		return infrastructure.ErrImageMessageUpdateRejected
	case ContentRecipe:
		return infrastructure.ErrRecipeMessageUpdateRejected
	default:
		return infrastructure.ErrTextMessageUpdateRejected
	}
}

func rejected(t ContentType, format string, args ...any) error {
	return &UpdateRejectedError{Type: t, Reason: fmt.Sprintf(format, args...)}
}

// Update applies req to the content of m. Each variant only accepts edits on its own
// content: text replaces text, images and recipes are appended. Recipe ids are looked up
// in recipes. On error m is left as it was.
func (m *Message) Update(req UpdateRequest, recipes recipe.Set, now time.Time) error {
	switch c := m.Content.(type) {
	case *TextContent:
		if err := c.update(req); err != nil {
			return err
		}
	case *ImageContent:
		if err := c.update(req); err != nil {
			return err
		}
	case *RecipeContent:
		if err := c.update(req, recipes); err != nil {
			return err
		}
	default:
		return infrastructure.ErrCorruptedMessage
	}
	m.UpdatedDate = &now
	return nil
}

func (c *TextContent) update(req UpdateRequest) error {
	switch {
	case len(req.ImageURLs) > 0:
		return rejected(ContentText, "images cannot be added to a text message")
	case len(req.RecipeIDs) > 0:
		return rejected(ContentText, "recipes cannot be added to a text message")
	case req.Text == nil:
		return rejected(ContentText, "no new text")
	case strings.TrimSpace(*req.Text) == "":
		return rejected(ContentText, "text cannot be empty")
	case *req.Text == c.Text:
		return rejected(ContentText, "text is unchanged")
	}
	c.Text = *req.Text
	return nil
}

func (c *ImageContent) update(req UpdateRequest) error {
	if len(req.RecipeIDs) > 0 {
		return rejected(ContentImage, "recipes cannot be added to an image message")
	}
	textChanged := req.Text != nil && *req.Text != c.Text
	if !textChanged && len(req.ImageURLs) == 0 {
		return rejected(ContentImage, "nothing to update")
	}
	if textChanged {
		c.Text = *req.Text
	}
	c.ImageURLs = append(c.ImageURLs, req.ImageURLs...)
	return nil
}

func (c *RecipeContent) update(req UpdateRequest, recipes recipe.Set) error {
	if len(req.ImageURLs) > 0 {
		return rejected(ContentRecipe, "images cannot be added to a recipe message")
	}
	textChanged := req.Text != nil && *req.Text != c.Text
	if !textChanged && len(req.RecipeIDs) == 0 {
		return rejected(ContentRecipe, "nothing to update")
	}
	added, missing, ok := recipes.Resolve(req.RecipeIDs)
	if !ok {
		return rejected(ContentRecipe, "recipe %s not found", missing)
	}
	if textChanged {
		c.Text = *req.Text
	}
	c.Recipes = append(c.Recipes, added...)
	return nil
}
