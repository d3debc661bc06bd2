package infrastructure

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrRecipeNotFound       = errors.New("recipe not found")

	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConnectionExists = errors.New("connection already exists")

	ErrUnsupportedConnectionStatus = errors.New("unsupported connection status")
	ErrMalformedConversation       = errors.New("conversation must be bound to exactly one of connection or group")
	ErrCorruptedMessage            = errors.New("message has no content")

	ErrTextMessageUpdateRejected   = errors.New("text message update rejected")
	ErrImageMessageUpdateRejected  = errors.New("image message update rejected")
	ErrRecipeMessageUpdateRejected = errors.New("recipe message update rejected")

	// Persistence reported that the write did not apply to an existing row.
	ErrGroupUpdateFailed        = errors.New("group update failed")
	ErrConnectionUpdateFailed   = errors.New("connection update failed")
	ErrMessageUpdateFailed      = errors.New("message update failed")
	ErrConversationUpdateFailed = errors.New("conversation update failed")
)
