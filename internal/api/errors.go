package api

import (
	"errors"
	"net/http"

	"social/infrastructure"
	"social/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

var statusByError = []struct {
	target error
	status int
}{
	{infrastructure.ErrUserNotFound, http.StatusNotFound},
	{infrastructure.ErrConnectionNotFound, http.StatusNotFound},
	{infrastructure.ErrGroupNotFound, http.StatusNotFound},
	{infrastructure.ErrConversationNotFound, http.StatusNotFound},
	{infrastructure.ErrMessageNotFound, http.StatusNotFound},
	{infrastructure.ErrRecipeNotFound, http.StatusNotFound},

	{infrastructure.ErrInvalidInput, http.StatusBadRequest},
	{infrastructure.ErrUnauthorized, http.StatusForbidden},
	{infrastructure.ErrConnectionExists, http.StatusConflict},

	{infrastructure.ErrUnsupportedConnectionStatus, http.StatusUnprocessableEntity},
	{infrastructure.ErrMalformedConversation, http.StatusUnprocessableEntity},
	{infrastructure.ErrCorruptedMessage, http.StatusUnprocessableEntity},
	{infrastructure.ErrTextMessageUpdateRejected, http.StatusUnprocessableEntity},
	{infrastructure.ErrImageMessageUpdateRejected, http.StatusUnprocessableEntity},
	{infrastructure.ErrRecipeMessageUpdateRejected, http.StatusUnprocessableEntity},
}

// StatusFor maps a domain error to an HTTP status code. Unknown errors are 500.
func StatusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON body. Internal errors are logged and hidden from the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = http.StatusText(status)
	}
	WriteJSON(w, status, errorResponse{Error: msg})
}
