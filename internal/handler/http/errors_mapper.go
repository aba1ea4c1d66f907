package http

import (
	"errors"
	"net/http"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/service"
	"github.com/speakai-app/speakai-server/internal/store"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/internal/validators"
	"github.com/speakai-app/speakai-server/models"
)

// errorResponse pairs an HTTP status with the stable machine-readable code
// clients branch on.
type errorResponse struct {
	status int
	code   string
}

var errorResponseMap = map[error]errorResponse{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, "VALIDATION_ERROR"},
	service.ErrWrongPassword:       {http.StatusUnauthorized, "INVALID_CREDENTIALS"},

	validators.ErrInvalidLevel:        {http.StatusBadRequest, "VALIDATION_ERROR"},
	validators.ErrInvalidPracticeType: {http.StatusBadRequest, "VALIDATION_ERROR"},
	validators.ErrEmptyName:           {http.StatusBadRequest, "VALIDATION_ERROR"},
	validators.ErrInvalidEmail:        {http.StatusBadRequest, "VALIDATION_ERROR"},
	validators.ErrPasswordTooWeak:     {http.StatusBadRequest, "VALIDATION_ERROR"},
	validators.ErrNoAudio:             {http.StatusBadRequest, "NO_AUDIO"},
	validators.ErrAudioTooLarge:       {http.StatusBadRequest, "AUDIO_TOO_LARGE"},
	validators.ErrUnsupportedFormat:   {http.StatusBadRequest, "UNSUPPORTED_FORMAT"},

	store.ErrEmailAlreadyExists:     {http.StatusConflict, "EMAIL_ALREADY_EXISTS"},
	store.ErrNoUserWasFound:         {http.StatusNotFound, "USER_NOT_FOUND"},
	store.ErrSessionNotFound:        {http.StatusNotFound, "SESSION_NOT_FOUND"},
	store.ErrActiveSessionExists:    {http.StatusConflict, "ACTIVE_SESSION_EXISTS"},
	store.ErrSessionAlreadyFinished: {http.StatusConflict, "SESSION_ALREADY_FINISHED"},
}

// respondError resolves err against the sentinel map and writes the JSON
// error envelope. Unmapped errors become an opaque 500 so that driver
// details never leak to clients.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	for target, resp := range errorResponseMap {
		if errors.Is(err, target) {
			utils.WriteJSON(w, models.APIError{Message: target.Error(), Code: resp.code}, resp.status)
			return
		}
	}

	log.Err(err).Msg("unexpected error while handling request")
	utils.WriteJSON(w, models.APIError{
		Message: http.StatusText(http.StatusInternalServerError),
		Code:    "INTERNAL_ERROR",
	}, http.StatusInternalServerError)
}

// respondBadRequest writes a 400 envelope with a fixed message, used for
// malformed payloads before any service call happens.
func respondBadRequest(w http.ResponseWriter, message string) {
	utils.WriteJSON(w, models.APIError{Message: message, Code: "VALIDATION_ERROR"}, http.StatusBadRequest)
}
