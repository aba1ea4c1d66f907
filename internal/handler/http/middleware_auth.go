package http

import (
	"context"
	"net/http"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/models"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [service.AuthService.ValidateToken], and on success stores
// the authenticated user's ID in the request context under
// [utils.UserIDCtxKey] before delegating to the next handler.
//
// Requests are rejected with HTTP 401 Unauthorized when the header is
// absent, when it cannot be parsed as a bearer token, or when the token is
// expired or otherwise invalid.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteJSON(w, models.APIError{
				Message: ErrEmptyAuthorizationHeader.Error(),
				Code:    "UNAUTHORIZED",
			}, http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteJSON(w, models.APIError{
				Message: ErrInvalidAuthorizationHeader.Error(),
				Code:    "UNAUTHORIZED",
			}, http.StatusUnauthorized)
			return
		}

		token, err := h.services.AuthService.ValidateToken(tokenString)
		if err != nil {
			log.Err(err).Msg("token validation failed")
			utils.WriteJSON(w, models.APIError{
				Message: http.StatusText(http.StatusUnauthorized),
				Code:    "UNAUTHORIZED",
			}, http.StatusUnauthorized)
			return
		}

		// Store the authenticated user's ID in the context so that downstream
		// handlers can retrieve it without re-parsing the token.
		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
