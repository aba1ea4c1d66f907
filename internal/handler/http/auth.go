package http

import (
	"encoding/json"
	"net/http"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	user, token, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		log.Err(err).Msg("user registration failed")
		respondError(w, log, err)
		return
	}

	log.Info().Int64("id", user.UserID).Msg("user registered")

	utils.WriteJSON(w, models.AuthResponse{
		Success:     true,
		User:        user,
		AccessToken: token.SignedString,
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	user, token, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		log.Err(err).Msg("user login failed")
		respondError(w, log, err)
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	utils.WriteJSON(w, models.AuthResponse{
		Success:     true,
		User:        user,
		AccessToken: token.SignedString,
	}, http.StatusOK)
}

// me returns the account behind the authenticated token. Useful for
// clients restoring a session from a stored token.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	user, err := h.services.AuthService.GetUser(ctx, userID)
	if err != nil {
		log.Err(err).Msg("user lookup failed")
		respondError(w, log, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
