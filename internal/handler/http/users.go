package http

import (
	"encoding/json"
	"net/http"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/models"
)

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	user, err := h.services.UserService.Profile(ctx, userID)
	if err != nil {
		log.Err(err).Msg("profile lookup failed")
		respondError(w, log, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	var req models.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	prefs, err := h.services.UserService.UpdatePreferences(ctx, userID, req)
	if err != nil {
		log.Err(err).Msg("preference update failed")
		respondError(w, log, err)
		return
	}

	utils.WriteJSON(w, prefs, http.StatusOK)
}
