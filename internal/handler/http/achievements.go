package http

import (
	"net/http"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/utils"
)

func (h *Handler) achievements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	statuses, err := h.services.UserService.Achievements(ctx, userID)
	if err != nil {
		log.Err(err).Msg("achievement list lookup failed")
		respondError(w, log, err)
		return
	}

	utils.WriteJSON(w, statuses, http.StatusOK)
}
