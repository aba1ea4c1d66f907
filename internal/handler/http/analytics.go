package http

import (
	"net/http"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/utils"
)

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	report, err := h.services.UserService.Analytics(ctx, userID)
	if err != nil {
		log.Err(err).Msg("analytics lookup failed")
		respondError(w, log, err)
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}
