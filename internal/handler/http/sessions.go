package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/internal/validators"
	"github.com/speakai-app/speakai-server/models"
)

const (
	// maxUploadBytes bounds the whole multipart request body. Slightly above
	// the audio cap so that an oversized file still reaches the validator
	// and produces its specific error instead of a generic body-limit one.
	maxUploadBytes = 11 << 20

	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	summary, err := h.services.SessionService.Start(ctx, userID, req)
	if err != nil {
		log.Err(err).Msg("session start failed")
		respondError(w, log, err)
		return
	}

	log.Info().Str("session_id", summary.SessionID).Str("level", string(summary.Level)).Msg("session started")

	utils.WriteJSON(w, summary, http.StatusCreated)
}

func (h *Handler) uploadSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Err(err).Msg("failed to parse multipart form")
		respondError(w, log, validators.ErrAudioTooLarge)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		log.Err(err).Msg("audio file part is missing")
		respondError(w, log, validators.ErrNoAudio)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Msg("failed to read audio file part")
		respondError(w, log, err)
		return
	}

	// Duration is client-measured; the service clamps it to a sane range.
	duration, _ := strconv.Atoi(r.FormValue("duration"))

	result, err := h.services.SessionService.Upload(ctx, userID, sessionID, audio, header.Header.Get("Content-Type"), duration)
	if err != nil {
		log.Err(err).Str("session_id", sessionID).Msg("session upload failed")
		respondError(w, log, err)
		return
	}

	log.Info().
		Str("session_id", sessionID).
		Int("overall_score", result.OverallScore).
		Int("new_achievements", len(result.NewAchievements)).
		Msg("session completed")

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) recentSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in context")
		respondError(w, log, nil)
		return
	}

	limit := defaultRecentLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			respondBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	summaries, err := h.services.SessionService.Recent(ctx, userID, limit)
	if err != nil {
		log.Err(err).Msg("recent sessions lookup failed")
		respondError(w, log, err)
		return
	}

	utils.WriteJSON(w, summaries, http.StatusOK)
}
