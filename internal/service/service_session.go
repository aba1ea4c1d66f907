package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/speakai-app/speakai-server/internal/achievements"
	"github.com/speakai-app/speakai-server/internal/analysis"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/scoring"
	"github.com/speakai-app/speakai-server/internal/store"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/internal/validators"
	"github.com/speakai-app/speakai-server/models"
)

// maxSessionDuration caps the client-reported recording length in seconds.
// Values outside [0, maxSessionDuration] are clamped silently.
const maxSessionDuration = 3600

// degradedWarning is surfaced in the upload response when the configured
// provider failed and synthetic metrics were used instead.
const degradedWarning = "analysis service unavailable, results are approximate"

// sessionService implements SessionService. It owns the session lifecycle:
// started → recording → analyzing → completed | failed, with at most one
// non-terminal session per user.
//
// Concurrency: a per-user mutex guards the state transition windows. It is
// deliberately not held across the provider call, so one user's slow
// analysis cannot block their other requests longer than a transition
// takes, and different users never contend.
type sessionService struct {
	sessionRepository store.SessionRepository
	userRepository    store.UserRepository

	provider analysis.Provider
	fallback analysis.Provider

	evaluator *achievements.Evaluator
	registry  *achievements.Registry

	audioValidator *validators.AudioValidator

	progression ProgressionEngine
	locks       *userLocks
	uuid        utils.UUIDGenerator

	analysisTimeout time.Duration

	logger *logger.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(
	sessionRepository store.SessionRepository,
	userRepository store.UserRepository,
	provider analysis.Provider,
	fallback analysis.Provider,
	evaluator *achievements.Evaluator,
	registry *achievements.Registry,
	audioValidator *validators.AudioValidator,
	analysisTimeout time.Duration,
	logger *logger.Logger,
) SessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		userRepository:    userRepository,
		provider:          provider,
		fallback:          fallback,
		evaluator:         evaluator,
		registry:          registry,
		audioValidator:    audioValidator,
		locks:             newUserLocks(),
		analysisTimeout:   analysisTimeout,
		logger:            logger,
	}
}

// Start creates a new practice session. The single-active-session rule is
// enforced by the storage layer: a second concurrent start for the same
// user surfaces store.ErrActiveSessionExists no matter how the calls
// interleave.
func (s *sessionService) Start(ctx context.Context, userID int64, req models.StartSessionRequest) (models.SessionSummary, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidateStartSessionRequest(req); err != nil {
		return models.SessionSummary{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	practiceType := req.PracticeType
	if practiceType == "" {
		practiceType = models.PracticeFreestyle
	}

	session := models.Session{
		SessionID:    s.uuid.Generate(),
		UserID:       userID,
		Level:        req.Level,
		PracticeType: practiceType,
		Status:       models.StatusStarted,
		StartedAt:    time.Now(),
	}

	s.locks.Lock(userID)
	created, err := s.sessionRepository.CreateSession(ctx, session)
	s.locks.Unlock(userID)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("session creation ended with error")
		return models.SessionSummary{}, fmt.Errorf("session creation ended with error: %w", err)
	}

	log.Info().
		Str("sessionID", created.SessionID).
		Int64("userID", userID).
		Str("level", string(created.Level)).
		Msg("session started")

	return summarize(created), nil
}

// Upload runs the full analysis pipeline for a pre-upload session:
//
//  1. validate the audio against size and format rules;
//  2. under the user lock, transition the session to analyzing;
//  3. call the provider under the configured timeout, falling back to
//     synthetic metrics on failure;
//  4. score the report;
//  5. under the user lock again, apply progression and achievements and
//     commit session, user, and unlocks in one transaction.
//
// A provider failure degrades the result instead of failing the session;
// the response then carries a warning and Degraded is persisted.
func (s *sessionService) Upload(ctx context.Context, userID int64, sessionID string, audio []byte, contentType string, duration int) (models.SessionResult, error) {
	log := logger.FromContext(ctx)

	if err := s.audioValidator.Validate(audio, contentType); err != nil {
		return models.SessionResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	duration = clampDuration(duration)

	s.locks.Lock(userID)
	session, err := s.sessionRepository.GetUploadableSession(ctx, sessionID, userID)
	if err == nil {
		err = s.sessionRepository.MarkAnalyzing(ctx, sessionID, duration, int64(len(audio)))
	}
	s.locks.Unlock(userID)
	if err != nil {
		if errors.Is(err, store.ErrSessionAlreadyFinished) {
			err = store.ErrSessionNotFound
		}
		log.Err(err).Str("sessionID", sessionID).Msg("session is not awaiting audio")
		return models.SessionResult{}, fmt.Errorf("session is not awaiting audio: %w", err)
	}
	session.Status = models.StatusAnalyzing
	session.Duration = duration
	session.AudioSize = int64(len(audio))

	// The payload signature check runs after the transition: a mislabeled
	// non-audio upload fails the session terminally instead of leaving it
	// waiting for a retry that would send the same bytes.
	if err := s.audioValidator.Sniff(audio); err != nil {
		s.fail(ctx, userID, sessionID)
		log.Warn().Str("sessionID", sessionID).Msg("uploaded payload is not audio")
		return models.SessionResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	report, degraded := s.analyze(ctx, session, audio, contentType)

	session.Transcript = report.Transcript
	session.ConfidenceScore = report.ConfidenceScore
	session.ClarityScore = report.ClarityScore
	session.PaceWpm = report.PaceWpm
	session.VolumeStability = report.VolumeStability
	session.FillerCount = report.Fillers()
	session.Feedback = scoring.Classify(report.ConfidenceScore, report.ClarityScore, report.PaceWpm)
	session.Improvements = scoring.Improvements(report.ConfidenceScore, report.ClarityScore, report.PaceWpm, report.TotalFillerCount)
	session.Degraded = degraded

	now := time.Now()
	session.Status = models.StatusCompleted
	session.CompletedAt = &now

	s.locks.Lock(userID)
	user, unlocked, err := s.finish(ctx, session, now)
	s.locks.Unlock(userID)
	if err != nil {
		log.Err(err).Str("sessionID", sessionID).Msg("session completion ended with error")
		return models.SessionResult{}, fmt.Errorf("session completion ended with error: %w", err)
	}

	log.Info().
		Str("sessionID", sessionID).
		Int64("userID", userID).
		Bool("degraded", degraded).
		Int("newAchievements", len(unlocked)).
		Msg("session completed")

	return s.buildResult(session, user, unlocked, degraded), nil
}

// Recent lists completed sessions, newest first.
func (s *sessionService) Recent(ctx context.Context, userID int64, limit int) ([]models.SessionSummary, error) {
	sessions, err := s.sessionRepository.RecentCompleted(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions lookup failed: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summary := summarize(session)
		fb := session.Feedback
		summary.Feedback = &fb
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// fail moves a session to the terminal failed state, holding the user lock
// for the transition.
func (s *sessionService) fail(ctx context.Context, userID int64, sessionID string) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if err := s.sessionRepository.MarkFailed(ctx, sessionID, time.Now()); err != nil {
		logger.FromContext(ctx).Err(err).Str("sessionID", sessionID).Msg("failed to mark session failed")
	}
}

// analyze calls the configured provider under the analysis timeout and
// falls back to deterministic synthetic metrics on any failure. The second
// return value reports whether the fallback was used.
func (s *sessionService) analyze(ctx context.Context, session models.Session, audio []byte, contentType string) (models.MetricsReport, bool) {
	log := logger.FromContext(ctx)

	in := analysis.Input{
		SessionID:    session.SessionID,
		Level:        session.Level,
		PracticeType: session.PracticeType,
		Duration:     session.Duration,
		Audio:        audio,
		ContentType:  contentType,
	}

	callCtx := ctx
	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	report, err := s.provider.Analyze(callCtx, in)
	if err == nil {
		return report, false
	}

	log.Warn().
		Err(err).
		Str("sessionID", session.SessionID).
		Msg("analysis provider failed, falling back to synthetic metrics")

	report, err = s.fallback.Analyze(ctx, in)
	if err != nil {
		// The synthetic provider only fails on a canceled context; produce
		// an empty report rather than failing the session.
		log.Err(err).Str("sessionID", session.SessionID).Msg("fallback analysis failed")
		return models.MetricsReport{}, true
	}

	return report, true
}

// finish applies progression and achievements to the user and persists
// session, user, and unlocks atomically. Caller holds the user lock.
func (s *sessionService) finish(ctx context.Context, session models.Session, now time.Time) (models.User, []models.AchievementUnlock, error) {
	user, err := s.userRepository.FindUserByID(ctx, session.UserID)
	if err != nil {
		return models.User{}, nil, fmt.Errorf("user lookup failed: %w", err)
	}

	s.progression.Apply(&user, session, now)

	unlocked := s.evaluator.Evaluate(user, session, now)
	for _, unlock := range unlocked {
		user.Points += unlock.Points
	}
	user.UnlockedAchievements = append(user.UnlockedAchievements, unlocked...)

	if err := s.sessionRepository.FinishSession(ctx, session, user, unlocked); err != nil {
		return models.User{}, nil, err
	}

	return user, unlocked, nil
}

// buildResult assembles the upload response.
func (s *sessionService) buildResult(session models.Session, user models.User, unlocked []models.AchievementUnlock, degraded bool) models.SessionResult {
	result := models.SessionResult{
		Success:   true,
		SessionID: session.SessionID,
		Status:    session.Status,
		Duration:  session.Duration,

		Transcript: session.Transcript,
		Analysis: models.SessionAnalysis{
			ConfidenceScore: session.ConfidenceScore,
			ClarityScore:    session.ClarityScore,
			PaceWpm:         session.PaceWpm,
			VolumeStability: session.VolumeStability,
			FillerCount:     session.FillerCount,
		},
		Feedback:     session.Feedback,
		Improvements: session.Improvements,
		OverallScore: scoring.OverallScore(session.ConfidenceScore, session.ClarityScore, session.PaceWpm, session.VolumeStability),
		UserStats: models.UserStats{
			TotalSessions:   user.TotalSessions,
			ConfidenceScore: user.ConfidenceScore,
			Streak:          user.Streak,
			MaxStreak:       user.MaxStreak,
			Points:          user.Points,
			IsNewUser:       user.IsNewUser,
		},
		NewAchievements: make([]models.UnlockedAchievement, 0, len(unlocked)),
	}

	for _, unlock := range unlocked {
		entry := models.UnlockedAchievement{
			ID:         unlock.AchievementID,
			Points:     unlock.Points,
			UnlockedAt: unlock.UnlockedAt,
		}
		if def, ok := s.registry.Find(unlock.AchievementID); ok {
			entry.Title = def.Title
			entry.Description = def.Description
			entry.Icon = def.Icon
		}
		result.NewAchievements = append(result.NewAchievements, entry)
	}

	if degraded {
		result.Warning = degradedWarning
	}

	return result
}

func summarize(session models.Session) models.SessionSummary {
	return models.SessionSummary{
		SessionID:       session.SessionID,
		Level:           session.Level,
		PracticeType:    session.PracticeType,
		Status:          session.Status,
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
		Duration:        session.Duration,
		ConfidenceScore: session.ConfidenceScore,
	}
}

func clampDuration(duration int) int {
	if duration < 0 {
		return 0
	}
	if duration > maxSessionDuration {
		return maxSessionDuration
	}
	return duration
}
