package analysis

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

// levelFactors dampen synthetic scores as difficulty rises: harder prompts
// produce lower confidence and clarity on average.
var levelFactors = map[models.Level]struct{ confidence, clarity float64 }{
	models.LevelEasy:   {confidence: 0.8, clarity: 0.9},
	models.LevelMedium: {confidence: 0.7, clarity: 0.8},
	models.LevelHard:   {confidence: 0.6, clarity: 0.7},
}

// syntheticTranscripts are canned transcripts per practice type.
var syntheticTranscripts = map[models.PracticeType]string{
	models.PracticeFreestyle: "Hello everyone. I'm here to practice my public speaking skills. " +
		"Today I want to talk about the importance of confidence in communication.",
	models.PracticeGuided: "Following the guided prompts, I'm working on my articulation and pacing. " +
		"The exercises are helping me focus on clear pronunciation.",
	models.PracticeInterview: "Thank you for the opportunity to interview. I have experience in my " +
		"field and I'm passionate about contributing to your team's success.",
	models.PracticePresentation: "Good morning everyone. Today's presentation covers our quarterly " +
		"results and future projections. Let me start by outlining key achievements.",
}

// SyntheticProvider generates plausible metrics without touching the audio.
// It is the default provider for local development and the degraded
// fallback when a real provider fails. Metrics are a pure function of the
// session id, so re-analyzing the same session is repeatable.
type SyntheticProvider struct {
	logger *logger.Logger
}

// NewSyntheticProvider constructs a [SyntheticProvider].
func NewSyntheticProvider(log *logger.Logger) *SyntheticProvider {
	return &SyntheticProvider{logger: log}
}

// Analyze produces a deterministic metrics report seeded from in.SessionID.
func (p *SyntheticProvider) Analyze(ctx context.Context, in Input) (models.MetricsReport, error) {
	if err := ctx.Err(); err != nil {
		return models.MetricsReport{}, err
	}

	rng := rand.New(rand.NewSource(seedFromSessionID(in.SessionID)))

	factors, ok := levelFactors[in.Level]
	if !ok {
		factors = levelFactors[models.LevelEasy]
	}

	confidence := roundHalfUp(math.Min(100, (45+rng.Float64()*35)*factors.confidence))
	clarity := roundHalfUp(math.Min(100, (50+rng.Float64()*35)*factors.clarity))
	volume := roundHalfUp(60 + rng.Float64()*35)
	pace := roundHalfUp(120 + rng.Float64()*60)

	fillerFactor := math.Max(0.5, float64(100-confidence)/100)
	totalFillers := roundHalfUp(rng.Float64() * 8 * fillerFactor)

	transcript, ok := syntheticTranscripts[in.PracticeType]
	if !ok {
		transcript = syntheticTranscripts[models.PracticeFreestyle]
	}

	report := models.MetricsReport{
		Transcript:       transcript,
		ConfidenceScore:  confidence,
		ClarityScore:     clarity,
		PaceWpm:          pace,
		VolumeStability:  volume,
		TotalFillerCount: totalFillers,
		FillerBreakdown: models.FillerBreakdown{
			Um:      roundHalfUp(float64(totalFillers) * 0.3),
			Uh:      roundHalfUp(float64(totalFillers) * 0.2),
			Like:    roundHalfUp(float64(totalFillers) * 0.4),
			YouKnow: roundHalfUp(float64(totalFillers) * 0.1),
		},
	}

	p.logger.Debug().
		Str("func", "*SyntheticProvider.Analyze").
		Str("session", in.SessionID).
		Int("confidence", confidence).
		Int("clarity", clarity).
		Msg("generated synthetic metrics")

	return report, nil
}

// seedFromSessionID hashes the session id into a stable rng seed.
func seedFromSessionID(sessionID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))
	return int64(h.Sum64())
}

// roundHalfUp rounds to the nearest integer with halves going up, matching
// how the scores are presented to users.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
