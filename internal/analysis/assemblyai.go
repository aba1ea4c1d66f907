package analysis

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

// AssemblyAIProvider transcribes the recording with AssemblyAI and derives
// the speaking metrics from the transcript. Disfluencies are kept in the
// transcript so filler words can be counted.
type AssemblyAIProvider struct {
	client *assemblyai.Client
	logger *logger.Logger
}

// NewAssemblyAIProvider constructs an [AssemblyAIProvider] with the given
// API key.
func NewAssemblyAIProvider(apiKey string, log *logger.Logger) *AssemblyAIProvider {
	return &AssemblyAIProvider{
		client: assemblyai.NewClient(apiKey),
		logger: log,
	}
}

// Analyze submits the audio for transcription and maps the result onto a
// metrics report. Transcription failures are wrapped in [ErrAnalysisFailed].
func (p *AssemblyAIProvider) Analyze(ctx context.Context, in Input) (models.MetricsReport, error) {
	log := logger.FromContext(ctx)

	transcript, err := p.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(in.Audio), &assemblyai.TranscriptOptionalParams{
		Disfluencies: assemblyai.Bool(true),
	})
	if err != nil {
		log.Err(err).Str("func", "*AssemblyAIProvider.Analyze").Msg("transcription request failed")
		return models.MetricsReport{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if transcript.Status == assemblyai.TranscriptStatusError {
		reason := "unknown"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		log.Error().Str("func", "*AssemblyAIProvider.Analyze").Str("reason", reason).Msg("transcription rejected")
		return models.MetricsReport{}, fmt.Errorf("%w: %s", ErrAnalysisFailed, reason)
	}

	return p.buildReport(transcript, in.Duration), nil
}

// buildReport derives the metrics from the transcript. Confidence comes
// from the overall recognition confidence, clarity from the mean per-word
// confidence, and volume stability from how evenly the per-word confidence
// is distributed, which tracks delivery steadiness closely enough for
// coaching feedback.
func (p *AssemblyAIProvider) buildReport(t assemblyai.Transcript, duration int) models.MetricsReport {
	var report models.MetricsReport

	if t.Text != nil {
		report.Transcript = *t.Text
	}
	if t.Confidence != nil {
		report.ConfidenceScore = clampScore(roundHalfUp(*t.Confidence * 100))
	}

	words := t.Words
	if len(words) > 0 {
		mean, stddev := wordConfidenceStats(words)
		report.ClarityScore = clampScore(roundHalfUp(mean * 100))
		report.VolumeStability = clampScore(roundHalfUp(100 - stddev*200))
	}

	minutes := audioMinutes(t, duration)
	if minutes > 0 {
		report.PaceWpm = roundHalfUp(float64(len(words)) / minutes)
		if report.PaceWpm > 500 {
			report.PaceWpm = 500
		}
	}

	report.FillerBreakdown = countFillers(words)
	report.TotalFillerCount = report.FillerBreakdown.Um + report.FillerBreakdown.Uh +
		report.FillerBreakdown.Like + report.FillerBreakdown.YouKnow

	return report
}

// audioMinutes prefers the duration reported by the transcription service
// and falls back to the client-reported recording duration.
func audioMinutes(t assemblyai.Transcript, duration int) float64 {
	if t.AudioDuration != nil && *t.AudioDuration > 0 {
		return *t.AudioDuration / 60
	}
	return float64(duration) / 60
}

func wordConfidenceStats(words []assemblyai.TranscriptWord) (mean, stddev float64) {
	var sum float64
	for _, w := range words {
		if w.Confidence != nil {
			sum += *w.Confidence
		}
	}
	mean = sum / float64(len(words))

	var variance float64
	for _, w := range words {
		c := mean
		if w.Confidence != nil {
			c = *w.Confidence
		}
		variance += (c - mean) * (c - mean)
	}
	stddev = math.Sqrt(variance / float64(len(words)))
	return mean, stddev
}

// countFillers tallies disfluencies in the word stream. "you know" spans
// two consecutive words.
func countFillers(words []assemblyai.TranscriptWord) models.FillerBreakdown {
	var breakdown models.FillerBreakdown

	prev := ""
	for _, w := range words {
		if w.Text == nil {
			continue
		}
		text := strings.ToLower(strings.Trim(*w.Text, ".,!?"))
		switch text {
		case "um", "umm":
			breakdown.Um++
		case "uh", "uhm", "er", "erm":
			breakdown.Uh++
		case "like":
			breakdown.Like++
		case "know":
			if prev == "you" {
				breakdown.YouKnow++
			}
		}
		prev = text
	}

	return breakdown
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
