// Package analysis defines the speech analysis provider contract and its
// implementations: a deterministic synthetic generator, an HTTP client for
// an external ML service, and an AssemblyAI-backed transcription provider.
//
// The session service treats providers as interchangeable. When the
// configured provider fails or times out, the service falls back to the
// synthetic provider and marks the session degraded.
package analysis

import (
	"context"
	"errors"

	"github.com/speakai-app/speakai-server/models"
)

// ErrAnalysisFailed is returned by providers when a recording could not be
// analyzed. The session service matches it with errors.Is to trigger the
// degraded fallback.
var ErrAnalysisFailed = errors.New("speech analysis failed")

// Input carries one uploaded recording and its session context into a
// provider call.
type Input struct {
	// SessionID seeds deterministic providers so repeated analysis of the
	// same session yields identical metrics.
	SessionID string

	// Level and PracticeType shape synthetic score distributions and
	// transcript selection.
	Level        models.Level
	PracticeType models.PracticeType

	// Duration is the recording length in seconds, already clamped.
	Duration int

	// Audio is the raw uploaded audio.
	Audio []byte

	// ContentType is the detected audio MIME type.
	ContentType string
}

// Provider turns one uploaded recording into a metrics report.
type Provider interface {
	Analyze(ctx context.Context, in Input) (models.MetricsReport, error)
}
