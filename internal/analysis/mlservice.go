package analysis

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

// MLServiceProvider sends the recording to an external speech analysis
// service as a multipart upload and decodes its JSON metrics response.
// The service contract is POST {base}/analyze-speech with an "audio" file
// part.
type MLServiceProvider struct {
	client  *resty.Client
	baseURL string
	logger  *logger.Logger
}

// NewMLServiceProvider constructs an [MLServiceProvider] for the given
// service base URL.
func NewMLServiceProvider(baseURL string, log *logger.Logger) *MLServiceProvider {
	return &MLServiceProvider{
		client:  resty.New(),
		baseURL: baseURL,
		logger:  log,
	}
}

// Analyze uploads the audio and returns the decoded metrics report. Any
// transport failure or non-2xx response is wrapped in [ErrAnalysisFailed]
// so the caller can fall back to synthetic metrics.
func (p *MLServiceProvider) Analyze(ctx context.Context, in Input) (models.MetricsReport, error) {
	log := logger.FromContext(ctx)

	var report models.MetricsReport

	resp, err := p.client.R().
		SetContext(ctx).
		SetFileReader("audio", "speech.wav", bytes.NewReader(in.Audio)).
		SetResult(&report).
		Post(p.baseURL + "/analyze-speech")
	if err != nil {
		log.Err(err).Str("func", "*MLServiceProvider.Analyze").Msg("analysis request failed")
		return models.MetricsReport{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if resp.IsError() {
		log.Error().
			Str("func", "*MLServiceProvider.Analyze").
			Int("status", resp.StatusCode()).
			Msg("analysis service returned an error status")
		return models.MetricsReport{}, fmt.Errorf("%w: unexpected status %d", ErrAnalysisFailed, resp.StatusCode())
	}

	return report, nil
}
