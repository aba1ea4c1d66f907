package models

// FillerBreakdown holds per-kind filler-word counts as reported by an
// analysis provider. The session layer derives the stored FillerCount
// (with total and "other") from this breakdown.
type FillerBreakdown struct {
	Um      int `json:"um"`
	Uh      int `json:"uh"`
	Like    int `json:"like"`
	YouKnow int `json:"you_know"`
}

// MetricsReport is the structured result of analyzing one audio recording.
// It is the contract between the session state machine and any analysis
// provider implementation.
type MetricsReport struct {
	// Transcript is the recognized text of the recording.
	Transcript string `json:"transcript"`

	// ConfidenceScore is the speaker-confidence estimate, 0-100.
	ConfidenceScore int `json:"confidence_score"`

	// ClarityScore is the articulation estimate, 0-100.
	ClarityScore int `json:"clarity_score"`

	// PaceWpm is the speaking rate in words per minute, 0-500.
	PaceWpm int `json:"pace_wpm"`

	// VolumeStability estimates how even the speaking volume was, 0-100.
	VolumeStability int `json:"volume_stability_score"`

	// TotalFillerCount is the total number of detected filler words.
	TotalFillerCount int `json:"total_filler_count"`

	// FillerBreakdown splits TotalFillerCount by filler kind.
	FillerBreakdown FillerBreakdown `json:"filler_breakdown"`
}

// Fillers converts the provider breakdown into the session representation,
// deriving the "other" bucket from any fillers not covered by the named
// counters.
func (r MetricsReport) Fillers() FillerCount {
	named := r.FillerBreakdown.Um + r.FillerBreakdown.Uh + r.FillerBreakdown.Like + r.FillerBreakdown.YouKnow
	other := r.TotalFillerCount - named
	if other < 0 {
		other = 0
	}
	return FillerCount{
		Total:   r.TotalFillerCount,
		Um:      r.FillerBreakdown.Um,
		Uh:      r.FillerBreakdown.Uh,
		Like:    r.FillerBreakdown.Like,
		YouKnow: r.FillerBreakdown.YouKnow,
		Other:   other,
	}
}
