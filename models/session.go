package models

import "time"

// Level is the difficulty of a practice session.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Valid reports whether l is one of the known difficulty levels.
func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

// PracticeType describes the kind of speaking exercise a session covers.
type PracticeType string

const (
	PracticeFreestyle    PracticeType = "freestyle"
	PracticeGuided       PracticeType = "guided"
	PracticeInterview    PracticeType = "interview"
	PracticePresentation PracticeType = "presentation"
)

// Valid reports whether p is one of the known practice types.
func (p PracticeType) Valid() bool {
	switch p {
	case PracticeFreestyle, PracticeGuided, PracticeInterview, PracticePresentation:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a session. Transitions are
// forward-only: started → recording → analyzing → completed | failed.
type SessionStatus string

const (
	StatusStarted   SessionStatus = "started"
	StatusRecording SessionStatus = "recording"
	StatusAnalyzing SessionStatus = "analyzing"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
)

// Terminal reports whether the status is one of the terminal states.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PreUpload reports whether the session is still waiting for an audio
// upload. Both started and recording count as pre-upload and are treated
// identically by the single-active-session rule.
func (s SessionStatus) PreUpload() bool {
	return s == StatusStarted || s == StatusRecording
}

// Session represents one recorded practice attempt and its analysis outcome.
// Once a session reaches a terminal status it is immutable.
type Session struct {
	// SessionID is the UUID of the session.
	SessionID string `json:"id"`

	// UserID is the owning user. Immutable after creation.
	UserID int64 `json:"-"`

	// Level is the difficulty the session was started with.
	Level Level `json:"level"`

	// PracticeType is the exercise kind the session was started with.
	PracticeType PracticeType `json:"practiceType"`

	// Status is the lifecycle state of the session.
	Status SessionStatus `json:"status"`

	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is set if and only if Status is terminal.
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Duration is the recording length in seconds, clamped to [0,3600].
	Duration int `json:"duration"`

	// AudioSize is the size of the uploaded audio in bytes.
	AudioSize int64 `json:"-"`

	// Transcript is nil until analysis has run.
	Transcript string `json:"transcript,omitempty"`

	// Metric scores, each 0-100 except PaceWpm which is words per minute
	// in [0,500].
	ConfidenceScore int `json:"confidenceScore"`
	ClarityScore    int `json:"clarityScore"`
	PaceWpm         int `json:"paceWpm"`
	VolumeStability int `json:"volumeStability"`

	// FillerCount is the filler-word breakdown with derived total.
	FillerCount FillerCount `json:"fillerCount"`

	// Feedback holds the per-axis classification produced by the score
	// aggregator.
	Feedback Feedback `json:"feedback"`

	// Improvements is the ranked list of improvement suggestions,
	// ordered high → medium → low. Never empty for a completed session.
	Improvements []Improvement `json:"improvements"`

	// Degraded is true when the analysis provider failed and the session
	// was completed with synthetic fallback metrics.
	Degraded bool `json:"degraded,omitempty"`
}

// FillerCount breaks down detected filler words by kind.
// Total covers all fillers including Other.
type FillerCount struct {
	Total   int `json:"total"`
	Um      int `json:"um"`
	Uh      int `json:"uh"`
	Like    int `json:"like"`
	YouKnow int `json:"you_know"`
	Other   int `json:"other"`
}

// FeedbackStatus labels one feedback axis.
type FeedbackStatus string

const (
	FeedbackExcellent FeedbackStatus = "excellent"
	FeedbackGood      FeedbackStatus = "good"
	FeedbackNeedsWork FeedbackStatus = "needs_work"
	FeedbackSlow      FeedbackStatus = "slow"
	FeedbackFast      FeedbackStatus = "fast"
)

// FeedbackEntry is the classification of a single feedback axis.
type FeedbackEntry struct {
	Status  FeedbackStatus `json:"status"`
	Message string         `json:"message"`
	Value   string         `json:"value,omitempty"`
}

// Feedback holds the per-axis feedback record for a completed session.
type Feedback struct {
	Pace       FeedbackEntry `json:"pace"`
	Confidence FeedbackEntry `json:"confidence"`
	Clarity    FeedbackEntry `json:"clarity"`
	Overall    FeedbackEntry `json:"overall"`
}

// Priority ranks an improvement suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Improvement is a single actionable suggestion for the speaker.
type Improvement struct {
	Area       string   `json:"area"`
	Suggestion string   `json:"suggestion"`
	Priority   Priority `json:"priority"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
