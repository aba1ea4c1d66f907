package models

import "time"

// APIError is the JSON error envelope returned by all handlers.
// Code is a stable machine-readable identifier; Message is human-readable.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success     bool   `json:"success"`
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// SessionSummary is the public projection of a session returned by
// start and by the recent-sessions listing.
type SessionSummary struct {
	SessionID       string        `json:"id"`
	Level           Level         `json:"level"`
	PracticeType    PracticeType  `json:"practiceType"`
	Status          SessionStatus `json:"status"`
	StartedAt       time.Time     `json:"startedAt"`
	CompletedAt     *time.Time    `json:"completedAt,omitempty"`
	Duration        int           `json:"duration,omitempty"`
	ConfidenceScore int           `json:"confidenceScore,omitempty"`
	Feedback        *Feedback     `json:"feedback,omitempty"`
}

// SessionAnalysis groups the raw metric scores of a completed session.
type SessionAnalysis struct {
	ConfidenceScore int         `json:"confidenceScore"`
	ClarityScore    int         `json:"clarityScore"`
	PaceWpm         int         `json:"paceWpm"`
	VolumeStability int         `json:"volumeStability"`
	FillerCount     FillerCount `json:"fillerCount"`
}

// UserStats is the progression snapshot returned alongside an upload result.
type UserStats struct {
	TotalSessions   int  `json:"totalSessions"`
	ConfidenceScore int  `json:"confidenceScore"`
	Streak          int  `json:"streak"`
	MaxStreak       int  `json:"maxStreak"`
	Points          int  `json:"points"`
	IsNewUser       bool `json:"isNewUser"`
}

// UnlockedAchievement describes one achievement unlocked by the
// just-completed session, enriched with its static definition fields.
type UnlockedAchievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Points      int       `json:"points"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// SessionResult is the response of a successful upload. Warning is set when
// the session completed with degraded synthetic metrics because the
// analysis provider failed or timed out.
type SessionResult struct {
	Success         bool                  `json:"success"`
	SessionID       string                `json:"id"`
	Status          SessionStatus         `json:"status"`
	Duration        int                   `json:"duration"`
	Transcript      string                `json:"transcript,omitempty"`
	Analysis        SessionAnalysis       `json:"analysis"`
	Feedback        Feedback              `json:"feedback"`
	Improvements    []Improvement         `json:"improvements"`
	OverallScore    int                   `json:"overallScore"`
	UserStats       UserStats             `json:"userStats"`
	NewAchievements []UnlockedAchievement `json:"newAchievements"`
	Warning         string                `json:"warning,omitempty"`
}

// ProgressOverview aggregates completed-session statistics for a user.
type ProgressOverview struct {
	User    UserStats       `json:"user"`
	Overall OverallProgress `json:"overall"`
}

// OverallProgress is the SQL aggregate over a user's completed sessions.
type OverallProgress struct {
	TotalSessions     int `json:"totalSessions"`
	AvgConfidence     int `json:"avgConfidence"`
	AvgClarity        int `json:"avgClarity"`
	TotalPracticeTime int `json:"totalPracticeTime"`
	BestConfidence    int `json:"bestConfidenceScore"`
}

// AnalyticsPoint is one completed session in the analytics series.
type AnalyticsPoint struct {
	SessionID       string     `json:"id"`
	Level           Level      `json:"level"`
	ConfidenceScore int        `json:"confidenceScore"`
	ClarityScore    int        `json:"clarityScore"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// AnalyticsReport is the response of GET /api/analytics.
type AnalyticsReport struct {
	RecentSessions []AnalyticsPoint `json:"recentSessions"`
	Summary        struct {
		TotalSessions int `json:"totalSessions"`
		AvgConfidence int `json:"avgConfidence"`
	} `json:"summary"`
}

// AchievementStatus is one registry entry annotated with the user's
// unlock state, returned by GET /api/achievements.
type AchievementStatus struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}
