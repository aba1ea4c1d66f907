// Package scoring turns raw speech metrics into user-facing feedback: the
// per-axis classification, the ranked improvement suggestions, and the
// weighted overall score.
package scoring

import (
	"fmt"
	"math"

	"github.com/speakai-app/speakai-server/models"
)

// Classification thresholds. Pace is measured in words per minute, the
// other axes are 0-100 scores.
const (
	paceIdealMin = 120
	paceIdealMax = 160

	scoreExcellent = 80
	scoreGood      = 60
)

// Classify builds the per-axis feedback for the given metrics.
func Classify(confidence, clarity, pace int) models.Feedback {
	var fb models.Feedback

	switch {
	case pace >= paceIdealMin && pace <= paceIdealMax:
		fb.Pace = models.FeedbackEntry{
			Status:  models.FeedbackExcellent,
			Message: fmt.Sprintf("Perfect pace at %d WPM!", pace),
			Value:   fmt.Sprintf("%d WPM", pace),
		}
	case pace < paceIdealMin:
		fb.Pace = models.FeedbackEntry{
			Status:  models.FeedbackSlow,
			Message: fmt.Sprintf("Try speaking faster. Current: %d WPM", pace),
			Value:   fmt.Sprintf("%d WPM", pace),
		}
	default:
		fb.Pace = models.FeedbackEntry{
			Status:  models.FeedbackFast,
			Message: fmt.Sprintf("Slow down slightly. Current: %d WPM", pace),
			Value:   fmt.Sprintf("%d WPM", pace),
		}
	}

	switch {
	case confidence >= scoreExcellent:
		fb.Confidence = models.FeedbackEntry{
			Status:  models.FeedbackExcellent,
			Message: "Great confidence level!",
			Value:   fmt.Sprintf("%d%%", confidence),
		}
	case confidence >= scoreGood:
		fb.Confidence = models.FeedbackEntry{
			Status:  models.FeedbackGood,
			Message: "Good confidence, keep practicing!",
			Value:   fmt.Sprintf("%d%%", confidence),
		}
	default:
		fb.Confidence = models.FeedbackEntry{
			Status:  models.FeedbackNeedsWork,
			Message: "Focus on building confidence",
			Value:   fmt.Sprintf("%d%%", confidence),
		}
	}

	switch {
	case clarity >= scoreExcellent:
		fb.Clarity = models.FeedbackEntry{
			Status:  models.FeedbackExcellent,
			Message: "Very clear speech!",
			Value:   fmt.Sprintf("%d%%", clarity),
		}
	case clarity >= scoreGood:
		fb.Clarity = models.FeedbackEntry{
			Status:  models.FeedbackGood,
			Message: "Good clarity, minor improvements possible",
			Value:   fmt.Sprintf("%d%%", clarity),
		}
	default:
		fb.Clarity = models.FeedbackEntry{
			Status:  models.FeedbackNeedsWork,
			Message: "Focus on enunciation and clarity",
			Value:   fmt.Sprintf("%d%%", clarity),
		}
	}

	avg := float64(confidence+clarity) / 2
	switch {
	case avg >= scoreExcellent:
		fb.Overall = models.FeedbackEntry{
			Status:  models.FeedbackExcellent,
			Message: "Outstanding performance! Keep up the great work.",
		}
	case avg >= scoreGood:
		fb.Overall = models.FeedbackEntry{
			Status:  models.FeedbackGood,
			Message: "Good progress! Continue practicing to improve further.",
		}
	default:
		fb.Overall = models.FeedbackEntry{
			Status:  models.FeedbackNeedsWork,
			Message: "Keep practicing! Focus on the highlighted areas for improvement.",
		}
	}

	return fb
}

// Improvements builds the ranked suggestion list, ordered high before
// medium before low. It never returns an empty list: a speaker with no
// flagged weaknesses gets one low-priority keep-practicing entry.
func Improvements(confidence, clarity, pace, fillerCount int) []models.Improvement {
	var high, medium []models.Improvement

	if confidence < 70 {
		high = append(high, models.Improvement{
			Area:       "Confidence",
			Suggestion: "Practice deep breathing before speaking and maintain good posture",
			Priority:   models.PriorityHigh,
		})
	}
	if clarity < 70 {
		high = append(high, models.Improvement{
			Area:       "Clarity",
			Suggestion: "Speak more slowly and focus on clear enunciation of each word",
			Priority:   models.PriorityHigh,
		})
	}
	if fillerCount > 5 {
		medium = append(medium, models.Improvement{
			Area:       "Filler Words",
			Suggestion: `Pause instead of using filler words like "um" and "like"`,
			Priority:   models.PriorityMedium,
		})
	}
	if pace > 180 {
		medium = append(medium, models.Improvement{
			Area:       "Pace",
			Suggestion: "Slow down your speaking rate for better comprehension",
			Priority:   models.PriorityMedium,
		})
	}

	improvements := append(high, medium...)
	if len(improvements) == 0 {
		improvements = append(improvements, models.Improvement{
			Area:       "Practice",
			Suggestion: "Continue regular practice sessions to maintain and improve your skills",
			Priority:   models.PriorityLow,
		})
	}

	return improvements
}

// OverallScore computes the weighted session score: 40% confidence, 30%
// clarity, 20% pace, 10% volume stability. The pace contribution is
// pace/2 capped at 50 so that any pace of 100 WPM or more earns the full
// pace weight, and a zero pace (silence) contributes nothing.
func OverallScore(confidence, clarity, pace, volume int) int {
	paceTerm := 0.0
	if pace > 0 {
		paceTerm = math.Min(float64(pace)/2, 50)
	}

	score := 0.4*float64(confidence) +
		0.3*float64(clarity) +
		0.2*paceTerm +
		0.1*float64(volume)

	return int(math.Floor(score + 0.5))
}
