package domain

import (
	"math"
	"strings"
)

const DefaultAge = 7

// Difficulty levels are a closed set; free-form values are rejected.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Learning statuses on a User-[:LEARNED]->Knowledge link.
const (
	StatusLearning  = "learning"
	StatusCompleted = "completed"
	StatusMastered  = "mastered"
	StatusReviewing = "reviewing"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusLearning, StatusCompleted, StatusMastered, StatusReviewing:
		return true
	default:
		return false
	}
}

// ClampProgress bounds a knowledge-progress value to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NormalizeEmail makes the uniqueness check case-insensitive: every email is
// stored and compared in trimmed, lowercased form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return strings.Contains(email, "@")
}

// Accuracy returns correct/total*100, 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Round2 rounds to two decimal places, the precision used in score rollups.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, used by test-history summaries.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
