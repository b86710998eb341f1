// Package model defines shared data structures.
package model

import "time"

// VocabRow is one term/meaning pair from the vocabulary source.
type VocabRow struct {
	Vocab   string
	Meaning string
}

// Question is a single multiple-choice prompt.
type Question struct {
	Content string
	Options []string
	Key     string
}

// HasOptions reports whether the question has anything to render.
func (q Question) HasOptions() bool {
	return len(q.Options) > 0
}

// Config defines quiz settings.
type Config struct {
	Source         string
	Sheet          string
	Limit          int
	CorrectDelay   time.Duration
	IncorrectDelay time.Duration
	Seed           int64
	History        bool
	Cache          bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Source string
	Since  *time.Time
	Last   int
	Window int
}

// QuizResult captures a completed quiz.
type QuizResult struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Source    string
	Total     int
	Correct   int
	Skipped   int
	Score     int
}

// AccuracyRate returns correct answers as a percentage of total questions.
// The second value is false when there were no questions.
func AccuracyRate(correct, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(correct) / float64(total) * 100, true
}

// Accuracy returns the percentage of correctly answered questions, or 0 for an empty quiz.
func (r QuizResult) Accuracy() float64 {
	rate, _ := AccuracyRate(r.Correct, r.Total)
	return rate
}
