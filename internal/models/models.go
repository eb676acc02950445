package models

import "time"

type Language struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

type StudySession struct {
	ID           string    `json:"id" db:"id"`
	FlashcardID  string    `json:"flashcardId" db:"flashcard_id"`
	KnownCount   int       `json:"knownCount" db:"known_count"`
	UnknownCount int       `json:"unknownCount" db:"unknown_count"`
	SkippedCount int       `json:"skippedCount" db:"skipped_count"`
	AIFeedback   *string   `json:"aiFeedback" db:"ai_feedback"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// SessionTallies is the outcome of one completed study run as reported by a client.
type SessionTallies struct {
	KnownCount   int        `json:"knownCount"`
	UnknownCount int        `json:"unknownCount"`
	SkippedCount int        `json:"skippedCount"`
	UnknownWords []WordPair `json:"unknownWords"`
}

// Total is the number of cards the run covered.
func (t SessionTallies) Total() int {
	return t.KnownCount + t.UnknownCount + t.SkippedCount
}

type WordAnalytics struct {
	ID              int64     `json:"id" db:"id"`
	FlashcardID     string    `json:"flashcardId" db:"flashcard_id"`
	WordKey         string    `json:"wordKey" db:"word_key"`
	CorrectCount    int       `json:"correctCount" db:"correct_count"`
	WrongCount      int       `json:"wrongCount" db:"wrong_count"`
	AIMnemonic      *string   `json:"aiMnemonic" db:"ai_mnemonic"`
	DifficultyLevel *float64  `json:"difficultyLevel" db:"difficulty_level"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	// Derived from DifficultyLevel; not stored.
	DifficultyBand string `json:"difficultyBand,omitempty" db:"-"`
}

// Difficulty bands shown next to a word's mnemonic.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DifficultyBand buckets a 0..1 difficulty level. Empty when unknown.
func DifficultyBand(level *float64) string {
	if level == nil {
		return ""
	}
	switch {
	case *level > 0.7:
		return DifficultyHard
	case *level > 0.4:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// WordAnalysis is one per-word entry of a normalized analysis.
type WordAnalysis struct {
	WordKey         string   `json:"wordKey"`
	AIMnemonic      *string  `json:"aiMnemonic"`
	DifficultyLevel *float64 `json:"difficultyLevel"`
}

// AnalysisResult is the canonical shape of a webhook response.
type AnalysisResult struct {
	AIFeedback   string         `json:"aiFeedback"`
	WordAnalysis []WordAnalysis `json:"wordAnalysis"`
}

type AnalyzeSessionResult struct {
	StudySession *StudySession  `json:"studySession"`
	AIAnalysis   *AnalysisResult `json:"aiAnalysis"`
}
