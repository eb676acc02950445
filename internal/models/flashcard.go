package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Flashcard struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Notes         *string    `json:"notes"`
	Words         WordList   `json:"words"`
	LanguageID    int64      `json:"languageId"`
	Language      *Language  `json:"language,omitempty"`
	LastStudiedAt *time.Time `json:"lastStudiedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type WordPair struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// WordList is stored as a JSON array in a single column.
type WordList []WordPair

func (w WordList) Value() (driver.Value, error) {
	if w == nil {
		w = WordList{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (w *WordList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*w = WordList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("word list: unsupported source type %T", src)
	}
	var out WordList
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("word list: %w", err)
	}
	if out == nil {
		out = WordList{}
	}
	*w = out
	return nil
}

type FlashcardFilter struct {
	LanguageID int64
	Limit      int
	Offset     int
}

// FlashcardPatch carries the fields of a partial update. Nil means unchanged.
type FlashcardPatch struct {
	Title       *string
	Description *string
	Notes       *string
	Words       *WordList
	LanguageID  *int64
}

// Empty reports whether the patch changes nothing.
func (p FlashcardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Notes == nil && p.Words == nil && p.LanguageID == nil
}
