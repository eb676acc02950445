// Package flashcard holds the pure study-session logic: a deck of word cards
// graded one at a time by swipe or pass until the run is finished.
package flashcard

import (
	"errors"
	"fmt"

	"github.com/vytor/lingoflash/internal/models"
)

var (
	// ErrOutOfTurn is returned when a gesture targets a card other than the current one.
	ErrOutOfTurn = errors.New("card is not the current card")
	// ErrDeckCompleted is returned for any gesture after the run has finished.
	ErrDeckCompleted = errors.New("study session already completed")
)

// Status is the per-card outcome within one run.
type Status int

const (
	StatusPending Status = iota
	StatusKnown
	StatusUnknown
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusKnown:
		return "known"
	case StatusUnknown:
		return "unknown"
	case StatusSkipped:
		return "skipped"
	default:
		return "invalid"
	}
}

// Action is a grading gesture.
type Action string

const (
	ActionSwipeRight Action = "swipeRight"
	ActionSwipeLeft  Action = "swipeLeft"
	ActionPass       Action = "pass"
)

// Valid reports whether a is a known gesture.
func (a Action) Valid() bool {
	switch a {
	case ActionSwipeRight, ActionSwipeLeft, ActionPass:
		return true
	}
	return false
}

type Card struct {
	Word   models.WordPair
	Index  int
	Status Status
}

// Deck is the state of one study run. It is not safe for concurrent use.
//
// While the run is open, known+unknown+skipped equals the current index.
// Once completed the sum equals the number of cards and nothing changes
// until Reset.
type Deck struct {
	cards     []Card
	current   int
	known     []models.WordPair
	unknown   []models.WordPair
	skipped   []models.WordPair
	completed bool
}

// NewDeck starts a run over words in order. An empty deck is completed immediately.
func NewDeck(words []models.WordPair) *Deck {
	d := &Deck{cards: make([]Card, len(words))}
	for i, w := range words {
		d.cards[i] = Card{Word: w, Index: i}
	}
	d.Reset()
	return d
}

// Reset returns the deck to a fresh run over the same cards.
func (d *Deck) Reset() {
	for i := range d.cards {
		d.cards[i].Status = StatusPending
	}
	d.current = 0
	d.known = nil
	d.unknown = nil
	d.skipped = nil
	d.completed = len(d.cards) == 0
}

func (d *Deck) Len() int        { return len(d.cards) }
func (d *Deck) Current() int    { return d.current }
func (d *Deck) Completed() bool { return d.completed }

// Cards returns a snapshot of every card with its status.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// SwipeRight marks card i as known.
func (d *Deck) SwipeRight(i int) error { return d.grade(i, StatusKnown) }

// SwipeLeft marks card i as unknown.
func (d *Deck) SwipeLeft(i int) error { return d.grade(i, StatusUnknown) }

// Pass skips card i without grading it.
func (d *Deck) Pass(i int) error { return d.grade(i, StatusSkipped) }

// Apply dispatches a gesture by name.
func (d *Deck) Apply(a Action, i int) error {
	switch a {
	case ActionSwipeRight:
		return d.SwipeRight(i)
	case ActionSwipeLeft:
		return d.SwipeLeft(i)
	case ActionPass:
		return d.Pass(i)
	default:
		return fmt.Errorf("unknown action %q", a)
	}
}

func (d *Deck) grade(i int, status Status) error {
	if d.completed {
		return ErrDeckCompleted
	}
	if i != d.current {
		return fmt.Errorf("%w: got %d, current is %d", ErrOutOfTurn, i, d.current)
	}

	d.cards[i].Status = status
	w := d.cards[i].Word
	switch status {
	case StatusKnown:
		d.known = append(d.known, w)
	case StatusUnknown:
		d.unknown = append(d.unknown, w)
	case StatusSkipped:
		d.skipped = append(d.skipped, w)
	}
	d.current++

	// Grading the last card ends the run with nothing left to skip.
	if d.current == len(d.cards) {
		d.finishFrom(d.current)
	}
	return nil
}

// Finish ends the run early. The card on screen and every card after it
// count as skipped.
func (d *Deck) Finish() error {
	if d.completed {
		return ErrDeckCompleted
	}
	d.finishFrom(d.current)
	return nil
}

func (d *Deck) finishFrom(from int) {
	for i := from; i < len(d.cards); i++ {
		d.cards[i].Status = StatusSkipped
		d.skipped = append(d.skipped, d.cards[i].Word)
	}
	d.current = len(d.cards)
	d.completed = true
}

// Tallies returns the run's counts and the words graded unknown, in order.
func (d *Deck) Tallies() models.SessionTallies {
	unknown := make([]models.WordPair, len(d.unknown))
	copy(unknown, d.unknown)
	return models.SessionTallies{
		KnownCount:   len(d.known),
		UnknownCount: len(d.unknown),
		SkippedCount: len(d.skipped),
		UnknownWords: unknown,
	}
}

// Step is one recorded gesture.
type Step struct {
	Action Action `json:"type"`
	Index  int    `json:"index"`
}

// Replay runs steps over a fresh deck of words. When finish is set and the
// steps did not reach the last card, the run is finished early. The returned
// deck may still be open when finish is false.
func Replay(words []models.WordPair, steps []Step, finish bool) (*Deck, error) {
	d := NewDeck(words)
	for n, st := range steps {
		if err := d.Apply(st.Action, st.Index); err != nil {
			return d, fmt.Errorf("step %d: %w", n, err)
		}
	}
	if finish && !d.completed {
		_ = d.Finish()
	}
	return d, nil
}
