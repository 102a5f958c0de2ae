package models

import "time"

// Deck is a named, owned collection of flashcards
type Deck struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	Subject  *string  `json:"subject"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`

	// Len is the persisted card count. It is re-derived from the cards
	// table on every structural change, never incremented in place.
	Len int `json:"len"`

	Cards     []Card    `json:"cards,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
