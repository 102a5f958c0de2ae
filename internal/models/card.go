package models

import "time"

// Card is a front/back study unit belonging to exactly one deck,
// carrying its spaced-repetition state
type Card struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deck_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Tags           []string   `json:"tags"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastReviewed   *time.Time `json:"last_reviewed"`
	Ease           float64    `json:"ease"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
}

// DefaultEase is the starting ease for a freshly created card
const DefaultEase = 2.5

// MinEase is the floor below which ease never drops
const MinEase = 1.3

// TotalReviews returns the number of completed reviews for the card
func (c *Card) TotalReviews() int {
	return c.CorrectCount + c.IncorrectCount
}
