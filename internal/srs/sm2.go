// Package srs implements the simplified SM-2 review scheduler. It is
// the single place where study-progression policy lives; everything
// here is pure so the numeric behavior can be tested in isolation.
package srs

import (
	"math"
	"time"

	"bookme/internal/models"
)

// Review computes the next spaced-repetition state for a card given a
// pass/fail outcome. The input card is not modified.
//
// On a correct answer the ease grows by 0.1 and the interval follows
// the SM-2 ladder: 1 day, then 6 days, then interval*ease. On a miss
// the ease shrinks by 0.2 (floored at 1.3) and the card drops back to
// a 1 day interval with its correct-streak reset.
func Review(card models.Card, correct bool, now time.Time) models.Card {
	if correct {
		card.CorrectCount++
		card.Repetitions++
		card.Ease = clampEase(card.Ease + 0.1)

		switch card.Repetitions {
		case 1:
			card.Interval = 1
		case 2:
			card.Interval = 6
		default:
			next := int(math.Round(float64(card.Interval) * card.Ease))
			if next < 1 {
				next = 1
			}
			card.Interval = next
		}
	} else {
		card.IncorrectCount++
		card.Repetitions = 0
		card.Ease = clampEase(card.Ease - 0.2)
		card.Interval = 1
	}

	reviewed := now
	card.LastReviewed = &reviewed
	return card
}

func clampEase(ease float64) float64 {
	if ease < models.MinEase {
		return models.MinEase
	}
	return ease
}
