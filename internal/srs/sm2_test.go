package srs

import (
	"math"
	"testing"
	"time"

	"bookme/internal/models"
)

func freshCard() models.Card {
	return models.Card{
		ID:     "1",
		DeckID: "1",
		Front:  "Hola",
		Back:   "Hello",
		Ease:   models.DefaultEase,
	}
}

func TestReviewCorrect(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		card            models.Card
		wantEase        float64
		wantInterval    int
		wantRepetitions int
	}{
		{
			name:            "first correct review",
			card:            models.Card{Ease: 2.5},
			wantEase:        2.6,
			wantInterval:    1,
			wantRepetitions: 1,
		},
		{
			name:            "second correct review",
			card:            models.Card{Ease: 2.6, Interval: 1, Repetitions: 1, CorrectCount: 1},
			wantEase:        2.7,
			wantInterval:    6,
			wantRepetitions: 2,
		},
		{
			name:            "third review multiplies interval by updated ease",
			card:            models.Card{Ease: 2.7, Interval: 6, Repetitions: 2, CorrectCount: 2},
			wantEase:        2.8,
			wantInterval:    17, // round(6 * 2.8)
			wantRepetitions: 3,
		},
		{
			name:            "interval never collapses below one day",
			card:            models.Card{Ease: 1.3, Interval: 0, Repetitions: 5},
			wantEase:        1.4,
			wantInterval:    1,
			wantRepetitions: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Review(tt.card, true, now)

			if math.Abs(result.Ease-tt.wantEase) > 1e-9 {
				t.Errorf("ease = %v, want %v", result.Ease, tt.wantEase)
			}
			if result.Interval != tt.wantInterval {
				t.Errorf("interval = %v, want %v", result.Interval, tt.wantInterval)
			}
			if result.Repetitions != tt.wantRepetitions {
				t.Errorf("repetitions = %v, want %v", result.Repetitions, tt.wantRepetitions)
			}
			if result.CorrectCount != tt.card.CorrectCount+1 {
				t.Errorf("correct_count = %v, want %v", result.CorrectCount, tt.card.CorrectCount+1)
			}
			if result.IncorrectCount != tt.card.IncorrectCount {
				t.Errorf("incorrect_count = %v, want %v", result.IncorrectCount, tt.card.IncorrectCount)
			}
			if result.LastReviewed == nil || !result.LastReviewed.Equal(now) {
				t.Errorf("last_reviewed = %v, want %v", result.LastReviewed, now)
			}
		})
	}
}

func TestReviewIncorrect(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		card     models.Card
		wantEase float64
	}{
		{
			name:     "failure resets progress",
			card:     models.Card{Ease: 2.5, Interval: 15, Repetitions: 5, CorrectCount: 5},
			wantEase: 2.3,
		},
		{
			name:     "ease is floored at 1.3 not 1.15",
			card:     models.Card{Ease: 1.35, Interval: 3, Repetitions: 2},
			wantEase: 1.3,
		},
		{
			name:     "ease already at the floor stays there",
			card:     models.Card{Ease: 1.3, Interval: 1, Repetitions: 1},
			wantEase: 1.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Review(tt.card, false, now)

			if math.Abs(result.Ease-tt.wantEase) > 1e-9 {
				t.Errorf("ease = %v, want %v", result.Ease, tt.wantEase)
			}
			if result.Repetitions != 0 {
				t.Errorf("repetitions = %v, want 0", result.Repetitions)
			}
			if result.Interval != 1 {
				t.Errorf("interval = %v, want 1", result.Interval)
			}
			if result.IncorrectCount != tt.card.IncorrectCount+1 {
				t.Errorf("incorrect_count = %v, want %v", result.IncorrectCount, tt.card.IncorrectCount+1)
			}
			if result.CorrectCount != tt.card.CorrectCount {
				t.Errorf("correct_count = %v, want %v", result.CorrectCount, tt.card.CorrectCount)
			}
		})
	}
}

// TestReviewTrajectory walks a fresh card through n correct reviews and
// checks the invariants hold at every step: repetitions track the
// streak, ease never decreases, the interval follows 1, 6, then
// round(interval*ease), and the counters always sum to total reviews.
func TestReviewTrajectory(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	card := freshCard()

	prevEase := card.Ease
	prevInterval := 0

	for n := 1; n <= 10; n++ {
		card = Review(card, true, now)

		if card.Repetitions != n {
			t.Fatalf("after %d reviews: repetitions = %d, want %d", n, card.Repetitions, n)
		}
		if card.Ease < prevEase {
			t.Fatalf("after %d reviews: ease decreased from %v to %v", n, prevEase, card.Ease)
		}
		if card.TotalReviews() != n {
			t.Fatalf("after %d reviews: total reviews = %d, want %d", n, card.TotalReviews(), n)
		}

		var wantInterval int
		switch n {
		case 1:
			wantInterval = 1
		case 2:
			wantInterval = 6
		default:
			wantInterval = int(math.Round(float64(prevInterval) * card.Ease))
		}
		if card.Interval != wantInterval {
			t.Fatalf("after %d reviews: interval = %d, want %d", n, card.Interval, wantInterval)
		}

		prevEase = card.Ease
		prevInterval = card.Interval
	}
}

func TestReviewDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	card := freshCard()

	Review(card, true, now)

	if card.Repetitions != 0 || card.CorrectCount != 0 || card.LastReviewed != nil {
		t.Errorf("input card was mutated: %+v", card)
	}
}
