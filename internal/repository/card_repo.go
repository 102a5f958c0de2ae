package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"bookme/internal/database"
	"bookme/internal/models"
)

// CardRepository handles database operations for flashcards
type CardRepository struct {
	db database.DBTX
}

// NewCardRepository creates a new card repository
func NewCardRepository(db database.DBTX) *CardRepository {
	return &CardRepository{db: db}
}

// NextCardID allocates the next card id within a deck: one past the
// highest numeric id, falling back to count+1 when the deck only holds
// non-numeric ids
func (r *CardRepository) NextCardID(deckID string) (string, error) {
	rows, err := r.db.Query("SELECT id FROM cards WHERE deck_id = ?", deckID)
	if err != nil {
		return "", fmt.Errorf("failed to query card ids: %w", err)
	}
	defer rows.Close()

	maxID := 0
	hasNumeric := false
	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan card id: %w", err)
		}
		count++
		if n, err := strconv.Atoi(id); err == nil {
			hasNumeric = true
			if n > maxID {
				maxID = n
			}
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate card ids: %w", err)
	}

	if hasNumeric {
		return strconv.Itoa(maxID + 1), nil
	}
	return strconv.Itoa(count + 1), nil
}

// InsertCard inserts a new card with its tags
func (r *CardRepository) InsertCard(card *models.Card) error {
	query := `
		INSERT INTO cards (deck_id, id, front, back, correct_count, incorrect_count, last_reviewed, ease, interval_days, repetitions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		card.DeckID,
		card.ID,
		card.Front,
		card.Back,
		card.CorrectCount,
		card.IncorrectCount,
		card.LastReviewed,
		card.Ease,
		card.Interval,
		card.Repetitions,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	for _, tag := range card.Tags {
		_, err := r.db.ExecInsertIgnore("INSERT INTO card_tags (deck_id, card_id, tag) VALUES (?, ?, ?)", card.DeckID, card.ID, tag)
		if err != nil {
			return fmt.Errorf("failed to insert card tag: %w", err)
		}
	}

	return nil
}

// GetCard retrieves a single card by id, or nil if absent
func (r *CardRepository) GetCard(deckID, cardID string) (*models.Card, error) {
	query := `
		SELECT deck_id, id, front, back, correct_count, incorrect_count, last_reviewed, ease, interval_days, repetitions
		FROM cards
		WHERE deck_id = ? AND id = ?
	`
	card := &models.Card{}
	err := r.db.QueryRow(query, deckID, cardID).Scan(
		&card.DeckID,
		&card.ID,
		&card.Front,
		&card.Back,
		&card.CorrectCount,
		&card.IncorrectCount,
		&card.LastReviewed,
		&card.Ease,
		&card.Interval,
		&card.Repetitions,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	tags, err := r.getCardTags(deckID, cardID)
	if err != nil {
		return nil, err
	}
	card.Tags = tags

	return card, nil
}

// ListCards retrieves all cards in a deck ordered by id ascending
// (numeric ids in numeric order, others lexically after them)
func (r *CardRepository) ListCards(deckID string) ([]models.Card, error) {
	query := `
		SELECT deck_id, id, front, back, correct_count, incorrect_count, last_reviewed, ease, interval_days, repetitions
		FROM cards
		WHERE deck_id = ?
	`
	rows, err := r.db.Query(query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.DeckID,
			&card.ID,
			&card.Front,
			&card.Back,
			&card.CorrectCount,
			&card.IncorrectCount,
			&card.LastReviewed,
			&card.Ease,
			&card.Interval,
			&card.Repetitions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	sort.Slice(cards, func(i, j int) bool {
		return cardIDLess(cards[i].ID, cards[j].ID)
	})

	tagsByCard, err := r.getDeckCardTags(deckID)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].Tags = tagsByCard[cards[i].ID]
	}

	return cards, nil
}

// UpdateCardContent overwrites a card's front and back in place.
// Returns false when no card with that id exists.
func (r *CardRepository) UpdateCardContent(deckID, cardID, front, back string) (bool, error) {
	query := "UPDATE cards SET front = ?, back = ? WHERE deck_id = ? AND id = ?"
	result, err := r.db.Exec(query, front, back, deckID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to update card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated card: %w", err)
	}
	return affected > 0, nil
}

// UpdateReviewState persists the spaced-repetition fields after a review
func (r *CardRepository) UpdateReviewState(card *models.Card) error {
	query := `
		UPDATE cards
		SET correct_count = ?, incorrect_count = ?, last_reviewed = ?, ease = ?, interval_days = ?, repetitions = ?
		WHERE deck_id = ? AND id = ?
	`
	_, err := r.db.Exec(query,
		card.CorrectCount,
		card.IncorrectCount,
		card.LastReviewed,
		card.Ease,
		card.Interval,
		card.Repetitions,
		card.DeckID,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review state: %w", err)
	}
	return nil
}

// DeleteCard removes a card; returns false when it was absent
func (r *CardRepository) DeleteCard(deckID, cardID string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM cards WHERE deck_id = ? AND id = ?", deckID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to delete card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted card: %w", err)
	}
	return affected > 0, nil
}

// CountCards returns the number of cards in a deck
func (r *CardRepository) CountCards(deckID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM cards WHERE deck_id = ?", deckID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

func (r *CardRepository) getCardTags(deckID, cardID string) ([]string, error) {
	rows, err := r.db.Query("SELECT tag FROM card_tags WHERE deck_id = ? AND card_id = ? ORDER BY tag ASC", deckID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query card tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan card tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *CardRepository) getDeckCardTags(deckID string) (map[string][]string, error) {
	rows, err := r.db.Query("SELECT card_id, tag FROM card_tags WHERE deck_id = ? ORDER BY tag ASC", deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query card tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var cardID, tag string
		if err := rows.Scan(&cardID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan card tag: %w", err)
		}
		tags[cardID] = append(tags[cardID], tag)
	}
	return tags, rows.Err()
}

// cardIDLess orders card ids numerically when both sides are numeric,
// otherwise numeric ids sort first and the rest compare as strings
func cardIDLess(a, b string) bool {
	na, aErr := strconv.Atoi(a)
	nb, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return na < nb
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
