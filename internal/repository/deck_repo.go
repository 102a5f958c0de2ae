package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"bookme/internal/database"
	"bookme/internal/models"
)

// DeckRepository handles database operations for decks and their tags
type DeckRepository struct {
	db database.DBTX
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(db database.DBTX) *DeckRepository {
	return &DeckRepository{db: db}
}

// NextDeckID allocates the next deck id: one past the highest numeric
// id currently in use, or "1" when no numeric ids exist
func (r *DeckRepository) NextDeckID() (string, error) {
	rows, err := r.db.Query("SELECT id FROM decks")
	if err != nil {
		return "", fmt.Errorf("failed to query deck ids: %w", err)
	}
	defer rows.Close()

	maxID := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan deck id: %w", err)
		}
		if n, err := strconv.Atoi(id); err == nil && n > maxID {
			maxID = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate deck ids: %w", err)
	}

	return strconv.Itoa(maxID + 1), nil
}

// CreateDeck inserts a new deck row and its tag set
func (r *DeckRepository) CreateDeck(deck *models.Deck) error {
	query := `
		INSERT INTO decks (id, name, summary, subject, category, card_count)
		VALUES (?, ?, ?, ?, ?, 0)
	`
	_, err := r.db.Exec(query, deck.ID, deck.Name, deck.Summary, deck.Subject, deck.Category)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	if err := r.insertTags(deck.ID, deck.Tags); err != nil {
		return err
	}

	return nil
}

// GetDeckByID retrieves a deck row with its tags, or nil if absent.
// Cards are loaded separately by the card repository.
func (r *DeckRepository) GetDeckByID(deckID string) (*models.Deck, error) {
	query := `
		SELECT id, name, summary, subject, category, card_count, created_at, updated_at
		FROM decks
		WHERE id = ?
	`
	deck := &models.Deck{}
	err := r.db.QueryRow(query, deckID).Scan(
		&deck.ID,
		&deck.Name,
		&deck.Summary,
		&deck.Subject,
		&deck.Category,
		&deck.Len,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	tags, err := r.getTags(deck.ID)
	if err != nil {
		return nil, err
	}
	deck.Tags = tags

	return deck, nil
}

// DeckUpdate describes a partial deck metadata update. Nil fields are
// left untouched; a non-nil Tags replaces the whole tag set.
type DeckUpdate struct {
	Name     *string
	Summary  *string
	Subject  *string
	Category *string
	Tags     []string
	HasTags  bool
}

// UpdateDeckInfo applies a partial update to a deck's metadata
func (r *DeckRepository) UpdateDeckInfo(deckID string, update DeckUpdate) error {
	var sets []string
	var args []interface{}

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *update.Summary)
	}
	if update.Subject != nil {
		sets = append(sets, "subject = ?")
		args = append(args, *update.Subject)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		query := "UPDATE decks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		args = append(args, deckID)
		if _, err := r.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to update deck: %w", err)
		}
	}

	if update.HasTags {
		// Replace the full tag set: delete-all then insert
		if _, err := r.db.Exec("DELETE FROM deck_tags WHERE deck_id = ?", deckID); err != nil {
			return fmt.Errorf("failed to clear deck tags: %w", err)
		}
		if err := r.insertTags(deckID, update.Tags); err != nil {
			return err
		}
	}

	return nil
}

// DeleteDeck removes the deck row. Cards and tags cascade via foreign
// keys; the grant document is removed by the grant repository.
// Returns whether the deck row existed.
func (r *DeckRepository) DeleteDeck(deckID string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM decks WHERE id = ?", deckID)
	if err != nil {
		return false, fmt.Errorf("failed to delete deck: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted deck: %w", err)
	}
	return affected > 0, nil
}

// ListDecksVisibleTo retrieves all decks where the username (or the
// "all" sentinel) appears among the editors or reviewers
func (r *DeckRepository) ListDecksVisibleTo(username string) ([]models.Deck, error) {
	query := `
		SELECT DISTINCT d.id, d.name, d.summary, d.subject, d.category, d.card_count, d.created_at, d.updated_at
		FROM decks d
		INNER JOIN grant_members gm ON gm.deck_id = d.id
		WHERE gm.username = ? OR gm.username = ?
		ORDER BY d.id ASC
	`
	rows, err := r.db.Query(query, username, models.AllUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query visible decks: %w", err)
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var deck models.Deck
		if err := rows.Scan(
			&deck.ID,
			&deck.Name,
			&deck.Summary,
			&deck.Subject,
			&deck.Category,
			&deck.Len,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	for i := range decks {
		tags, err := r.getTags(decks[i].ID)
		if err != nil {
			return nil, err
		}
		decks[i].Tags = tags
	}

	return decks, nil
}

// RefreshLen re-derives the persisted card count from the cards table.
// The count is never incremented in place so it cannot drift from the
// actual card set.
func (r *DeckRepository) RefreshLen(deckID string) error {
	query := `
		UPDATE decks
		SET card_count = (SELECT COUNT(*) FROM cards WHERE deck_id = ?)
		WHERE id = ?
	`
	_, err := r.db.Exec(query, deckID, deckID)
	if err != nil {
		return fmt.Errorf("failed to refresh deck length: %w", err)
	}
	return nil
}

func (r *DeckRepository) insertTags(deckID string, tags []string) error {
	for _, tag := range tags {
		_, err := r.db.ExecInsertIgnore("INSERT INTO deck_tags (deck_id, tag) VALUES (?, ?)", deckID, tag)
		if err != nil {
			return fmt.Errorf("failed to insert deck tag: %w", err)
		}
	}
	return nil
}

func (r *DeckRepository) getTags(deckID string) ([]string, error) {
	rows, err := r.db.Query("SELECT tag FROM deck_tags WHERE deck_id = ? ORDER BY tag ASC", deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deck tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan deck tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
