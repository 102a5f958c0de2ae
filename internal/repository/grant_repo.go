package repository

import (
	"database/sql"
	"fmt"

	"bookme/internal/database"
	"bookme/internal/models"
)

// GrantRepository handles database operations for deck permission
// grants. Membership writes use the dialect's insert-or-ignore form so
// grants behave as sets: adding twice is the same as adding once.
type GrantRepository struct {
	db database.DBTX
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(db database.DBTX) *GrantRepository {
	return &GrantRepository{db: db}
}

// Grant adds a username to the named membership set, creating the
// grant document first if it does not exist yet. Idempotent.
func (r *GrantRepository) Grant(deckID string, role models.GrantRole, username string) error {
	if !role.Valid() {
		return fmt.Errorf("unknown grant role: %s", role)
	}

	if err := r.ensureGrant(deckID); err != nil {
		return err
	}

	_, err := r.db.ExecInsertIgnore(
		"INSERT INTO grant_members (deck_id, role, username) VALUES (?, ?, ?)",
		deckID, string(role), username,
	)
	if err != nil {
		return fmt.Errorf("failed to add grant: %w", err)
	}
	return nil
}

// Revoke removes a username from the named membership set. Revoking
// the "all" sentinel is a no-op: public access must survive ordinary
// revocation attempts.
func (r *GrantRepository) Revoke(deckID string, role models.GrantRole, username string) error {
	if !role.Valid() {
		return fmt.Errorf("unknown grant role: %s", role)
	}
	if username == models.AllUsers {
		return nil
	}

	_, err := r.db.Exec(
		"DELETE FROM grant_members WHERE deck_id = ? AND role = ? AND username = ?",
		deckID, string(role), username,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke grant: %w", err)
	}
	return nil
}

// SetOwner sets or overwrites the single owner of a deck's grant,
// creating the grant document if absent
func (r *GrantRepository) SetOwner(deckID, username string) error {
	if err := r.ensureGrant(deckID); err != nil {
		return err
	}

	_, err := r.db.Exec("UPDATE deck_grants SET owner = ? WHERE deck_id = ?", username, deckID)
	if err != nil {
		return fmt.Errorf("failed to set owner: %w", err)
	}
	return nil
}

// GetGrant retrieves the full grant document for a deck, or nil if absent
func (r *GrantRepository) GetGrant(deckID string) (*models.DeckGrant, error) {
	grant := &models.DeckGrant{DeckID: deckID}

	var owner sql.NullString
	err := r.db.QueryRow("SELECT owner FROM deck_grants WHERE deck_id = ?", deckID).Scan(&owner)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	if owner.Valid {
		grant.Owner = owner.String
	}

	rows, err := r.db.Query(
		"SELECT role, username FROM grant_members WHERE deck_id = ? ORDER BY username ASC",
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query grant members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, username string
		if err := rows.Scan(&role, &username); err != nil {
			return nil, fmt.Errorf("failed to scan grant member: %w", err)
		}
		switch models.GrantRole(role) {
		case models.RoleEditors:
			grant.Editors = append(grant.Editors, username)
		case models.RoleReviewers:
			grant.Reviewers = append(grant.Reviewers, username)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grant members: %w", err)
	}

	return grant, nil
}

// PermissionsFor collects the deck ids a user can act on per role:
// decks where the username (or "all") appears in a membership set, and
// decks the user literally owns
func (r *GrantRepository) PermissionsFor(username string) (*models.Permissions, error) {
	perms := &models.Permissions{}

	for _, role := range []models.GrantRole{models.RoleEditors, models.RoleReviewers} {
		rows, err := r.db.Query(
			"SELECT DISTINCT deck_id FROM grant_members WHERE role = ? AND (username = ? OR username = ?) ORDER BY deck_id ASC",
			string(role), username, models.AllUsers,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to query permissions: %w", err)
		}

		var deckIDs []string
		for rows.Next() {
			var deckID string
			if err := rows.Scan(&deckID); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan permission: %w", err)
			}
			deckIDs = append(deckIDs, deckID)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to iterate permissions: %w", err)
		}
		rows.Close()

		if role == models.RoleEditors {
			perms.Editor = deckIDs
		} else {
			perms.Reviewer = deckIDs
		}
	}

	rows, err := r.db.Query("SELECT deck_id FROM deck_grants WHERE owner = ? ORDER BY deck_id ASC", username)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned decks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deckID string
		if err := rows.Scan(&deckID); err != nil {
			return nil, fmt.Errorf("failed to scan owned deck: %w", err)
		}
		perms.Owner = append(perms.Owner, deckID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owned decks: %w", err)
	}

	return perms, nil
}

// DeleteGrant removes a deck's grant document and its membership sets
// (used when the owning deck is deleted)
func (r *GrantRepository) DeleteGrant(deckID string) error {
	if _, err := r.db.Exec("DELETE FROM grant_members WHERE deck_id = ?", deckID); err != nil {
		return fmt.Errorf("failed to delete grant members: %w", err)
	}
	if _, err := r.db.Exec("DELETE FROM deck_grants WHERE deck_id = ?", deckID); err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}
	return nil
}

func (r *GrantRepository) ensureGrant(deckID string) error {
	_, err := r.db.ExecInsertIgnore("INSERT INTO deck_grants (deck_id) VALUES (?)", deckID)
	if err != nil {
		return fmt.Errorf("failed to ensure grant document: %w", err)
	}
	return nil
}
