package service

import (
	"errors"
	"testing"

	"bookme/internal/models"
)

func TestGrantsAreSets(t *testing.T) {
	db := newTestDB(t)
	study := NewStudyService(db)
	access := NewAccessService(db)

	deck, err := study.CreateDeck("emma", &models.Deck{Name: "Physics"})
	if err != nil {
		t.Fatalf("CreateDeck() error = %v", err)
	}

	// Granting the same user twice leaves a single membership row
	for i := 0; i < 3; i++ {
		if err := access.Grant(deck.ID, models.RoleEditors, "liam"); err != nil {
			t.Fatalf("Grant() #%d error = %v", i+1, err)
		}
	}

	grant, err := access.GetGrant(deck.ID)
	if err != nil {
		t.Fatalf("GetGrant() error = %v", err)
	}
	liamCount := 0
	for _, username := range grant.Editors {
		if username == "liam" {
			liamCount++
		}
	}
	if liamCount != 1 {
		t.Errorf("liam appears %d times in editors, want 1", liamCount)
	}

	if err := access.Grant(deck.ID, "admins", "liam"); err == nil {
		t.Error("Grant() with unknown role succeeded, want error")
	}
}

func TestRevokeProtectsPublicSentinel(t *testing.T) {
	db := newTestDB(t)
	study := NewStudyService(db)
	access := NewAccessService(db)

	deck, err := study.CreateDeck("emma", &models.Deck{Name: "History"})
	if err != nil {
		t.Fatalf("CreateDeck() error = %v", err)
	}
	if err := access.Grant(deck.ID, models.RoleReviewers, "liam"); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	// Revoking "all" silently does nothing
	if err := access.Revoke(deck.ID, models.RoleReviewers, models.AllUsers); err != nil {
		t.Fatalf("Revoke(all) error = %v", err)
	}
	grant, err := access.GetGrant(deck.ID)
	if err != nil {
		t.Fatalf("GetGrant() error = %v", err)
	}
	found := false
	for _, username := range grant.Reviewers {
		if username == models.AllUsers {
			found = true
		}
	}
	if !found {
		t.Error("Revoke(all) removed the public sentinel")
	}

	// Ordinary users can be revoked, and revoking twice is harmless
	for i := 0; i < 2; i++ {
		if err := access.Revoke(deck.ID, models.RoleReviewers, "liam"); err != nil {
			t.Fatalf("Revoke() #%d error = %v", i+1, err)
		}
	}
	grant, err = access.GetGrant(deck.ID)
	if err != nil {
		t.Fatalf("GetGrant() error = %v", err)
	}
	for _, username := range grant.Reviewers {
		if username == "liam" {
			t.Error("liam still in reviewers after revoke")
		}
	}
}

func TestAuthorizationFailsClosed(t *testing.T) {
	db := newTestDB(t)
	study := NewStudyService(db)
	access := NewAccessService(db)

	deck, err := study.CreateDeck("emma", &models.Deck{Name: "Latin"})
	if err != nil {
		t.Fatalf("CreateDeck() error = %v", err)
	}

	// Strip the default public access and build an explicit matrix:
	// emma owns, liam edits only, noor reviews only
	if _, err := db.Exec("DELETE FROM grant_members WHERE deck_id = ?", deck.ID); err != nil {
		t.Fatalf("failed to strip grant members: %v", err)
	}
	if err := access.Grant(deck.ID, models.RoleEditors, "liam"); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if err := access.Grant(deck.ID, models.RoleReviewers, "noor"); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	tests := []struct {
		username   string
		canEdit    bool
		canReview  bool
	}{
		{username: "emma", canEdit: true, canReview: true},   // owner is always allowed
		{username: "liam", canEdit: true, canReview: false},  // editor does not imply reviewer
		{username: "noor", canEdit: false, canReview: true},  // reviewer does not imply editor
		{username: "zoe", canEdit: false, canReview: false},  // no grant at all
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			canEdit, err := access.CanEdit(deck.ID, tt.username)
			if err != nil {
				t.Fatalf("CanEdit() error = %v", err)
			}
			if canEdit != tt.canEdit {
				t.Errorf("CanEdit(%s) = %v, want %v", tt.username, canEdit, tt.canEdit)
			}

			canReview, err := access.CanReview(deck.ID, tt.username)
			if err != nil {
				t.Fatalf("CanReview() error = %v", err)
			}
			if canReview != tt.canReview {
				t.Errorf("CanReview(%s) = %v, want %v", tt.username, canReview, tt.canReview)
			}
		})
	}

	// A deck with no grant document denies everyone
	canEdit, err := access.CanEdit("no-such-deck", "emma")
	if err != nil {
		t.Fatalf("CanEdit(absent deck) error = %v", err)
	}
	if canEdit {
		t.Error("CanEdit(absent deck) = true, want fail closed")
	}
}

func TestPermissionsFor(t *testing.T) {
	db := newTestDB(t)
	study := NewStudyService(db)
	access := NewAccessService(db)
	profiles := NewProfileService(db)

	if _, err := profiles.Register("emma", "Emma Watson", "emma@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := profiles.Register("liam", "Liam Chen", "liam@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	owned, err := study.CreateDeck("emma", &models.Deck{Name: "Owned"})
	if err != nil {
		t.Fatalf("CreateDeck() error = %v", err)
	}
	shared, err := study.CreateDeck("liam", &models.Deck{Name: "Shared"})
	if err != nil {
		t.Fatalf("CreateDeck() error = %v", err)
	}

	// Decks are public by default, so both appear via the sentinel
	perms, err := access.PermissionsFor("emma")
	if err != nil {
		t.Fatalf("PermissionsFor() error = %v", err)
	}
	if len(perms.Editor) != 2 || len(perms.Reviewer) != 2 {
		t.Errorf("perms = editor %v reviewer %v, want both decks in both", perms.Editor, perms.Reviewer)
	}
	if len(perms.Owner) != 1 || perms.Owner[0] != owned.ID {
		t.Errorf("owner perms = %v, want [%s]", perms.Owner, owned.ID)
	}

	perms, err = access.PermissionsFor("liam")
	if err != nil {
		t.Fatalf("PermissionsFor(liam) error = %v", err)
	}
	if len(perms.Owner) != 1 || perms.Owner[0] != shared.ID {
		t.Errorf("liam owner perms = %v, want [%s]", perms.Owner, shared.ID)
	}

	// Unknown usernames are rejected, not given empty permissions
	if _, err := access.PermissionsFor("ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("PermissionsFor(ghost) error = %v, want ErrProfileNotFound", err)
	}
}
