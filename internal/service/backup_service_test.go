package service

import (
	"bytes"
	"testing"
	"time"

	"bookme/internal/models"
)

func TestBackupRoundTrip(t *testing.T) {
	source := newTestDB(t)
	profiles := NewProfileService(source)
	study := NewStudyService(source)
	sessions := NewSessionService(source)

	if _, err := profiles.Register("emma", "Emma Watson", "emma@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	deck, err := study.CreateDeck("emma", &models.Deck{Name: "Biology", Tags: []string{"science"}})
	if err != nil {
		t.Fatalf("CreateDeck() error = %v", err)
	}
	if _, err := study.AddCard(deck.ID, models.Card{Front: "mitochondria", Back: "powerhouse of the cell"}); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	if _, err := study.AddCard(deck.ID, models.Card{Front: "ribosome", Back: "protein factory"}); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}

	startedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := sessions.RecordSession("emma", 900, strPtr("biology"), nil, startedAt); err != nil {
		t.Fatalf("RecordSession() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewBackupService(source).ExportToWriter(&buf); err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}

	// Restore into a fresh database and verify the state carried over
	target := newTestDB(t)
	if err := NewBackupService(target).ImportFromReader(&buf); err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}

	restoredProfiles := NewProfileService(target)
	if _, err := restoredProfiles.Authenticate("emma", "password123"); err != nil {
		t.Errorf("restored profile cannot authenticate: %v", err)
	}

	restoredStudy := NewStudyService(target)
	restoredDeck, err := restoredStudy.GetDeck(deck.ID)
	if err != nil {
		t.Fatalf("GetDeck() on restored database error = %v", err)
	}
	if restoredDeck.Len != 2 || len(restoredDeck.Cards) != 2 {
		t.Errorf("restored deck Len = %d, cards = %d, want 2", restoredDeck.Len, len(restoredDeck.Cards))
	}
	if len(restoredDeck.Tags) != 1 || restoredDeck.Tags[0] != "science" {
		t.Errorf("restored deck tags = %v, want [science]", restoredDeck.Tags)
	}

	restoredAccess := NewAccessService(target)
	isOwner, err := restoredAccess.IsOwner(deck.ID, "emma")
	if err != nil {
		t.Fatalf("IsOwner() error = %v", err)
	}
	if !isOwner {
		t.Error("restored grant lost the deck owner")
	}
	canReview, err := restoredAccess.CanReview(deck.ID, "stranger")
	if err != nil {
		t.Fatalf("CanReview() error = %v", err)
	}
	if !canReview {
		t.Error("restored grant lost the public sentinel")
	}

	restoredSessions := NewSessionService(target)
	total, err := restoredSessions.TotalStudyTime("emma")
	if err != nil {
		t.Fatalf("TotalStudyTime() error = %v", err)
	}
	if total != 900 {
		t.Errorf("restored study time = %d, want 900", total)
	}
}
