package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/repository"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string                `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Profiles   []ProfileBackup       `json:"profiles"`
	Decks      []DeckBackup          `json:"decks"`
	Grants     []models.DeckGrant    `json:"grants"`
	Sessions   []models.StudySession `json:"sessions"`
	Reminders  []models.Reminder     `json:"reminders"`
}

// ProfileBackup carries the password hash that the profile model keeps
// out of its normal JSON form
type ProfileBackup struct {
	models.Profile
	PasswordHash string `json:"password_hash"`
}

// DeckBackup represents a deck with its full card set for backup
type DeckBackup struct {
	models.Deck
	Cards []models.Card `json:"cards"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database as indented JSON to a writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
	}

	profileRepo := repository.NewProfileRepository(s.db)
	deckRepo := repository.NewDeckRepository(s.db)
	cardRepo := repository.NewCardRepository(s.db)
	grantRepo := repository.NewGrantRepository(s.db)

	profiles, err := profileRepo.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}
	for _, profile := range profiles {
		backup.Profiles = append(backup.Profiles, ProfileBackup{
			Profile:      profile,
			PasswordHash: profile.PasswordHash,
		})
	}

	deckIDs, err := s.allDeckIDs()
	if err != nil {
		return fmt.Errorf("failed to export decks: %w", err)
	}
	for _, deckID := range deckIDs {
		deck, err := deckRepo.GetDeckByID(deckID)
		if err != nil {
			return fmt.Errorf("failed to export deck %s: %w", deckID, err)
		}
		if deck == nil {
			continue
		}

		cards, err := cardRepo.ListCards(deckID)
		if err != nil {
			return fmt.Errorf("failed to export cards for deck %s: %w", deckID, err)
		}
		deck.Len = len(cards)
		backup.Decks = append(backup.Decks, DeckBackup{Deck: *deck, Cards: cards})

		grant, err := grantRepo.GetGrant(deckID)
		if err != nil {
			return fmt.Errorf("failed to export grant for deck %s: %w", deckID, err)
		}
		if grant != nil {
			backup.Grants = append(backup.Grants, *grant)
		}
	}

	if err := s.exportSessions(backup); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if err := s.exportReminders(backup); err != nil {
		return fmt.Errorf("failed to export reminders: %w", err)
	}

	log.Printf("Exported: %d profiles, %d decks, %d grants, %d sessions, %d reminders",
		len(backup.Profiles), len(backup.Decks), len(backup.Grants),
		len(backup.Sessions), len(backup.Reminders))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file. The target database
// is expected to be empty.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	profileRepo := repository.NewProfileRepository(tx)
	deckRepo := repository.NewDeckRepository(tx)
	cardRepo := repository.NewCardRepository(tx)
	grantRepo := repository.NewGrantRepository(tx)
	sessionRepo := repository.NewSessionRepository(tx)
	reminderRepo := repository.NewReminderRepository(tx)

	log.Printf("Importing %d profiles...", len(backup.Profiles))
	for i := range backup.Profiles {
		profile := backup.Profiles[i].Profile
		profile.PasswordHash = backup.Profiles[i].PasswordHash
		if err := profileRepo.CreateProfile(&profile); err != nil {
			return fmt.Errorf("failed to import profile %s: %w", profile.Username, err)
		}
	}

	log.Printf("Importing %d decks...", len(backup.Decks))
	for _, deckBackup := range backup.Decks {
		deck := deckBackup.Deck
		if err := deckRepo.CreateDeck(&deck); err != nil {
			return fmt.Errorf("failed to import deck %s: %w", deck.ID, err)
		}
		for i := range deckBackup.Cards {
			card := deckBackup.Cards[i]
			card.DeckID = deck.ID
			if err := cardRepo.InsertCard(&card); err != nil {
				return fmt.Errorf("failed to import card %s/%s: %w", deck.ID, card.ID, err)
			}
		}
		if err := deckRepo.RefreshLen(deck.ID); err != nil {
			return fmt.Errorf("failed to refresh length for deck %s: %w", deck.ID, err)
		}
	}

	log.Printf("Importing %d grants...", len(backup.Grants))
	for _, grant := range backup.Grants {
		if err := grantRepo.SetOwner(grant.DeckID, grant.Owner); err != nil {
			return fmt.Errorf("failed to import grant for deck %s: %w", grant.DeckID, err)
		}
		for _, username := range grant.Editors {
			if err := grantRepo.Grant(grant.DeckID, models.RoleEditors, username); err != nil {
				return fmt.Errorf("failed to import editor grant for deck %s: %w", grant.DeckID, err)
			}
		}
		for _, username := range grant.Reviewers {
			if err := grantRepo.Grant(grant.DeckID, models.RoleReviewers, username); err != nil {
				return fmt.Errorf("failed to import reviewer grant for deck %s: %w", grant.DeckID, err)
			}
		}
	}

	log.Printf("Importing %d sessions...", len(backup.Sessions))
	for i := range backup.Sessions {
		if err := sessionRepo.InsertSession(&backup.Sessions[i]); err != nil {
			return fmt.Errorf("failed to import session %s: %w", backup.Sessions[i].ID, err)
		}
	}

	log.Printf("Importing %d reminders...", len(backup.Reminders))
	for i := range backup.Reminders {
		if _, err := reminderRepo.CreateReminder(&backup.Reminders[i]); err != nil {
			return fmt.Errorf("failed to import reminder for %s: %w", backup.Reminders[i].Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) allDeckIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM decks ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *BackupService) exportSessions(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, username, duration_seconds, subject, mode, started_at FROM study_sessions ORDER BY started_at ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var session models.StudySession
		if err := rows.Scan(&session.ID, &session.Username, &session.DurationSeconds, &session.Subject, &session.Mode, &session.StartedAt); err != nil {
			return err
		}
		backup.Sessions = append(backup.Sessions, session)
	}
	return rows.Err()
}

func (s *BackupService) exportReminders(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, username, message, channel, remind_at, status, created_at FROM reminders ORDER BY id ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var reminder models.Reminder
		var channel, status string
		if err := rows.Scan(&reminder.ID, &reminder.Username, &reminder.Message, &channel, &reminder.RemindAt, &status, &reminder.CreatedAt); err != nil {
			return err
		}
		reminder.Channel = models.ReminderChannel(channel)
		reminder.Status = models.ReminderStatus(status)
		backup.Reminders = append(backup.Reminders, reminder)
	}
	return rows.Err()
}
