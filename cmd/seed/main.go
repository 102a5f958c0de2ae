package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"bookme/internal/config"
	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/service"
)

type seedCard struct {
	front string
	back  string
	tags  []string
}

type seedDeck struct {
	owner    string
	name     string
	summary  string
	subject  string
	category string
	tags     []string
	cards    []seedCard
}

func main() {
	wipe := flag.Bool("wipe", false, "Delete existing data before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *wipe {
		if err := wipeData(db); err != nil {
			log.Fatalf("Failed to wipe data: %v", err)
		}
	}

	if err := seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}

func seed(db *database.DB) error {
	profiles := service.NewProfileService(db)
	study := service.NewStudyService(db)
	access := service.NewAccessService(db)
	sessions := service.NewSessionService(db)
	reminders := service.NewReminderService(db, mustMailer())

	now := time.Now().UTC()

	users := []struct {
		username string
		name     string
		email    string
	}{
		{"emma", "Emma Watson", "emma@example.com"},
		{"liam", "Liam Chen", "liam@example.com"},
		{"noor", "Noor Haddad", "noor@example.com"},
	}
	for _, u := range users {
		if _, err := profiles.Register(u.username, u.name, u.email, "password123"); err != nil {
			return err
		}
		if _, err := profiles.RecordLogin(u.username, now); err != nil {
			return err
		}
		log.Printf("Seeded profile: %s", u.username)
	}

	decks := []seedDeck{
		{
			owner:    "emma",
			name:     "Biology 101",
			summary:  "Cell structure and organelles",
			subject:  "biology",
			category: "science",
			tags:     []string{"biology", "cells"},
			cards: []seedCard{
				{front: "What is the powerhouse of the cell?", back: "The mitochondria", tags: []string{"organelles"}},
				{front: "Where does protein synthesis happen?", back: "The ribosome", tags: []string{"organelles"}},
				{front: "What controls what enters and leaves the cell?", back: "The cell membrane"},
			},
		},
		{
			owner:    "liam",
			name:     "Spanish Basics",
			summary:  "Everyday greetings and phrases",
			subject:  "spanish",
			category: "languages",
			tags:     []string{"spanish", "vocab"},
			cards: []seedCard{
				{front: "hello", back: "hola"},
				{front: "thank you", back: "gracias"},
				{front: "goodbye", back: "adios"},
				{front: "please", back: "por favor"},
			},
		},
	}

	var deckIDs []string
	for _, sd := range decks {
		subject := sd.subject
		category := sd.category
		deck, err := study.CreateDeck(sd.owner, &models.Deck{
			Name:     sd.name,
			Summary:  sd.summary,
			Subject:  &subject,
			Category: &category,
			Tags:     sd.tags,
		})
		if err != nil {
			return err
		}
		for _, sc := range sd.cards {
			if _, err := study.AddCard(deck.ID, models.Card{Front: sc.front, Back: sc.back, Tags: sc.tags}); err != nil {
				return err
			}
		}
		deckIDs = append(deckIDs, deck.ID)
		log.Printf("Seeded deck %s (%s) with %d cards", deck.ID, sd.name, len(sd.cards))
	}

	// Cross-grants beyond the default public access
	if err := access.Grant(deckIDs[0], models.RoleEditors, "liam"); err != nil {
		return err
	}
	if err := access.Grant(deckIDs[1], models.RoleReviewers, "emma"); err != nil {
		return err
	}

	// A little study history for the dashboard
	subject := "biology"
	if _, err := sessions.RecordSession("emma", 1500, &subject, nil, now.Add(-26*time.Hour)); err != nil {
		return err
	}
	if _, err := sessions.RecordSession("emma", 900, &subject, nil, now.Add(-2*time.Hour)); err != nil {
		return err
	}

	if _, err := reminders.Schedule("emma", "Your biology deck is waiting", models.ChannelInApp, now.Add(24*time.Hour)); err != nil {
		return err
	}
	if _, err := reminders.Schedule("liam", "Keep your Spanish streak going", models.ChannelEmail, now.Add(24*time.Hour)); err != nil {
		return err
	}

	return nil
}

func mustMailer() *service.Mailer {
	// Seeding never sends email; a disabled mailer is enough
	mailer, err := service.NewMailer("", "", "", false)
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}
	return mailer
}

func wipeData(db *database.DB) error {
	log.Println("Wiping existing data...")

	tables := []string{
		"reminders",
		"study_sessions",
		"grant_members",
		"deck_grants",
		"card_tags",
		"cards",
		"deck_tags",
		"decks",
		"profiles",
	}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}
