package service

import (
	"errors"
	"fmt"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/repository"
	"bookme/internal/srs"
	"bookme/internal/validation"
)

var (
	// ErrDeckNotFound is returned when a deck id resolves to nothing
	ErrDeckNotFound = errors.New("deck not found")
	// ErrCardNotFound is returned when a card id resolves to nothing
	ErrCardNotFound = errors.New("card not found")
)

// StudyService handles deck and card business logic: deck lifecycle,
// card CRUD and spaced-repetition reviews. Writes that touch both the
// cards table and the deck's stored length run in one transaction so
// the length can never drift from the card set.
type StudyService struct {
	db        *database.DB
	deckRepo  *repository.DeckRepository
	cardRepo  *repository.CardRepository
	grantRepo *repository.GrantRepository
}

// NewStudyService creates a new study service
func NewStudyService(db *database.DB) *StudyService {
	return &StudyService{
		db:        db,
		deckRepo:  repository.NewDeckRepository(db),
		cardRepo:  repository.NewCardRepository(db),
		grantRepo: repository.NewGrantRepository(db),
	}
}

// CreateDeck creates a new deck owned by the given user. The deck
// starts empty, and its grant document is seeded with the owner plus
// the "all" sentinel in both membership sets so new decks are public
// until the owner revokes access.
func (s *StudyService) CreateDeck(owner string, deck *models.Deck) (*models.Deck, error) {
	if err := validation.ValidateDeckName(deck.Name); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deckRepo := repository.NewDeckRepository(tx)
	grantRepo := repository.NewGrantRepository(tx)

	if deck.ID == "" {
		id, err := deckRepo.NextDeckID()
		if err != nil {
			return nil, err
		}
		deck.ID = id
	}

	if err := deckRepo.CreateDeck(deck); err != nil {
		return nil, err
	}

	if err := grantRepo.SetOwner(deck.ID, owner); err != nil {
		return nil, err
	}
	for _, role := range []models.GrantRole{models.RoleEditors, models.RoleReviewers} {
		if err := grantRepo.Grant(deck.ID, role, owner); err != nil {
			return nil, err
		}
		if err := grantRepo.Grant(deck.ID, role, models.AllUsers); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	deck.Len = 0
	deck.Cards = []models.Card{}
	return deck, nil
}

// GetDeck retrieves a deck with all its cards. Len is derived from the
// loaded card set, never from the stored counter.
func (s *StudyService) GetDeck(deckID string) (*models.Deck, error) {
	deck, err := s.deckRepo.GetDeckByID(deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}

	cards, err := s.cardRepo.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Card{}
	}
	deck.Cards = cards
	deck.Len = len(cards)

	return deck, nil
}

// ListDecks retrieves the decks visible to a user: those where the
// username or the "all" sentinel appears among the editors or reviewers
func (s *StudyService) ListDecks(username string) ([]models.Deck, error) {
	return s.deckRepo.ListDecksVisibleTo(username)
}

// UpdateDeckInfo applies a partial metadata update to a deck
func (s *StudyService) UpdateDeckInfo(deckID string, update repository.DeckUpdate) error {
	if update.Name != nil {
		if err := validation.ValidateDeckName(*update.Name); err != nil {
			return err
		}
	}

	deck, err := s.deckRepo.GetDeckByID(deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return ErrDeckNotFound
	}

	return s.deckRepo.UpdateDeckInfo(deckID, update)
}

// DeleteDeck removes a deck, its cards and its grant document
func (s *StudyService) DeleteDeck(deckID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deckRepo := repository.NewDeckRepository(tx)
	grantRepo := repository.NewGrantRepository(tx)

	existed, err := deckRepo.DeleteDeck(deckID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrDeckNotFound
	}

	if err := grantRepo.DeleteGrant(deckID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddCard adds a new card to a deck. The card id is allocated from the
// deck's existing ids when not supplied, review counters start at zero
// and the ease factor starts at the default.
func (s *StudyService) AddCard(deckID string, card models.Card) (*models.Card, error) {
	deck, err := s.deckRepo.GetDeckByID(deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cardRepo := repository.NewCardRepository(tx)
	deckRepo := repository.NewDeckRepository(tx)

	card.DeckID = deckID
	if card.ID == "" {
		id, err := cardRepo.NextCardID(deckID)
		if err != nil {
			return nil, err
		}
		card.ID = id
	}
	card.CorrectCount = 0
	card.IncorrectCount = 0
	card.LastReviewed = nil
	card.Ease = models.DefaultEase
	card.Interval = 0
	card.Repetitions = 0

	if err := cardRepo.InsertCard(&card); err != nil {
		return nil, err
	}
	if err := deckRepo.RefreshLen(deckID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &card, nil
}

// UpdateCard overwrites a card's front and back. When no card with the
// given id exists the card is created instead, with fresh review state.
func (s *StudyService) UpdateCard(deckID, cardID, front, back string) (*models.Card, error) {
	deck, err := s.deckRepo.GetDeckByID(deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}

	updated, err := s.cardRepo.UpdateCardContent(deckID, cardID, front, back)
	if err != nil {
		return nil, err
	}
	if updated {
		return s.cardRepo.GetCard(deckID, cardID)
	}

	// Upsert: the id was never dealt out, so create the card under it
	card := models.Card{Front: front, Back: back, ID: cardID}
	return s.AddCard(deckID, card)
}

// DeleteCard removes a card from a deck
func (s *StudyService) DeleteCard(deckID, cardID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cardRepo := repository.NewCardRepository(tx)
	deckRepo := repository.NewDeckRepository(tx)

	existed, err := cardRepo.DeleteCard(deckID, cardID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrCardNotFound
	}
	if err := deckRepo.RefreshLen(deckID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordReview applies one review outcome to a card's scheduling state
// and persists the result. Returns the card as stored after the review.
func (s *StudyService) RecordReview(deckID, cardID string, correct bool, now time.Time) (*models.Card, error) {
	card, err := s.cardRepo.GetCard(deckID, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	reviewed := srs.Review(*card, correct, now)
	if err := s.cardRepo.UpdateReviewState(&reviewed); err != nil {
		return nil, err
	}

	return &reviewed, nil
}
