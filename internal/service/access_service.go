package service

import (
	"errors"

	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/repository"
)

// ErrProfileNotFound is returned when a username resolves to no profile
var ErrProfileNotFound = errors.New("profile not found")

// AccessService answers permission questions about decks. All checks
// fail closed: a missing grant document denies everything, and the
// editor and reviewer roles are independent of each other. The deck
// owner is always allowed regardless of membership.
type AccessService struct {
	grantRepo   *repository.GrantRepository
	profileRepo *repository.ProfileRepository
}

// NewAccessService creates a new access service
func NewAccessService(db *database.DB) *AccessService {
	return &AccessService{
		grantRepo:   repository.NewGrantRepository(db),
		profileRepo: repository.NewProfileRepository(db),
	}
}

// Grant adds a username to a deck's editors or reviewers set
func (s *AccessService) Grant(deckID string, role models.GrantRole, username string) error {
	return s.grantRepo.Grant(deckID, role, username)
}

// Revoke removes a username from a deck's editors or reviewers set.
// The "all" sentinel cannot be revoked this way.
func (s *AccessService) Revoke(deckID string, role models.GrantRole, username string) error {
	return s.grantRepo.Revoke(deckID, role, username)
}

// SetOwner transfers ownership of a deck's grant
func (s *AccessService) SetOwner(deckID, username string) error {
	return s.grantRepo.SetOwner(deckID, username)
}

// GetGrant retrieves a deck's full grant document, or nil if the deck
// has no grant
func (s *AccessService) GetGrant(deckID string) (*models.DeckGrant, error) {
	return s.grantRepo.GetGrant(deckID)
}

// PermissionsFor collects the decks a registered user can review, edit
// and owns. The username must belong to an existing profile.
func (s *AccessService) PermissionsFor(username string) (*models.Permissions, error) {
	exists, err := s.profileRepo.Exists(username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	return s.grantRepo.PermissionsFor(username)
}

// CanEdit reports whether a user may modify a deck's contents
func (s *AccessService) CanEdit(deckID, username string) (bool, error) {
	return s.allowed(deckID, username, models.RoleEditors)
}

// CanReview reports whether a user may study a deck
func (s *AccessService) CanReview(deckID, username string) (bool, error) {
	return s.allowed(deckID, username, models.RoleReviewers)
}

// IsOwner reports whether a user owns a deck
func (s *AccessService) IsOwner(deckID, username string) (bool, error) {
	grant, err := s.grantRepo.GetGrant(deckID)
	if err != nil {
		return false, err
	}
	if grant == nil {
		return false, nil
	}
	return grant.Owner == username, nil
}

func (s *AccessService) allowed(deckID, username string, role models.GrantRole) (bool, error) {
	grant, err := s.grantRepo.GetGrant(deckID)
	if err != nil {
		return false, err
	}
	if grant == nil {
		return false, nil
	}
	if grant.Owner != "" && grant.Owner == username {
		return true, nil
	}

	var members []string
	if role == models.RoleEditors {
		members = grant.Editors
	} else {
		members = grant.Reviewers
	}
	for _, member := range members {
		if member == username || member == models.AllUsers {
			return true, nil
		}
	}
	return false, nil
}
