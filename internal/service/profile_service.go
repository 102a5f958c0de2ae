package service

import (
	"errors"
	"log"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/repository"
	"bookme/internal/security"
	"bookme/internal/streak"
	"bookme/internal/validation"
)

var (
	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned on a failed password check
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ProfileService handles user profile business logic: registration,
// authentication and the daily login streak
type ProfileService struct {
	profileRepo  *repository.ProfileRepository
	reminderRepo *repository.ReminderRepository
}

// NewProfileService creates a new profile service
func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{
		profileRepo:  repository.NewProfileRepository(db),
		reminderRepo: repository.NewReminderRepository(db),
	}
}

// Register creates a new profile with a hashed password and a zero
// streak. The first call to RecordLogin starts the streak at 1.
func (s *ProfileService) Register(username, name, email, password string) (*models.Profile, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.profileRepo.Exists(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Streak:       0,
	}
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		return nil, err
	}

	log.Printf("Profile registered: username=%s", username)
	return profile, nil
}

// Authenticate checks a username and password pair
func (s *ProfileService) Authenticate(username, password string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUsername(username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(password, profile.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}

// GetProfile retrieves a profile by username
func (s *ProfileService) GetProfile(username string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUsername(username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// ListProfiles retrieves all profiles
func (s *ProfileService) ListProfiles() ([]models.Profile, error) {
	return s.profileRepo.ListProfiles()
}

// RecordLogin applies the daily streak rules to a profile and persists
// the result: first login starts at 1, a repeat login on the same
// calendar day changes nothing, the next day increments, a gap resets
// to 1. A stored last login in the future is logged and left alone.
func (s *ProfileService) RecordLogin(username string, now time.Time) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUsername(username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	result := streak.Update(profile.Streak, profile.LastLogin, now)
	if result.Anomaly {
		log.Printf("Streak anomaly: username=%s has last_login in the future (%v)", username, profile.LastLogin)
	}

	if err := s.profileRepo.UpdateStreak(username, result.Streak, result.LastLogin); err != nil {
		return nil, err
	}

	profile.Streak = result.Streak
	profile.LastLogin = &result.LastLogin
	return profile, nil
}

// ChangePassword validates and stores a new password for a profile
func (s *ProfileService) ChangePassword(username, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	updated, err := s.profileRepo.UpdatePassword(username, hash)
	if err != nil {
		return err
	}
	if !updated {
		return ErrProfileNotFound
	}
	return nil
}

// SetProfilePic sets or clears a profile's picture URL
func (s *ProfileService) SetProfilePic(username string, profilePic *string) error {
	updated, err := s.profileRepo.UpdateProfilePic(username, profilePic)
	if err != nil {
		return err
	}
	if !updated {
		return ErrProfileNotFound
	}
	return nil
}

// DeleteProfile removes a profile and its pending reminders. Decks the
// user owned are left in place; ownership can be transferred later.
func (s *ProfileService) DeleteProfile(username string) error {
	if err := s.reminderRepo.DeleteForUser(username); err != nil {
		return err
	}

	existed, err := s.profileRepo.DeleteProfile(username)
	if err != nil {
		return err
	}
	if !existed {
		return ErrProfileNotFound
	}

	log.Printf("Profile deleted: username=%s", username)
	return nil
}
