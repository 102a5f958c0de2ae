package service

import (
	"errors"
	"testing"
	"time"

	"bookme/internal/validation"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)

	profile, err := profiles.Register("emma", "Emma Watson", "emma@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if profile.Streak != 0 {
		t.Errorf("new profile streak = %d, want 0", profile.Streak)
	}
	if profile.PasswordHash == "password123" {
		t.Error("Register() stored the plaintext password")
	}

	if _, err := profiles.Register("emma", "Other Emma", "other@example.com", "password456"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate Register() error = %v, want ErrUsernameTaken", err)
	}

	var validationErr validation.ValidationError
	if _, err := profiles.Register("all", "Sentinel", "all@example.com", "password123"); !errors.As(err, &validationErr) {
		t.Errorf("Register(all) error = %v, want validation error", err)
	}
	if _, err := profiles.Register("liam", "Liam Chen", "not-an-email", "password123"); !errors.As(err, &validationErr) {
		t.Errorf("Register() with bad email error = %v, want validation error", err)
	}
	if _, err := profiles.Register("liam", "Liam Chen", "liam@example.com", "short"); !errors.As(err, &validationErr) {
		t.Errorf("Register() with short password error = %v, want validation error", err)
	}

	if _, err := profiles.Authenticate("emma", "password123"); err != nil {
		t.Errorf("Authenticate() with correct password error = %v", err)
	}
	if _, err := profiles.Authenticate("emma", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() with wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := profiles.Authenticate("ghost", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRecordLoginStreak(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)

	if _, err := profiles.Register("emma", "Emma Watson", "emma@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	day1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	// First ever login starts the streak
	profile, err := profiles.RecordLogin("emma", day1)
	if err != nil {
		t.Fatalf("RecordLogin() error = %v", err)
	}
	if profile.Streak != 1 {
		t.Errorf("first login streak = %d, want 1", profile.Streak)
	}

	// Logging in again the same day changes nothing
	profile, err = profiles.RecordLogin("emma", day1.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("RecordLogin() error = %v", err)
	}
	if profile.Streak != 1 {
		t.Errorf("same-day streak = %d, want 1", profile.Streak)
	}

	// Next calendar day increments
	profile, err = profiles.RecordLogin("emma", day1.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RecordLogin() error = %v", err)
	}
	if profile.Streak != 2 {
		t.Errorf("next-day streak = %d, want 2", profile.Streak)
	}

	// A missed day resets to 1
	profile, err = profiles.RecordLogin("emma", day1.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("RecordLogin() error = %v", err)
	}
	if profile.Streak != 1 {
		t.Errorf("streak after gap = %d, want 1", profile.Streak)
	}

	if _, err := profiles.RecordLogin("ghost", day1); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("RecordLogin(ghost) error = %v, want ErrProfileNotFound", err)
	}
}

func TestChangePasswordAndDelete(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)

	if _, err := profiles.Register("emma", "Emma Watson", "emma@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := profiles.ChangePassword("emma", "newpassword456"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := profiles.Authenticate("emma", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still accepted after change")
	}
	if _, err := profiles.Authenticate("emma", "newpassword456"); err != nil {
		t.Errorf("Authenticate() with new password error = %v", err)
	}

	if err := profiles.ChangePassword("ghost", "newpassword456"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("ChangePassword(ghost) error = %v, want ErrProfileNotFound", err)
	}

	if err := profiles.DeleteProfile("emma"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if _, err := profiles.GetProfile("emma"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfile() after delete error = %v, want ErrProfileNotFound", err)
	}
	if err := profiles.DeleteProfile("emma"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("second DeleteProfile() error = %v, want ErrProfileNotFound", err)
	}
}
