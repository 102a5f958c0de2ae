package repository

import (
	"database/sql"
	"fmt"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
)

// ProfileRepository handles database operations for user study profiles
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateProfile inserts a new profile row
func (r *ProfileRepository) CreateProfile(profile *models.Profile) error {
	query := `
		INSERT INTO profiles (username, name, email, password_hash, profile_pic, streak, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		profile.Username,
		profile.Name,
		profile.Email,
		profile.PasswordHash,
		profile.ProfilePic,
		profile.Streak,
		profile.LastLogin,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfileByUsername retrieves a profile by username, or nil if absent
func (r *ProfileRepository) GetProfileByUsername(username string) (*models.Profile, error) {
	query := `
		SELECT username, name, email, password_hash, profile_pic, streak, last_login, created_at, updated_at
		FROM profiles
		WHERE username = ?
	`
	profile := &models.Profile{}
	err := r.db.QueryRow(query, username).Scan(
		&profile.Username,
		&profile.Name,
		&profile.Email,
		&profile.PasswordHash,
		&profile.ProfilePic,
		&profile.Streak,
		&profile.LastLogin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Exists reports whether a profile with the username is present
func (r *ProfileRepository) Exists(username string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM profiles WHERE username = ?", username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return count > 0, nil
}

// ListProfiles retrieves all profiles ordered by username
func (r *ProfileRepository) ListProfiles() ([]models.Profile, error) {
	query := `
		SELECT username, name, email, password_hash, profile_pic, streak, last_login, created_at, updated_at
		FROM profiles
		ORDER BY username ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var profile models.Profile
		if err := rows.Scan(
			&profile.Username,
			&profile.Name,
			&profile.Email,
			&profile.PasswordHash,
			&profile.ProfilePic,
			&profile.Streak,
			&profile.LastLogin,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// UpdateStreak persists a new streak value and last login timestamp
func (r *ProfileRepository) UpdateStreak(username string, streak int, lastLogin time.Time) error {
	query := "UPDATE profiles SET streak = ?, last_login = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ?"
	_, err := r.db.Exec(query, streak, lastLogin, username)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	return nil
}

// UpdatePassword overwrites a profile's password hash. Returns false
// when no profile with that username exists.
func (r *ProfileRepository) UpdatePassword(username, passwordHash string) (bool, error) {
	query := "UPDATE profiles SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ?"
	result, err := r.db.Exec(query, passwordHash, username)
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated profile: %w", err)
	}
	return affected > 0, nil
}

// UpdateProfilePic sets or clears a profile's picture URL
func (r *ProfileRepository) UpdateProfilePic(username string, profilePic *string) (bool, error) {
	query := "UPDATE profiles SET profile_pic = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ?"
	result, err := r.db.Exec(query, profilePic, username)
	if err != nil {
		return false, fmt.Errorf("failed to update profile picture: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated profile: %w", err)
	}
	return affected > 0, nil
}

// DeleteProfile removes a profile row; returns whether it existed
func (r *ProfileRepository) DeleteProfile(username string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM profiles WHERE username = ?", username)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted profile: %w", err)
	}
	return affected > 0, nil
}
