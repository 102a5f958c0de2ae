package repository

import (
	"fmt"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
)

// SessionRepository handles database operations for study session logs
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// InsertSession records a completed study session
func (r *SessionRepository) InsertSession(session *models.StudySession) error {
	query := `
		INSERT INTO study_sessions (id, username, duration_seconds, subject, mode, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		session.ID,
		session.Username,
		session.DurationSeconds,
		session.Subject,
		session.Mode,
		session.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert study session: %w", err)
	}
	return nil
}

// ListSessions retrieves a user's study sessions, newest first
func (r *SessionRepository) ListSessions(username string) ([]models.StudySession, error) {
	query := `
		SELECT id, username, duration_seconds, subject, mode, started_at
		FROM study_sessions
		WHERE username = ?
		ORDER BY started_at DESC
	`
	rows, err := r.db.Query(query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var session models.StudySession
		if err := rows.Scan(
			&session.ID,
			&session.Username,
			&session.DurationSeconds,
			&session.Subject,
			&session.Mode,
			&session.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// TotalDuration sums a user's study time in seconds across all sessions
func (r *SessionRepository) TotalDuration(username string) (int, error) {
	var total int
	query := "SELECT COALESCE(SUM(duration_seconds), 0) FROM study_sessions WHERE username = ?"
	err := r.db.QueryRow(query, username).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum study time: %w", err)
	}
	return total, nil
}

// DurationSince sums a user's study time in seconds for sessions that
// started at or after the cutoff
func (r *SessionRepository) DurationSince(username string, since time.Time) (int, error) {
	var total int
	query := "SELECT COALESCE(SUM(duration_seconds), 0) FROM study_sessions WHERE username = ? AND started_at >= ?"
	err := r.db.QueryRow(query, username, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum study time: %w", err)
	}
	return total, nil
}
