package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/repository"
)

// SessionService handles study session logging and time aggregates
type SessionService struct {
	sessionRepo *repository.SessionRepository
	profileRepo *repository.ProfileRepository
}

// NewSessionService creates a new session service
func NewSessionService(db *database.DB) *SessionService {
	return &SessionService{
		sessionRepo: repository.NewSessionRepository(db),
		profileRepo: repository.NewProfileRepository(db),
	}
}

// RecordSession logs a completed study session for a user
func (s *SessionService) RecordSession(username string, durationSeconds int, subject, mode *string, startedAt time.Time) (*models.StudySession, error) {
	if durationSeconds < 0 {
		return nil, errors.New("session duration cannot be negative")
	}

	exists, err := s.profileRepo.Exists(username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	session := &models.StudySession{
		ID:              uuid.NewString(),
		Username:        username,
		DurationSeconds: durationSeconds,
		Subject:         subject,
		Mode:            mode,
		StartedAt:       startedAt,
	}
	if err := s.sessionRepo.InsertSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// History retrieves a user's study sessions, newest first
func (s *SessionService) History(username string) ([]models.StudySession, error) {
	return s.sessionRepo.ListSessions(username)
}

// TotalStudyTime returns a user's lifetime study time in seconds
func (s *SessionService) TotalStudyTime(username string) (int, error) {
	return s.sessionRepo.TotalDuration(username)
}

// StudyTimeToday returns the seconds studied since UTC midnight
func (s *SessionService) StudyTimeToday(username string, now time.Time) (int, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.sessionRepo.DurationSince(username, midnight)
}

// StudyTimeThisWeek returns the seconds studied in the seven calendar
// days ending today, UTC
func (s *SessionService) StudyTimeThisWeek(username string, now time.Time) (int, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := midnight.AddDate(0, 0, -6)
	return s.sessionRepo.DurationSince(username, weekStart)
}
