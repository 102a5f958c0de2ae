package service

import (
	"context"
	"errors"
	"log"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
	"bookme/internal/repository"
)

// ReminderService schedules study reminders and dispatches the ones
// that have come due. Email reminders go out through the mailer;
// in-app reminders are just marked sent and picked up by the client.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	profileRepo  *repository.ProfileRepository
	mailer       *Mailer
}

// NewReminderService creates a new reminder service
func NewReminderService(db *database.DB, mailer *Mailer) *ReminderService {
	return &ReminderService{
		reminderRepo: repository.NewReminderRepository(db),
		profileRepo:  repository.NewProfileRepository(db),
		mailer:       mailer,
	}
}

// Schedule creates a pending reminder for a user
func (s *ReminderService) Schedule(username, message string, channel models.ReminderChannel, remindAt time.Time) (*models.Reminder, error) {
	if message == "" {
		return nil, errors.New("reminder message is required")
	}
	if channel != models.ChannelInApp && channel != models.ChannelEmail {
		return nil, errors.New("unknown reminder channel")
	}

	exists, err := s.profileRepo.Exists(username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	reminder := &models.Reminder{
		Username: username,
		Message:  message,
		Channel:  channel,
		RemindAt: remindAt,
		Status:   models.ReminderPending,
	}
	id, err := s.reminderRepo.CreateReminder(reminder)
	if err != nil {
		return nil, err
	}
	reminder.ID = id

	return reminder, nil
}

// ListForUser retrieves all of a user's reminders, soonest first
func (s *ReminderService) ListForUser(username string) ([]models.Reminder, error) {
	return s.reminderRepo.ListForUser(username)
}

// Cancel deletes a reminder
func (s *ReminderService) Cancel(id int64) error {
	existed, err := s.reminderRepo.DeleteReminder(id)
	if err != nil {
		return err
	}
	if !existed {
		return errors.New("reminder not found")
	}
	return nil
}

// DispatchDue sends every pending reminder whose time has passed and
// marks it sent. A failed email leaves the reminder pending so the
// next dispatch run retries it. Returns the number dispatched.
func (s *ReminderService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminderRepo.ListDue(now)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, reminder := range due {
		if reminder.Channel == models.ChannelEmail {
			profile, err := s.profileRepo.GetProfileByUsername(reminder.Username)
			if err != nil {
				return dispatched, err
			}
			if profile == nil {
				log.Printf("Dropping reminder %d: profile %s no longer exists", reminder.ID, reminder.Username)
				if _, err := s.reminderRepo.DeleteReminder(reminder.ID); err != nil {
					return dispatched, err
				}
				continue
			}

			if err := s.mailer.SendReminderEmail(ctx, profile.Email, profile.Name, reminder.Message); err != nil {
				log.Printf("Failed to send reminder %d to %s: %v", reminder.ID, profile.Email, err)
				continue
			}
		}

		marked, err := s.reminderRepo.MarkSent(reminder.ID)
		if err != nil {
			return dispatched, err
		}
		if marked {
			dispatched++
		}
	}

	return dispatched, nil
}
