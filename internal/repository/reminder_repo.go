package repository

import (
	"fmt"
	"time"

	"bookme/internal/database"
	"bookme/internal/models"
)

// ReminderRepository handles database operations for study reminders
type ReminderRepository struct {
	db database.DBTX
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db database.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// CreateReminder inserts a new reminder and returns its id
func (r *ReminderRepository) CreateReminder(reminder *models.Reminder) (int64, error) {
	query := `
		INSERT INTO reminders (username, message, channel, remind_at, status)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		reminder.Username,
		reminder.Message,
		string(reminder.Channel),
		reminder.RemindAt,
		string(reminder.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create reminder: %w", err)
	}
	return id, nil
}

// ListDue retrieves pending reminders whose remind time has passed
func (r *ReminderRepository) ListDue(now time.Time) ([]models.Reminder, error) {
	query := `
		SELECT id, username, message, channel, remind_at, status, created_at
		FROM reminders
		WHERE status = ? AND remind_at <= ?
		ORDER BY remind_at ASC
	`
	return r.queryReminders(query, string(models.ReminderPending), now)
}

// ListForUser retrieves all of a user's reminders, soonest first
func (r *ReminderRepository) ListForUser(username string) ([]models.Reminder, error) {
	query := `
		SELECT id, username, message, channel, remind_at, status, created_at
		FROM reminders
		WHERE username = ?
		ORDER BY remind_at ASC
	`
	return r.queryReminders(query, username)
}

// MarkSent flips a reminder to the sent status; returns false when the
// reminder was absent or already sent
func (r *ReminderRepository) MarkSent(id int64) (bool, error) {
	query := "UPDATE reminders SET status = ? WHERE id = ? AND status = ?"
	result, err := r.db.Exec(query, string(models.ReminderSent), id, string(models.ReminderPending))
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated reminder: %w", err)
	}
	return affected > 0, nil
}

// DeleteReminder removes a reminder; returns whether it existed
func (r *ReminderRepository) DeleteReminder(id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted reminder: %w", err)
	}
	return affected > 0, nil
}

// DeleteForUser removes all of a user's reminders (used when the
// profile is deleted)
func (r *ReminderRepository) DeleteForUser(username string) error {
	if _, err := r.db.Exec("DELETE FROM reminders WHERE username = ?", username); err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	return nil
}

func (r *ReminderRepository) queryReminders(query string, args ...interface{}) ([]models.Reminder, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var reminder models.Reminder
		var channel, status string
		if err := rows.Scan(
			&reminder.ID,
			&reminder.Username,
			&reminder.Message,
			&channel,
			&reminder.RemindAt,
			&status,
			&reminder.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminder.Channel = models.ReminderChannel(channel)
		reminder.Status = models.ReminderStatus(status)
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}
