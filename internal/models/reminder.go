package models

import "time"

// ReminderChannel names how a reminder is delivered
type ReminderChannel string

const (
	ChannelInApp ReminderChannel = "in-app"
	ChannelEmail ReminderChannel = "email"
)

// ReminderStatus tracks a reminder through its lifecycle
type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
)

// Reminder is a scheduled study nudge for a user
type Reminder struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Message   string          `json:"message"`
	Channel   ReminderChannel `json:"channel"`
	RemindAt  time.Time       `json:"remind_at"`
	Status    ReminderStatus  `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsDue reports whether the reminder should be delivered at the given time
func (r *Reminder) IsDue(now time.Time) bool {
	return r.Status == ReminderPending && !r.RemindAt.After(now)
}
