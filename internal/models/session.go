package models

import "time"

// StudySession is one completed study sitting (e.g. a 25 minute
// pomodoro on Biology)
type StudySession struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	DurationSeconds int       `json:"duration_seconds"`
	Subject         *string   `json:"subject"`
	Mode            *string   `json:"mode"`
	StartedAt       time.Time `json:"started_at"`
}
