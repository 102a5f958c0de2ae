package models

import "time"

// Profile is a user study profile. The streak counts consecutive days
// with at least one login and is updated exactly once per login event.
type Profile struct {
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	ProfilePic   *string    `json:"profile_pic"`
	Streak       int        `json:"streak"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
