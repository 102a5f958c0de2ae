package streak

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestUpdate(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		current     int
		lastLogin   *time.Time
		now         time.Time
		wantStreak  int
		wantAnomaly bool
	}{
		{
			name:       "first login ever",
			current:    0,
			lastLogin:  nil,
			now:        now,
			wantStreak: 1,
		},
		{
			name:       "same day keeps streak",
			current:    5,
			lastLogin:  datePtr(time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)),
			now:        now,
			wantStreak: 5,
		},
		{
			name:       "consecutive day increments",
			current:    5,
			lastLogin:  datePtr(time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)),
			now:        now,
			wantStreak: 6,
		},
		{
			name:       "two day gap resets",
			current:    5,
			lastLogin:  datePtr(time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)),
			now:        now,
			wantStreak: 1,
		},
		{
			name:       "long gap resets",
			current:    50,
			lastLogin:  datePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
			now:        time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC),
			wantStreak: 1,
		},
		{
			name:        "future last login keeps streak and flags anomaly",
			current:     7,
			lastLogin:   datePtr(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
			now:         now,
			wantStreak:  7,
			wantAnomaly: true,
		},
		{
			name:       "time of day is ignored across midnight",
			current:    2,
			lastLogin:  datePtr(time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC)),
			now:        time.Date(2025, 1, 2, 23, 58, 0, 0, time.UTC),
			wantStreak: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Update(tt.current, tt.lastLogin, tt.now)

			if result.Streak != tt.wantStreak {
				t.Errorf("Update() streak = %v, want %v", result.Streak, tt.wantStreak)
			}
			if result.Anomaly != tt.wantAnomaly {
				t.Errorf("Update() anomaly = %v, want %v", result.Anomaly, tt.wantAnomaly)
			}
			if !result.LastLogin.Equal(tt.now) {
				t.Errorf("Update() lastLogin = %v, want %v", result.LastLogin, tt.now)
			}
		})
	}
}

// TestUpdateSameDayIdempotent checks that repeated logins on one
// calendar day never change the streak.
func TestUpdateSameDayIdempotent(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	current := 4
	last := datePtr(day.Add(1 * time.Hour))
	for i := 0; i < 5; i++ {
		result := Update(current, last, day.Add(time.Duration(2+i)*time.Hour))
		if result.Streak != 4 {
			t.Fatalf("login %d on same day changed streak to %d", i+1, result.Streak)
		}
		current = result.Streak
		last = datePtr(result.LastLogin)
	}
}
