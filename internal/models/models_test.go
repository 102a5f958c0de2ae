package models

import (
	"testing"
	"time"
)

func TestCardTotalReviews(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want int
	}{
		{
			name: "fresh card",
			card: Card{},
			want: 0,
		},
		{
			name: "only correct reviews",
			card: Card{CorrectCount: 5},
			want: 5,
		},
		{
			name: "mixed reviews",
			card: Card{CorrectCount: 3, IncorrectCount: 2},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.card.TotalReviews()
			if result != tt.want {
				t.Errorf("Card.TotalReviews() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestGrantRoleValid(t *testing.T) {
	tests := []struct {
		name string
		role GrantRole
		want bool
	}{
		{name: "editors", role: RoleEditors, want: true},
		{name: "reviewers", role: RoleReviewers, want: true},
		{name: "owner is not a membership set", role: GrantRole("owner"), want: false},
		{name: "empty", role: GrantRole(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.role.Valid()
			if result != tt.want {
				t.Errorf("GrantRole(%q).Valid() = %v, want %v", tt.role, result, tt.want)
			}
		})
	}
}

func TestReminderIsDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		reminder Reminder
		want     bool
	}{
		{
			name:     "pending and past due",
			reminder: Reminder{Status: ReminderPending, RemindAt: now.Add(-1 * time.Hour)},
			want:     true,
		},
		{
			name:     "pending exactly at due time",
			reminder: Reminder{Status: ReminderPending, RemindAt: now},
			want:     true,
		},
		{
			name:     "pending but in the future",
			reminder: Reminder{Status: ReminderPending, RemindAt: now.Add(1 * time.Hour)},
			want:     false,
		},
		{
			name:     "already sent",
			reminder: Reminder{Status: ReminderSent, RemindAt: now.Add(-1 * time.Hour)},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.reminder.IsDue(now)
			if result != tt.want {
				t.Errorf("Reminder.IsDue() = %v, want %v", result, tt.want)
			}
		})
	}
}
