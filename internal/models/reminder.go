package models

import "time"

// Contact is the snapshot of who a reminder is for, taken at scheduling time.
type Contact struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	WhatsApp        string    `json:"whatsapp"`
	Day1CompletedAt time.Time `json:"day1CompletedAt"`
}

// ReminderRecord is pending until a sweep finds it due, then sent (terminal).
type ReminderRecord struct {
	ID           string     `json:"id"` // <email>-day<N>
	Day          int        `json:"day"`
	Contact      Contact    `json:"userData"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	Message      string     `json:"message"`
	Sent         bool       `json:"sent"`
	SentAt       *time.Time `json:"sentAt,omitempty"`

	// Channel failures seen when the record was swept; they do not block Sent.
	DeliveryErrors []string `json:"deliveryErrors,omitempty"`
}

func (r ReminderRecord) Due(now time.Time) bool {
	return !r.Sent && !r.ScheduledFor.After(now)
}
