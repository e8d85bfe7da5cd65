package repository

import "time"

// Appointment is a calendar entry with a lead. LeadID is a weak reference:
// deleting the lead leaves its appointments in place.
type Appointment struct {
	ID                 int
	LeadID             int
	Type               string
	Title              string
	Description        string
	ScheduledAt        time.Time
	Duration           int
	Status             string
	Location           string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	Reminders          []int
}

// EndsAt is the scheduled end of the appointment.
func (a Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.Duration) * time.Minute)
}

func (a Appointment) clone() Appointment {
	out := a
	if a.Reminders != nil {
		out.Reminders = append([]int(nil), a.Reminders...)
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		out.CompletedAt = &t
	}
	if a.CancelledAt != nil {
		t := *a.CancelledAt
		out.CancelledAt = &t
	}
	return out
}
