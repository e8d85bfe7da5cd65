// Package ports defines the interfaces that the leads domain requires from
// other modules. The composition root supplies the implementations, so leads
// never imports the appointments module directly.
package ports

import (
	"context"
	"time"
)

// AppointmentStats summarises a lead's appointments for scoring and reminders.
type AppointmentStats struct {
	Total     int
	Upcoming  int
	Completed int
	NoShow    int
	Cancelled int
	// LatestScheduledAt is the most recent scheduled start of any appointment.
	LatestScheduledAt *time.Time
}

// AppointmentStatsReader reads per-lead appointment statistics.
type AppointmentStatsReader interface {
	StatsForLead(ctx context.Context, leadID int, now time.Time) (AppointmentStats, error)
}

// NoAppointments is used when no appointment module is wired (CLI tools, tests).
type NoAppointments struct{}

func (NoAppointments) StatsForLead(context.Context, int, time.Time) (AppointmentStats, error) {
	return AppointmentStats{}, nil
}
