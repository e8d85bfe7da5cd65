package service

import (
	"context"
	"time"

	"mlm_sales_backend/internal/appointments/repository"
	"mlm_sales_backend/internal/appointments/transport"
)

// LeadStats counts a lead's appointments by outcome.
type LeadStats struct {
	Total             int
	Upcoming          int
	Completed         int
	NoShow            int
	Cancelled         int
	LatestScheduledAt *time.Time
}

// StatsForLead summarises the lead's appointments relative to now.
func (s *Service) StatsForLead(ctx context.Context, leadID int, now time.Time) (LeadStats, error) {
	items, err := s.repo.Filter(ctx, func(a repository.Appointment) bool { return a.LeadID == leadID })
	if err != nil {
		return LeadStats{}, err
	}

	var stats LeadStats
	for _, a := range items {
		stats.Total++
		switch {
		case a.Status == transport.StatusCompleted:
			stats.Completed++
		case a.Status == transport.StatusNoShow:
			stats.NoShow++
		case a.Status == transport.StatusCancelled:
			stats.Cancelled++
		case transport.IsActive(a.Status) && a.ScheduledAt.After(now):
			stats.Upcoming++
		}
		if stats.LatestScheduledAt == nil || a.ScheduledAt.After(*stats.LatestScheduledAt) {
			at := a.ScheduledAt
			stats.LatestScheduledAt = &at
		}
	}
	return stats, nil
}

// ListRaw returns the stored appointments for read-only consumers such as
// analytics and the reminder heuristic.
func (s *Service) ListRaw(ctx context.Context) ([]repository.Appointment, error) {
	return s.repo.List(ctx)
}

// Lookup returns the stored appointment for the reminder worker.
func (s *Service) Lookup(ctx context.Context, id int) (repository.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}
