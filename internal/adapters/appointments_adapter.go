package adapters

import (
	"context"
	"time"

	"mlm_sales_backend/internal/appointments/service"
	"mlm_sales_backend/internal/leads/ports"
)

// AppointmentsAdapter adapts the appointments service for use by the leads domain.
// It implements the leads/ports.AppointmentStatsReader interface.
type AppointmentsAdapter struct {
	apptService *service.Service
}

// NewAppointmentsAdapter creates a new adapter that wraps the appointments service.
func NewAppointmentsAdapter(apptService *service.Service) *AppointmentsAdapter {
	return &AppointmentsAdapter{apptService: apptService}
}

// StatsForLead translates the appointments summary into the leads port type.
func (a *AppointmentsAdapter) StatsForLead(ctx context.Context, leadID int, now time.Time) (ports.AppointmentStats, error) {
	stats, err := a.apptService.StatsForLead(ctx, leadID, now)
	if err != nil {
		return ports.AppointmentStats{}, err
	}
	return ports.AppointmentStats{
		Total:             stats.Total,
		Upcoming:          stats.Upcoming,
		Completed:         stats.Completed,
		NoShow:            stats.NoShow,
		Cancelled:         stats.Cancelled,
		LatestScheduledAt: stats.LatestScheduledAt,
	}, nil
}

var _ ports.AppointmentStatsReader = (*AppointmentsAdapter)(nil)
