// Package analytics derives pipeline and appointment metrics for the dashboard.
package analytics

import (
	"context"
	"time"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	leadrepo "mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

type LeadLister interface {
	List(ctx context.Context) ([]leadrepo.Lead, error)
}

type AppointmentLister interface {
	ListRaw(ctx context.Context) ([]apptrepo.Appointment, error)
}

type Service struct {
	leads        LeadLister
	appointments AppointmentLister
	log          *logger.Logger
	now          func() time.Time
}

func New(leads LeadLister, appointments AppointmentLister, log *logger.Logger) *Service {
	return &Service{
		leads:        leads,
		appointments: appointments,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard loads leads and appointments concurrently and derives every metric.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		leads []leadrepo.Lead
		appts []apptrepo.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = s.leads.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		appts, err = s.appointments.ListRaw(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("analytics snapshot failed", "error", err)
		return Dashboard{}, err
	}
	return Build(leads, appts, s.now()), nil
}

func (s *Service) Insights(ctx context.Context) ([]Insight, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return Insights(d), nil
}
