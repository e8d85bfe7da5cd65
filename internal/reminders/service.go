// Package reminders derives follow-up reminders from the lead pipeline.
package reminders

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	leadrepo "mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const DefaultSnoozeDays = 3

// Reminder is a follow-up that is due or overdue for one lead.
type Reminder struct {
	LeadID                   int       `json:"leadId"`
	LeadName                 string    `json:"leadName"`
	LeadEmail                string    `json:"leadEmail"`
	LeadPhone                string    `json:"leadPhone"`
	Status                   string    `json:"status"`
	LastInteraction          time.Time `json:"lastInteraction"`
	DaysSinceLastInteraction int       `json:"daysSinceLastInteraction"`
	DaysOverdue              int       `json:"daysOverdue"`
	Priority                 string    `json:"priority"`
	PriorityColor            string    `json:"priorityColor"`
	PriorityTextColor        string    `json:"priorityTextColor"`
	SuggestedAction          string    `json:"suggestedAction"`
	Timing                   string    `json:"timing"`
	EstimatedValue           float64   `json:"estimatedValue"`
	Source                   string    `json:"source"`
}

// LeadReader lists leads and resolves a single lead.
type LeadReader interface {
	GetByID(ctx context.Context, id int) (leadrepo.Lead, error)
	List(ctx context.Context) ([]leadrepo.Lead, error)
}

// AppointmentLister returns every stored appointment.
type AppointmentLister interface {
	ListRaw(ctx context.Context) ([]apptrepo.Appointment, error)
}

type state struct {
	completedAt  time.Time
	snoozedUntil time.Time
}

type Service struct {
	leads        LeadReader
	appointments AppointmentLister
	log          *logger.Logger
	now          func() time.Time

	mu    sync.Mutex
	state map[int]state
}

func New(leads LeadReader, appointments AppointmentLister, log *logger.Logger) *Service {
	return &Service{
		leads:        leads,
		appointments: appointments,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
		state:        make(map[int]state),
	}
}

// List computes the reminders that are due, most urgent first. Snoozed
// leads are left out until the snooze expires.
func (s *Service) List(ctx context.Context) ([]Reminder, error) {
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
	if s.appointments != nil {
		g.Go(func() error {
			var err error
			appts, err = s.appointments.ListRaw(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byLead := make(map[int][]apptrepo.Appointment)
	for _, a := range appts {
		byLead[a.LeadID] = append(byLead[a.LeadID], a)
	}

	now := s.now()
	s.mu.Lock()
	snapshot := make(map[int]state, len(s.state))
	for id, st := range s.state {
		snapshot[id] = st
	}
	s.mu.Unlock()

	out := make([]Reminder, 0)
	for _, lead := range leads {
		st := snapshot[lead.ID]
		if now.Before(st.snoozedUntil) {
			continue
		}
		if r, ok := Analyze(lead, byLead[lead.ID], st.completedAt, now); ok {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b Reminder) int {
		if sa, sb := Style(a.Priority).Score, Style(b.Priority).Score; sa != sb {
			return sb - sa
		}
		return b.DaysOverdue - a.DaysOverdue
	})
	return out, nil
}

// Complete records a follow-up as done now. It counts as an interaction
// and clears any snooze.
func (s *Service) Complete(ctx context.Context, leadID int) error {
	if err := s.ensureLead(ctx, leadID); err != nil {
		return err
	}
	now := s.now()

	s.mu.Lock()
	s.state[leadID] = state{completedAt: now}
	s.mu.Unlock()

	s.log.Info("reminder completed", "leadId", leadID)
	return nil
}

// Snooze hides the lead's reminder for the given number of days.
// Zero means DefaultSnoozeDays.
func (s *Service) Snooze(ctx context.Context, leadID, days int) (time.Time, error) {
	if days == 0 {
		days = DefaultSnoozeDays
	}
	if days < 0 {
		return time.Time{}, apperr.Validation("snooze days must be positive")
	}
	if err := s.ensureLead(ctx, leadID); err != nil {
		return time.Time{}, err
	}
	until := s.now().AddDate(0, 0, days)

	s.mu.Lock()
	st := s.state[leadID]
	st.snoozedUntil = until
	s.state[leadID] = st
	s.mu.Unlock()

	s.log.Info("reminder snoozed", "leadId", leadID, "until", until)
	return until, nil
}

func (s *Service) ensureLead(ctx context.Context, leadID int) error {
	_, err := s.leads.GetByID(ctx, leadID)
	if errors.Is(err, leadrepo.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}
