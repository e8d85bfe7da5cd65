package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"mlm_sales_backend/internal/appointments/repository"
	"mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/scheduler"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/sanitize"
)

const (
	errRescheduleClosed  = "cannot reschedule completed or cancelled appointments"
	errCompleteCancelled = "cannot complete cancelled appointment"
	errCancelCompleted   = "cannot cancel completed appointment"
)

// Service provides business logic for appointments
type Service struct {
	repo              *repository.Repository
	eventBus          events.Bus
	reminderScheduler scheduler.ReminderScheduler
	defaultReminders  []int
	log               *logger.Logger
	now               func() time.Time
}

// New creates a new appointments service. defaultReminders are the offsets,
// in minutes before start, used when a request does not name any.
func New(repo *repository.Repository, eventBus events.Bus, reminderScheduler scheduler.ReminderScheduler, defaultReminders []int, log *logger.Logger) *Service {
	return &Service{
		repo:              repo,
		eventBus:          eventBus,
		reminderScheduler: reminderScheduler,
		defaultReminders:  defaultReminders,
		log:               log,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// GetAll returns every appointment ordered by start time.
func (s *Service) GetAll(ctx context.Context) ([]transport.AppointmentResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByStart(items)
	return transport.ToAppointmentResponses(items), nil
}

// GetByID returns a single appointment.
func (s *Service) GetByID(ctx context.Context, id int) (transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return transport.ToAppointmentResponse(appt), nil
}

// GetByLeadID returns the appointments booked with one lead.
func (s *Service) GetByLeadID(ctx context.Context, leadID int) ([]transport.AppointmentResponse, error) {
	items, err := s.repo.Filter(ctx, func(a repository.Appointment) bool { return a.LeadID == leadID })
	if err != nil {
		return nil, err
	}
	sortByStart(items)
	return transport.ToAppointmentResponses(items), nil
}

// GetUpcoming returns future appointments that are not cancelled, soonest first.
func (s *Service) GetUpcoming(ctx context.Context) ([]transport.AppointmentResponse, error) {
	now := s.now()
	items, err := s.repo.Filter(ctx, func(a repository.Appointment) bool {
		return a.ScheduledAt.After(now) && a.Status != transport.StatusCancelled
	})
	if err != nil {
		return nil, err
	}
	sortByStart(items)
	return transport.ToAppointmentResponses(items), nil
}

// GetByDateRange returns appointments starting within [start, end].
func (s *Service) GetByDateRange(ctx context.Context, start, end time.Time) ([]transport.AppointmentResponse, error) {
	if end.Before(start) {
		return nil, apperr.BadRequest("end must not be before start")
	}
	items, err := s.repo.Filter(ctx, func(a repository.Appointment) bool {
		return !a.ScheduledAt.Before(start) && !a.ScheduledAt.After(end)
	})
	if err != nil {
		return nil, err
	}
	sortByStart(items)
	return transport.ToAppointmentResponses(items), nil
}

// Create books a new appointment in the scheduled state and enqueues its reminders.
func (s *Service) Create(ctx context.Context, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	title := sanitize.Text(req.Title)
	if title == "" {
		return transport.AppointmentResponse{}, apperr.Validation("title is required")
	}
	if req.ScheduledDateTime.IsZero() {
		return transport.AppointmentResponse{}, apperr.Validation("scheduledDateTime is required")
	}

	duration := req.Duration
	if duration <= 0 {
		duration = transport.DefaultDuration
	}
	reminders := req.Reminders
	if reminders == nil {
		reminders = s.defaultReminders
	}

	now := s.now()
	appt, err := s.repo.Create(ctx, repository.Appointment{
		LeadID:      req.LeadID,
		Type:        req.Type,
		Title:       title,
		Description: sanitize.Text(req.Description),
		ScheduledAt: req.ScheduledDateTime.UTC(),
		Duration:    duration,
		Status:      transport.StatusScheduled,
		Location:    sanitize.Text(req.Location),
		Notes:       sanitize.Text(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
		Reminders:   normalizeReminders(reminders),
	})
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	s.scheduled(ctx, appt)
	return transport.ToAppointmentResponse(appt), nil
}

// Update merges the provided fields. The id never changes.
func (s *Service) Update(ctx context.Context, id int, req transport.UpdateAppointmentRequest) (transport.AppointmentResponse, error) {
	var before repository.Appointment
	appt, err := s.repo.Mutate(ctx, id, func(a *repository.Appointment) error {
		before = *a
		if req.LeadID != nil {
			a.LeadID = *req.LeadID
		}
		if req.Type != nil {
			a.Type = *req.Type
		}
		if req.Title != nil {
			title := sanitize.Text(*req.Title)
			if title == "" {
				return apperr.Validation("title is required")
			}
			a.Title = title
		}
		if req.Description != nil {
			a.Description = sanitize.Text(*req.Description)
		}
		if req.ScheduledDateTime != nil && !req.ScheduledDateTime.IsZero() {
			a.ScheduledAt = req.ScheduledDateTime.UTC()
		}
		if req.Duration != nil {
			a.Duration = *req.Duration
		}
		if req.Status != nil {
			a.Status = *req.Status
		}
		if req.Location != nil {
			a.Location = sanitize.Text(*req.Location)
		}
		if req.Notes != nil {
			a.Notes = sanitize.Text(*req.Notes)
		}
		if req.Reminders != nil {
			a.Reminders = normalizeReminders(req.Reminders)
		}
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	if appt.LeadID != before.LeadID {
		s.eventBus.Publish(ctx, events.AppointmentReassigned{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			OldLeadID:     before.LeadID,
			NewLeadID:     appt.LeadID,
		})
	}
	if !appt.ScheduledAt.Equal(before.ScheduledAt) || !slices.Equal(appt.Reminders, before.Reminders) {
		s.scheduled(ctx, appt)
	}
	s.statusChanged(ctx, appt, before.Status)
	return transport.ToAppointmentResponse(appt), nil
}

// UpdateStatus sets the status without any transition checks.
func (s *Service) UpdateStatus(ctx context.Context, id int, status string) (transport.AppointmentResponse, error) {
	if !slices.ContainsFunc(transport.StatusOptions, func(o transport.StatusOption) bool { return o.Value == status }) {
		return transport.AppointmentResponse{}, apperr.Validation("invalid status")
	}
	return s.respond(s.transition(ctx, id, func(a *repository.Appointment) error {
		a.Status = status
		return nil
	}))
}

// Delete removes the appointment and returns it.
func (s *Service) Delete(ctx context.Context, id int) (transport.AppointmentResponse, error) {
	appt, err := s.repo.Delete(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	s.eventBus.Publish(ctx, events.AppointmentDeleted{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
	})
	return transport.ToAppointmentResponse(appt), nil
}

// Reschedule moves an open appointment to a new start time.
func (s *Service) Reschedule(ctx context.Context, id int, at time.Time) (transport.AppointmentResponse, error) {
	if at.IsZero() {
		return transport.AppointmentResponse{}, apperr.Validation("scheduledDateTime is required")
	}
	appt, err := s.transition(ctx, id, func(a *repository.Appointment) error {
		if a.Status == transport.StatusCompleted || a.Status == transport.StatusCancelled {
			return apperr.Unprocessable(errRescheduleClosed)
		}
		a.ScheduledAt = at.UTC()
		a.Status = transport.StatusRescheduled
		return nil
	})
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	s.scheduled(ctx, appt)
	return transport.ToAppointmentResponse(appt), nil
}

// Complete marks the appointment as held. Existing notes are kept when none are given.
func (s *Service) Complete(ctx context.Context, id int, notes string) (transport.AppointmentResponse, error) {
	notes = sanitize.Text(notes)
	return s.respond(s.transition(ctx, id, func(a *repository.Appointment) error {
		if a.Status == transport.StatusCancelled {
			return apperr.Unprocessable(errCompleteCancelled)
		}
		now := s.now()
		a.Status = transport.StatusCompleted
		a.CompletedAt = &now
		if notes != "" {
			a.Notes = notes
		}
		return nil
	}))
}

// Cancel cancels an appointment that has not been held.
func (s *Service) Cancel(ctx context.Context, id int, reason string) (transport.AppointmentResponse, error) {
	reason = sanitize.Text(reason)
	return s.respond(s.transition(ctx, id, func(a *repository.Appointment) error {
		if a.Status == transport.StatusCompleted {
			return apperr.Unprocessable(errCancelCompleted)
		}
		now := s.now()
		a.Status = transport.StatusCancelled
		a.CancelledAt = &now
		a.CancellationReason = reason
		return nil
	}))
}

// Types lists the appointment types with their default durations.
func (s *Service) Types() []transport.TypeOption {
	return transport.TypeOptions
}

// StatusOptions lists the appointment statuses.
func (s *Service) StatusOptions() []transport.StatusOption {
	return transport.StatusOptions
}

func (s *Service) transition(ctx context.Context, id int, fn func(*repository.Appointment) error) (repository.Appointment, error) {
	var previous string
	appt, err := s.repo.Mutate(ctx, id, func(a *repository.Appointment) error {
		previous = a.Status
		if err := fn(a); err != nil {
			return err
		}
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return repository.Appointment{}, err
	}
	s.statusChanged(ctx, appt, previous)
	return appt, nil
}

func (s *Service) respond(appt repository.Appointment, err error) (transport.AppointmentResponse, error) {
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return transport.ToAppointmentResponse(appt), nil
}

func (s *Service) statusChanged(ctx context.Context, appt repository.Appointment, previous string) {
	if previous == appt.Status {
		return
	}
	s.eventBus.Publish(ctx, events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		OldStatus:     previous,
		NewStatus:     appt.Status,
	})
}

// scheduled publishes the booking and enqueues every reminder still ahead of us.
// Enqueue failures are logged; the appointment itself is already stored.
func (s *Service) scheduled(ctx context.Context, appt repository.Appointment) {
	s.eventBus.Publish(ctx, events.AppointmentScheduled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		Type:          appt.Type,
		Title:         appt.Title,
		ScheduledAt:   appt.ScheduledAt,
		Reminders:     appt.Reminders,
	})

	if s.reminderScheduler == nil {
		return
	}
	now := s.now()
	for _, minutes := range appt.Reminders {
		payload := scheduler.AppointmentReminderPayload{
			AppointmentID: appt.ID,
			ScheduledAt:   appt.ScheduledAt,
			MinutesBefore: minutes,
		}
		if !payload.RunAt().After(now) {
			continue
		}
		if err := s.reminderScheduler.ScheduleAppointmentReminder(ctx, payload); err != nil {
			s.log.Warn("failed to schedule appointment reminder",
				"appointmentId", appt.ID, "minutesBefore", minutes, "error", err)
		}
	}
}

// normalizeReminders drops non-positive and duplicate offsets, largest first.
func normalizeReminders(in []int) []int {
	out := make([]int, 0, len(in))
	for _, m := range in {
		if m > 0 && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b int) int { return b - a })
	return out
}

func sortByStart(items []repository.Appointment) {
	slices.SortStableFunc(items, func(a, b repository.Appointment) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
}
