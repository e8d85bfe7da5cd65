package scheduler

import (
	"context"
	"fmt"
	"slices"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	appttransport "mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/events"
	leadrepo "mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/config"
	"mlm_sales_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// AppointmentLookup loads the current state of an appointment.
type AppointmentLookup interface {
	Lookup(ctx context.Context, id int) (apptrepo.Appointment, error)
}

// LeadLookup loads the lead an appointment is booked with.
type LeadLookup interface {
	GetByID(ctx context.Context, id int) (leadrepo.Lead, error)
}

type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	appointments AppointmentLookup
	leads        LeadLookup
	bus          events.Bus
	log          *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, appointments AppointmentLookup, leads LeadLookup, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(appointments, leads, bus, log)
	w.server = server
	return w, nil
}

func newWorker(appointments AppointmentLookup, leads LeadLookup, bus events.Bus, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:          mux,
		appointments: appointments,
		leads:        leads,
		bus:          bus,
		log:          log,
	}
	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentReminder publishes AppointmentReminderDue unless the
// reminder has gone stale. A reminder is stale when its appointment is gone
// or closed, or no longer has the slot and offset the task was enqueued for.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	appt, err := w.appointments.Lookup(ctx, payload.AppointmentID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !appttransport.IsActive(appt.Status) {
		return nil
	}
	if !appt.ScheduledAt.Equal(payload.ScheduledAt) || !slices.Contains(appt.Reminders, payload.MinutesBefore) {
		w.log.Debug("dropping stale appointment reminder", "appointmentId", appt.ID, "minutesBefore", payload.MinutesBefore)
		return nil
	}

	lead, err := w.leads.GetByID(ctx, appt.LeadID)
	if err != nil {
		// The lead reference is weak; without a lead there is nobody to remind.
		w.log.Warn("appointment reminder without lead", "appointmentId", appt.ID, "leadId", appt.LeadID, "error", err)
		return nil
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.AppointmentReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        lead.ID,
		LeadName:      lead.Name,
		LeadEmail:     lead.Email,
		Title:         appt.Title,
		Location:      appt.Location,
		ScheduledAt:   appt.ScheduledAt,
		MinutesBefore: payload.MinutesBefore,
	})
	return nil
}
