// Package notification provides event handlers for sending notifications
// in response to domain events.
// This module subscribes to events and inverts the dependency: domain modules
// no longer need to know about email providers or templates.
package notification

import (
	"context"
	"strings"

	"mlm_sales_backend/internal/email"
	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/platform/logger"
)

const (
	kindAppointmentReminder = "appointment_reminder"

	resultSent    = "sent"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)

var knownSources = []string{"referral", "website", "social", "event", "email", "cold", "csv_import"}

// Module handles notification side effects of domain events.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// New creates the notification module. A nil sender disables email.
func New(sender email.Sender, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Lead events
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)
	bus.Subscribe(events.LeadsImported{}.EventName(), m)

	// Appointment domain events
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		leadsCreated.WithLabelValues(sourceLabel(e.Source)).Inc()
		m.log.Info("lead created", "leadId", e.LeadID, "source", e.Source, "status", e.Status)
		return nil
	case events.LeadStatusChanged:
		stageTransitions.WithLabelValues(e.NewStatus).Inc()
		m.log.PipelineTransition(e.LeadID, e.OldStatus, e.NewStatus, e.Reason)
		return nil
	case events.LeadsImported:
		m.log.Info("lead import completed", "count", e.Count)
		return nil
	case events.AppointmentReminderDue:
		return m.handleAppointmentReminderDue(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleAppointmentReminderDue(ctx context.Context, e events.AppointmentReminderDue) error {
	if e.LeadEmail == "" {
		emailsSent.WithLabelValues(kindAppointmentReminder, resultSkipped).Inc()
		m.log.Info("appointment reminder skipped: lead has no email",
			"appointmentId", e.AppointmentID, "leadId", e.LeadID)
		return nil
	}

	err := m.sender.SendAppointmentReminder(ctx, e.LeadEmail, email.AppointmentReminder{
		LeadName:      e.LeadName,
		Title:         e.Title,
		Location:      e.Location,
		ScheduledAt:   e.ScheduledAt,
		MinutesBefore: e.MinutesBefore,
	})
	if err != nil {
		emailsSent.WithLabelValues(kindAppointmentReminder, resultFailed).Inc()
		return err
	}

	emailsSent.WithLabelValues(kindAppointmentReminder, resultSent).Inc()
	m.log.Info("appointment reminder sent",
		"appointmentId", e.AppointmentID, "leadId", e.LeadID, "minutesBefore", e.MinutesBefore)
	return nil
}

// sourceLabel buckets free-text lead sources to keep metric cardinality bounded.
func sourceLabel(source string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return "unknown"
	}
	for _, known := range knownSources {
		if strings.Contains(source, known) {
			return known
		}
	}
	return "other"
}
