// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"mlm_sales_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created, by hand or by import.
type LeadCreated struct {
	BaseEvent
	LeadID int    `json:"leadId"`
	Name   string `json:"name"`
	Source string `json:"source"`
	Status string `json:"status"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when a lead moves between pipeline stages.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    int    `json:"leadId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	Reason    string `json:"reason"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// ActivityLogged is published after an activity is recorded on a lead.
type ActivityLogged struct {
	BaseEvent
	LeadID       int    `json:"leadId"`
	ActivityID   string `json:"activityId"`
	ActivityType string `json:"activityType"`
	Outcome      string `json:"outcome"`
}

func (e ActivityLogged) EventName() string { return "leads.activity.logged" }

// LeadsImported is published once per successful CSV import.
type LeadsImported struct {
	BaseEvent
	Count int `json:"count"`
}

func (e LeadsImported) EventName() string { return "leads.import.completed" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentScheduled is published when an appointment is created or rescheduled.
type AppointmentScheduled struct {
	BaseEvent
	AppointmentID int       `json:"appointmentId"`
	LeadID        int       `json:"leadId"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Reminders     []int     `json:"reminders"`
}

func (e AppointmentScheduled) EventName() string { return "appointments.appointment.scheduled" }

// AppointmentStatusChanged is published on complete, cancel and status updates.
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID int    `json:"appointmentId"`
	LeadID        int    `json:"leadId"`
	OldStatus     string `json:"oldStatus"`
	NewStatus     string `json:"newStatus"`
}

func (e AppointmentStatusChanged) EventName() string {
	return "appointments.appointment.status_changed"
}

// AppointmentReassigned is published when an appointment moves to another lead.
type AppointmentReassigned struct {
	BaseEvent
	AppointmentID int `json:"appointmentId"`
	OldLeadID     int `json:"oldLeadId"`
	NewLeadID     int `json:"newLeadId"`
}

func (e AppointmentReassigned) EventName() string { return "appointments.appointment.reassigned" }

// AppointmentDeleted is published when an appointment is removed.
type AppointmentDeleted struct {
	BaseEvent
	AppointmentID int `json:"appointmentId"`
	LeadID        int `json:"leadId"`
}

func (e AppointmentDeleted) EventName() string { return "appointments.appointment.deleted" }

// AppointmentReminderDue is published by the scheduler worker when a
// reminder task fires for an appointment that still needs it.
type AppointmentReminderDue struct {
	BaseEvent
	AppointmentID int       `json:"appointmentId"`
	LeadID        int       `json:"leadId"`
	LeadName      string    `json:"leadName"`
	LeadEmail     string    `json:"leadEmail"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	MinutesBefore int       `json:"minutesBefore"`
}

func (e AppointmentReminderDue) EventName() string { return "appointments.reminder.due" }
