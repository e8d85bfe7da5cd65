package transport

import (
	"time"

	"mlm_sales_backend/internal/appointments/repository"
)

// AppointmentType values.
const (
	TypePresentation = "presentation"
	TypeFollowUp     = "follow_up"
	TypeMeeting      = "meeting"
	TypeConsultation = "consultation"
	TypeTraining     = "training"
	TypeClosing      = "closing"
)

// AppointmentStatus values.
const (
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"
)

const DefaultDuration = 60

// TypeOption describes an appointment type for the scheduling form.
type TypeOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Duration int    `json:"duration"`
}

// StatusOption describes an appointment status badge.
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var TypeOptions = []TypeOption{
	{Value: TypePresentation, Label: "Product Presentation", Icon: "Presentation", Duration: 90},
	{Value: TypeFollowUp, Label: "Follow-up Call", Icon: "Phone", Duration: 30},
	{Value: TypeMeeting, Label: "In-Person Meeting", Icon: "Users", Duration: 60},
	{Value: TypeConsultation, Label: "Consultation", Icon: "MessageCircle", Duration: 45},
	{Value: TypeTraining, Label: "Training Session", Icon: "BookOpen", Duration: 120},
	{Value: TypeClosing, Label: "Closing Meeting", Icon: "Handshake", Duration: 60},
}

var StatusOptions = []StatusOption{
	{Value: StatusScheduled, Label: "Scheduled", Color: "blue"},
	{Value: StatusConfirmed, Label: "Confirmed", Color: "green"},
	{Value: StatusRescheduled, Label: "Rescheduled", Color: "yellow"},
	{Value: StatusCompleted, Label: "Completed", Color: "green"},
	{Value: StatusCancelled, Label: "Cancelled", Color: "red"},
	{Value: StatusNoShow, Label: "No Show", Color: "gray"},
}

// IsActive reports whether the appointment is still expected to happen.
func IsActive(status string) bool {
	return status == StatusScheduled || status == StatusConfirmed || status == StatusRescheduled
}

type CreateAppointmentRequest struct {
	LeadID            int       `json:"leadId" validate:"required,min=1"`
	Type              string    `json:"type" validate:"required,oneof=presentation follow_up meeting consultation training closing"`
	Title             string    `json:"title" validate:"required,min=1,max=200"`
	Description       string    `json:"description" validate:"max=2000"`
	ScheduledDateTime time.Time `json:"scheduledDateTime" validate:"required"`
	Duration          int       `json:"duration" validate:"min=0,max=1440"`
	Location          string    `json:"location" validate:"max=500"`
	Notes             string    `json:"notes" validate:"max=5000"`
	Reminders         []int     `json:"reminders" validate:"omitempty,dive,min=1,max=10080"`
}

type UpdateAppointmentRequest struct {
	LeadID            *int       `json:"leadId,omitempty" validate:"omitempty,min=1"`
	Type              *string    `json:"type,omitempty" validate:"omitempty,oneof=presentation follow_up meeting consultation training closing"`
	Title             *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	ScheduledDateTime *time.Time `json:"scheduledDateTime,omitempty"`
	Duration          *int       `json:"duration,omitempty" validate:"omitempty,min=1,max=1440"`
	Status            *string    `json:"status,omitempty" validate:"omitempty,oneof=scheduled confirmed rescheduled completed cancelled no_show"`
	Location          *string    `json:"location,omitempty" validate:"omitempty,max=500"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Reminders         []int      `json:"reminders,omitempty" validate:"omitempty,dive,min=1,max=10080"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed rescheduled completed cancelled no_show"`
}

type RescheduleRequest struct {
	ScheduledDateTime time.Time `json:"scheduledDateTime" validate:"required"`
}

type CompleteRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// ListAppointmentsRequest selects a lead's appointments or a date window.
type ListAppointmentsRequest struct {
	LeadID int        `form:"leadId" validate:"omitempty,min=1"`
	Start  *time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00"`
	End    *time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00"`
}

type AppointmentResponse struct {
	ID                 int        `json:"id"`
	LeadID             int        `json:"leadId"`
	Type               string     `json:"type"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	ScheduledDateTime  time.Time  `json:"scheduledDateTime"`
	EndDateTime        time.Time  `json:"endDateTime"`
	Duration           int        `json:"duration"`
	Status             string     `json:"status"`
	Location           string     `json:"location"`
	Notes              string     `json:"notes"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	Reminders          []int      `json:"reminders"`
}

func ToAppointmentResponse(a repository.Appointment) AppointmentResponse {
	reminders := a.Reminders
	if reminders == nil {
		reminders = []int{}
	}
	return AppointmentResponse{
		ID:                 a.ID,
		LeadID:             a.LeadID,
		Type:               a.Type,
		Title:              a.Title,
		Description:        a.Description,
		ScheduledDateTime:  a.ScheduledAt,
		EndDateTime:        a.EndsAt(),
		Duration:           a.Duration,
		Status:             a.Status,
		Location:           a.Location,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		CompletedAt:        a.CompletedAt,
		CancelledAt:        a.CancelledAt,
		CancellationReason: a.CancellationReason,
		Reminders:          reminders,
	}
}

func ToAppointmentResponses(items []repository.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToAppointmentResponse(a))
	}
	return out
}
