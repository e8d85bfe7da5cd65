package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAppointmentReminder = "appointments.reminder"

// AppointmentReminderPayload identifies one reminder of one appointment slot.
// ScheduledAt pins the slot so reminders for a rescheduled appointment can
// be recognised as stale.
type AppointmentReminderPayload struct {
	AppointmentID int       `json:"appointmentId"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	MinutesBefore int       `json:"minutesBefore"`
}

// TaskID is unique per appointment, slot and offset so that enqueueing the
// same reminder twice is a no-op.
func (p AppointmentReminderPayload) TaskID() string {
	return fmt.Sprintf("appt-%d-%d-%d", p.AppointmentID, p.ScheduledAt.Unix(), p.MinutesBefore)
}

// RunAt is when the reminder should fire.
func (p AppointmentReminderPayload) RunAt() time.Time {
	return p.ScheduledAt.Add(-time.Duration(p.MinutesBefore) * time.Minute)
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}
