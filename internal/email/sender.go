package email

import (
	"context"
	"time"
)

// Sender delivers the transactional emails the CRM sends.
type Sender interface {
	SendAppointmentReminder(ctx context.Context, toEmail string, reminder AppointmentReminder) error
	SendFollowUpDigest(ctx context.Context, toEmail string, digest FollowUpDigest) error
}

// AppointmentReminder is the content of a reminder sent to a lead.
type AppointmentReminder struct {
	LeadName      string
	Title         string
	Location      string
	ScheduledAt   time.Time
	MinutesBefore int
}

// FollowUpDigest lists the follow-ups due for the sales rep.
type FollowUpDigest struct {
	GeneratedAt time.Time
	Items       []DigestItem
}

// DigestItem is one row of the follow-up digest.
type DigestItem struct {
	LeadName        string
	Status          string
	Priority        string
	Timing          string
	SuggestedAction string
}

// NoopSender discards every email. It is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendAppointmentReminder(context.Context, string, AppointmentReminder) error {
	return nil
}

func (NoopSender) SendFollowUpDigest(context.Context, string, FollowUpDigest) error {
	return nil
}
