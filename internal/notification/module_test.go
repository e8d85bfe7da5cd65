package notification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mlm_sales_backend/internal/email"
	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/platform/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type testSender struct {
	reminders []string
	err       error
}

func (s *testSender) SendAppointmentReminder(_ context.Context, to string, r email.AppointmentReminder) error {
	s.reminders = append(s.reminders, to+"|"+r.Title)
	return s.err
}

func (s *testSender) SendFollowUpDigest(context.Context, string, email.FollowUpDigest) error {
	return nil
}

func reminderDue(leadEmail string) events.AppointmentReminderDue {
	return events.AppointmentReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: 1,
		LeadID:        2,
		LeadName:      "Ada",
		LeadEmail:     leadEmail,
		Title:         "Product Presentation",
		ScheduledAt:   time.Now().Add(time.Hour),
		MinutesBefore: 60,
	}
}

func TestAppointmentReminderSendsEmail(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.Discard())

	before := testutil.ToFloat64(emailsSent.WithLabelValues(kindAppointmentReminder, resultSent))
	if err := m.Handle(context.Background(), reminderDue("ada@example.com")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.reminders) != 1 || sender.reminders[0] != "ada@example.com|Product Presentation" {
		t.Fatalf("unexpected sends %v", sender.reminders)
	}
	if got := testutil.ToFloat64(emailsSent.WithLabelValues(kindAppointmentReminder, resultSent)); got != before+1 {
		t.Fatalf("expected sent counter to increase, got %v -> %v", before, got)
	}
}

func TestAppointmentReminderWithoutEmailIsSkipped(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.Discard())

	if err := m.Handle(context.Background(), reminderDue("")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.reminders) != 0 {
		t.Fatalf("expected no email without address")
	}
}

func TestAppointmentReminderPropagatesSendFailure(t *testing.T) {
	m := New(&testSender{err: errors.New("smtp down")}, logger.Discard())
	if err := m.Handle(context.Background(), reminderDue("ada@example.com")); err == nil {
		t.Fatalf("expected send failure to surface")
	}
}

func TestStatusChangeIsLogged(t *testing.T) {
	var buf bytes.Buffer
	m := New(nil, logger.NewWithWriter("production", &buf))

	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)
	bus.Publish(context.Background(), events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    5,
		OldStatus: "New Leads",
		NewStatus: "Initial Contact",
		Reason:    "positive call",
	})
	bus.Wait()

	if !strings.Contains(buf.String(), "Initial Contact") {
		t.Fatalf("expected transition in log output, got %s", buf.String())
	}
}

func TestSourceLabel(t *testing.T) {
	cases := map[string]string{"": "unknown", "Referral from Bob": "referral", "csv_import": "csv_import", "Billboard": "other"}
	for in, want := range cases {
		if got := sourceLabel(in); got != want {
			t.Fatalf("sourceLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
