package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mlm_sales_backend/internal/appointments/repository"
	"mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/scheduler"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/store"
)

var now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type fakeScheduler struct {
	payloads []scheduler.AppointmentReminderPayload
	err      error
}

func (f *fakeScheduler) ScheduleAppointmentReminder(_ context.Context, p scheduler.AppointmentReminderPayload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newService(seed ...repository.Appointment) (*Service, *fakeScheduler, *recordingBus) {
	sched := &fakeScheduler{}
	bus := &recordingBus{}
	svc := New(repository.New(store.Latency{}, seed), bus, sched, []int{1440, 60}, logger.Discard())
	svc.now = func() time.Time { return now }
	return svc, sched, bus
}

func TestCreateDefaultsAndReminders(t *testing.T) {
	svc, sched, bus := newService(repository.Appointment{ID: 4, LeadID: 1, Title: "Old", ScheduledAt: now.Add(-time.Hour)})

	// 2h out: the 1440 minute reminder is already in the past.
	appt, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID:            1,
		Type:              transport.TypePresentation,
		Title:             "Opportunity call",
		ScheduledDateTime: now.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.ID != 5 || appt.Status != transport.StatusScheduled || appt.Duration != transport.DefaultDuration {
		t.Fatalf("unexpected appointment %+v", appt)
	}
	if len(appt.Reminders) != 2 {
		t.Fatalf("expected default reminders, got %v", appt.Reminders)
	}
	if len(sched.payloads) != 1 || sched.payloads[0].MinutesBefore != 60 || sched.payloads[0].AppointmentID != 5 {
		t.Fatalf("expected only the 60 minute reminder, got %+v", sched.payloads)
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != (events.AppointmentScheduled{}).EventName() {
		t.Fatalf("expected scheduled event, got %v", bus.events)
	}
}

func TestCreateSurvivesSchedulerFailure(t *testing.T) {
	svc, sched, _ := newService()
	sched.err = errors.New("redis down")

	_, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID: 1, Type: transport.TypeMeeting, Title: "Coffee",
		ScheduledDateTime: now.Add(48 * time.Hour), Reminders: []int{30, 30, 0},
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if len(sched.payloads) != 1 {
		t.Fatalf("expected duplicate and zero offsets dropped, got %d calls", len(sched.payloads))
	}
}

func TestLifecycleRules(t *testing.T) {
	svc, _, _ := newService(
		repository.Appointment{ID: 1, LeadID: 1, Title: "a", Status: transport.StatusCompleted, ScheduledAt: now, Notes: "went well"},
		repository.Appointment{ID: 2, LeadID: 1, Title: "b", Status: transport.StatusCancelled, ScheduledAt: now},
		repository.Appointment{ID: 3, LeadID: 2, Title: "c", Status: transport.StatusScheduled, ScheduledAt: now, Notes: "bring samples"},
	)
	ctx := context.Background()

	if _, err := svc.Reschedule(ctx, 1, now.Add(time.Hour)); !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected reschedule of completed to fail, got %v", err)
	}
	if _, err := svc.Complete(ctx, 2, ""); !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected complete of cancelled to fail, got %v", err)
	}
	if _, err := svc.Cancel(ctx, 1, "nope"); !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected cancel of completed to fail, got %v", err)
	}

	moved, err := svc.Reschedule(ctx, 3, now.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.Status != transport.StatusRescheduled || !moved.ScheduledDateTime.Equal(now.Add(72*time.Hour)) {
		t.Fatalf("unexpected rescheduled appointment %+v", moved)
	}

	done, err := svc.Complete(ctx, 3, "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Notes != "bring samples" || done.CompletedAt == nil {
		t.Fatalf("expected notes kept and completedAt set, got %+v", done)
	}
}

func TestQueries(t *testing.T) {
	svc, _, _ := newService(
		repository.Appointment{ID: 1, LeadID: 1, Title: "past", Status: transport.StatusCompleted, ScheduledAt: now.Add(-48 * time.Hour)},
		repository.Appointment{ID: 2, LeadID: 1, Title: "later", Status: transport.StatusScheduled, ScheduledAt: now.Add(48 * time.Hour)},
		repository.Appointment{ID: 3, LeadID: 2, Title: "soon", Status: transport.StatusConfirmed, ScheduledAt: now.Add(time.Hour)},
		repository.Appointment{ID: 4, LeadID: 2, Title: "off", Status: transport.StatusCancelled, ScheduledAt: now.Add(2 * time.Hour)},
	)
	ctx := context.Background()

	upcoming, _ := svc.GetUpcoming(ctx)
	if len(upcoming) != 2 || upcoming[0].ID != 3 || upcoming[1].ID != 2 {
		t.Fatalf("unexpected upcoming %+v", upcoming)
	}

	byLead, _ := svc.GetByLeadID(ctx, 1)
	if len(byLead) != 2 {
		t.Fatalf("expected 2 appointments for lead 1, got %d", len(byLead))
	}

	window, _ := svc.GetByDateRange(ctx, now.Add(time.Hour), now.Add(48*time.Hour))
	if len(window) != 3 {
		t.Fatalf("expected inclusive window of 3, got %d", len(window))
	}

	stats, err := svc.StatsForLead(ctx, 2, now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Upcoming != 1 || stats.Cancelled != 1 || !stats.LatestScheduledAt.Equal(now.Add(2*time.Hour)) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestDeleteReturnsRemovedAppointment(t *testing.T) {
	svc, _, bus := newService(repository.Appointment{ID: 9, LeadID: 3, Title: "x"})

	removed, err := svc.Delete(context.Background(), 9)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != 9 || len(bus.events) != 1 {
		t.Fatalf("unexpected delete result %+v, events %d", removed, len(bus.events))
	}
	if _, err := svc.Delete(context.Background(), 9); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	svc, _, bus := newService(repository.Appointment{ID: 1, LeadID: 3, Title: "x", Status: transport.StatusScheduled})

	if _, err := svc.UpdateStatus(context.Background(), 1, "maybe"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), 1, transport.StatusNoShow); err != nil {
		t.Fatalf("update status: %v", err)
	}
	changed, ok := bus.events[0].(events.AppointmentStatusChanged)
	if !ok || changed.OldStatus != transport.StatusScheduled || changed.NewStatus != transport.StatusNoShow {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
}

func TestUpdateLeadPublishesReassignment(t *testing.T) {
	svc, sched, bus := newService(repository.Appointment{ID: 1, LeadID: 3, Title: "Demo", Status: transport.StatusScheduled, ScheduledAt: now.Add(48 * time.Hour), Reminders: []int{60}})

	newLead := 5
	res, err := svc.Update(context.Background(), 1, transport.UpdateAppointmentRequest{LeadID: &newLead})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.LeadID != 5 {
		t.Fatalf("expected lead 5, got %d", res.LeadID)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %+v", bus.events)
	}
	moved, ok := bus.events[0].(events.AppointmentReassigned)
	if !ok || moved.OldLeadID != 3 || moved.NewLeadID != 5 {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
	if len(sched.payloads) != 0 {
		t.Fatalf("did not expect reminders to be re-enqueued, got %+v", sched.payloads)
	}
}
