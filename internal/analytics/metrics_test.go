package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	appttransport "mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/leads/domain"
	leadrepo "mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/platform/logger"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func ago(days int) time.Time { return now.AddDate(0, 0, -days) }

func value(v float64) *float64 { return &v }

func fixtureLeads() []leadrepo.Lead {
	return []leadrepo.Lead{
		{ID: 1, Status: domain.PipelineStageNewLeads, DateAdded: ago(2), Source: "Referral"},
		{ID: 2, Status: domain.PipelineStageNewLeads, DateAdded: ago(40), Source: "Social Media"},
		{ID: 3, Status: domain.PipelineStageInitialContact, DateAdded: ago(10), Source: "Referral"},
		{ID: 4, Status: domain.PipelineStagePresented, DateAdded: ago(100)},
		{ID: 5, Status: domain.PipelineStageClosedWon, DateAdded: ago(90), ContractValue: value(5000), LastContacted: ago(1), Source: "Referral"},
		{ID: 6, Status: domain.PipelineStageClosedWon, DateAdded: ago(30), ContractValue: value(3000), LastContacted: now, Source: "Social Media"},
		{ID: 7, Status: domain.PipelineStageClosedLost, DateAdded: ago(60), Source: "Website"},
	}
}

func fixtureAppointments() []apptrepo.Appointment {
	return []apptrepo.Appointment{
		{ID: 1, LeadID: 5, Status: appttransport.StatusCompleted, ScheduledAt: ago(5)},
		{ID: 2, LeadID: 3, Status: appttransport.StatusNoShow, ScheduledAt: ago(3)},
		{ID: 3, LeadID: 1, Status: appttransport.StatusScheduled, ScheduledAt: now.AddDate(0, 0, 2)},
		{ID: 4, LeadID: 7, Status: appttransport.StatusCancelled, ScheduledAt: ago(20)},
	}
}

func TestConversionRates(t *testing.T) {
	rates := ConversionRates(fixtureLeads())
	want := map[string]float64{
		domain.PipelineStageInitialContact:        50,
		domain.PipelineStagePresentationScheduled: 0,
		domain.PipelineStagePresented:             0,
		domain.PipelineStageFollowUp:              0,
		domain.PipelineStageClosedWon:             0,
		"overall":                                 33.3,
	}
	if len(rates) != len(want) {
		t.Fatalf("expected %d rates, got %v", len(want), rates)
	}
	for k, v := range want {
		if rates[k] != v {
			t.Fatalf("rate %q: expected %v, got %v", k, v, rates[k])
		}
	}
}

func TestPipelineAndClosing(t *testing.T) {
	p := Pipeline(fixtureLeads(), now)
	if p.AverageTimeInPipeline != 60 || p.Velocity != 0.7 || p.ActiveLeads != 4 || p.TotalValue != 8000 {
		t.Fatalf("unexpected pipeline metrics %+v", p)
	}

	c := Closing(fixtureLeads())
	if c.ClosingPercentage != 66.7 || c.OverallClosingRate != 28.6 || c.AverageDealSize != 4000 {
		t.Fatalf("unexpected closing metrics %+v", c)
	}
	if c.TotalWon != 2 || c.TotalLost != 1 {
		t.Fatalf("unexpected totals %+v", c)
	}
	wantSources := []string{"Social Media", "Referral", "Unknown", "Website"}
	if len(c.TopPerformingSources) != len(wantSources) {
		t.Fatalf("unexpected sources %+v", c.TopPerformingSources)
	}
	for i, s := range wantSources {
		if c.TopPerformingSources[i].Source != s {
			t.Fatalf("source %d: expected %s, got %+v", i, s, c.TopPerformingSources)
		}
	}
	if c.TopPerformingSources[1].WinRate != 33.3 {
		t.Fatalf("expected referral win rate 33.3, got %v", c.TopPerformingSources[1].WinRate)
	}
}

func TestAppointmentMetrics(t *testing.T) {
	m := Appointments(fixtureAppointments(), fixtureLeads(), now)
	want := AppointmentMetrics{
		Total: 4, Completed: 1, NoShow: 1, Cancelled: 1,
		ShowRate: 50, CompletionRate: 25, AppointmentConversionRate: 25, UpcomingCount: 1,
	}
	if m != want {
		t.Fatalf("expected %+v, got %+v", want, m)
	}
}

func TestVolumeTrendsCoverTwelveMonths(t *testing.T) {
	trends := VolumeTrends(fixtureLeads(), now)
	if len(trends) != 12 || trends[0].Month != "2025-07" || trends[11].Month != "2026-06" {
		t.Fatalf("unexpected months %+v", trends)
	}
	byMonth := make(map[string]MonthVolume)
	for _, m := range trends {
		byMonth[m.Month] = m
	}
	cases := map[string]MonthVolume{
		"2026-06": {Month: "2026-06", New: 2},
		"2026-05": {Month: "2026-05", New: 2, Converted: 1},
		"2026-04": {Month: "2026-04", New: 1, Lost: 1},
		"2026-03": {Month: "2026-03", New: 2, Converted: 1},
	}
	for month, want := range cases {
		if byMonth[month] != want {
			t.Fatalf("%s: expected %+v, got %+v", month, want, byMonth[month])
		}
	}
}

func TestDailyTrends(t *testing.T) {
	days := DailyTrends(fixtureLeads(), fixtureAppointments(), now)
	if len(days) != 30 || days[0].Date != "2026-05-17" || days[29].Date != "2026-06-15" {
		t.Fatalf("unexpected window %s..%s (%d)", days[0].Date, days[len(days)-1].Date, len(days))
	}
	var leads, appts, conversions int
	for _, d := range days {
		leads += d.Leads
		appts += d.Appointments
		conversions += d.Conversions
	}
	if leads != 2 || appts != 3 || conversions != 2 {
		t.Fatalf("unexpected totals leads=%d appts=%d conversions=%d", leads, appts, conversions)
	}
	if days[29].Conversions != 1 {
		t.Fatalf("expected a conversion today, got %+v", days[29])
	}
}

func TestInsights(t *testing.T) {
	got := Insights(Build(fixtureLeads(), fixtureAppointments(), now))
	if len(got) != 2 {
		t.Fatalf("expected 2 insights, got %+v", got)
	}
	if got[0].Type != "success" || got[0].Message != "Your overall conversion rate of 33.3% is above industry average." {
		t.Fatalf("unexpected first insight %+v", got[0])
	}
	if got[1].Title != "Low Appointment Show Rate" || got[1].Message != "Show rate is 50.0%. Consider implementing reminder systems." {
		t.Fatalf("unexpected second insight %+v", got[1])
	}

	empty := Insights(Build(nil, nil, now))
	if len(empty) != 2 || empty[0].Title != "Low Conversion Rate" || empty[1].Type != "warning" {
		t.Fatalf("unexpected insights for an empty pipeline %+v", empty)
	}

	slow := Insights(Dashboard{
		ConversionRates:    map[string]float64{"overall": 10},
		PipelineMetrics:    PipelineMetrics{AverageTimeInPipeline: 75.5},
		AppointmentMetrics: AppointmentMetrics{ShowRate: 90},
	})
	if len(slow) != 1 || slow[0].Message != "Average time in pipeline is 75.5 days. Consider streamlining your process." {
		t.Fatalf("unexpected insights %+v", slow)
	}
}

type staticLeads []leadrepo.Lead

func (s staticLeads) List(context.Context) ([]leadrepo.Lead, error) { return s, nil }

type staticAppointments struct {
	items []apptrepo.Appointment
	err   error
}

func (s staticAppointments) ListRaw(context.Context) ([]apptrepo.Appointment, error) {
	return s.items, s.err
}

func TestServiceDashboard(t *testing.T) {
	svc := New(staticLeads(fixtureLeads()), staticAppointments{items: fixtureAppointments()}, logger.Discard())
	svc.now = func() time.Time { return now }

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.AppointmentMetrics.Total != 4 || d.ClosingMetrics.TotalWon != 2 {
		t.Fatalf("unexpected dashboard %+v", d)
	}

	failing := New(staticLeads(nil), staticAppointments{err: errors.New("boom")}, logger.Discard())
	if _, err := failing.Insights(context.Background()); err == nil {
		t.Fatalf("expected error from appointment lister")
	}
}
