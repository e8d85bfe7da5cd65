package fixtures

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	appttransport "mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/leads/domain"
	leadrepo "mlm_sales_backend/internal/leads/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// DemoConfig controls the generated demo data. The same Seed and Now
// always produce the same leads and appointments.
type DemoConfig struct {
	Count     int
	Seed      int64
	Now       time.Time
	Reminders []int
}

var (
	demoSources = []string{"Referral", "Referral", "Social Media", "Social Media", "Website", "Event", "Warm Market", "Cold Call"}
	areaCodes   = []string{"201", "212", "305", "312", "415", "512", "617", "702"}
	locations   = []string{"Zoom", "Phone", "Coffee shop downtown", "Client's home", "Team office"}

	// earlier stages are listed more often so the board looks like a funnel
	demoStages = []string{
		domain.PipelineStageNewLeads, domain.PipelineStageNewLeads, domain.PipelineStageNewLeads,
		domain.PipelineStageInitialContact, domain.PipelineStageInitialContact,
		domain.PipelineStagePresentationScheduled, domain.PipelineStagePresented,
		domain.PipelineStageFollowUp, domain.PipelineStageProposalSent,
		domain.PipelineStageNegotiation, domain.PipelineStageClosedWon, domain.PipelineStageClosedLost,
	}
)

// Demo generates leads with contact history plus appointments for some of them.
func Demo(cfg DemoConfig) ([]leadrepo.Lead, []apptrepo.Appointment) {
	f := gofakeit.New(cfg.Seed)
	now := cfg.Now.UTC()

	leads := make([]leadrepo.Lead, 0, cfg.Count)
	appts := make([]apptrepo.Appointment, 0, cfg.Count/2)
	for i := 1; i <= cfg.Count; i++ {
		lead := demoLead(f, i, now)
		leads = append(leads, lead)

		if lead.Status == domain.PipelineStageClosedLost || f.Number(1, 10) > 4 {
			continue
		}
		appts = append(appts, demoAppointment(f, len(appts)+1, lead, now, cfg.Reminders))
	}
	return leads, appts
}

func demoLead(f *gofakeit.Faker, id int, now time.Time) leadrepo.Lead {
	first, last := f.FirstName(), f.LastName()
	added := now.AddDate(0, 0, -f.Number(1, 180)).Add(-time.Duration(f.Number(0, 23)) * time.Hour)

	lead := leadrepo.Lead{
		ID:             id,
		Name:           first + " " + last,
		Email:          strings.ToLower(fmt.Sprintf("%s.%s@%s", first, last, f.DomainName())),
		Phone:          fmt.Sprintf("+1%s555%04d", f.RandomString(areaCodes), f.Number(100, 9999)),
		Source:         f.RandomString(demoSources),
		Status:         f.RandomString(demoStages),
		DateAdded:      added,
		LastContacted:  added,
		EstimatedValue: float64(f.Number(2, 120) * 500),
	}
	if f.Bool() {
		lead.Company = f.Company()
	}
	if lead.Status == domain.PipelineStageClosedWon {
		v := float64(f.Number(10, 200) * 100)
		lead.ContractValue = &v
	}

	for n := f.Number(0, 4); n > 0; n-- {
		lead.ContactHistory = append(lead.ContactHistory, demoActivity(f, lead.Status, added, now))
	}
	slices.SortFunc(lead.ContactHistory, func(a, b leadrepo.Activity) int { return b.Date.Compare(a.Date) })
	if a, ok := lead.LatestActivity(); ok {
		lead.LastContacted = a.Date
	}

	if f.Bool() {
		lead.Notes = []leadrepo.Note{{ID: f.UUID(), Content: f.Sentence(10), Date: added}}
	}
	return lead
}

func demoActivity(f *gofakeit.Faker, status string, from, to time.Time) leadrepo.Activity {
	span := int(to.Sub(from) / time.Hour)
	date := from.Add(time.Duration(f.Number(0, max(span, 0))) * time.Hour)

	types := domain.ActivityTypes[:len(domain.ActivityTypes)-1]
	outcome := f.RandomString(domain.Outcomes)
	switch status {
	case domain.PipelineStageClosedLost:
		outcome = domain.OutcomeNegative
	case domain.PipelineStageClosedWon:
		types = domain.ActivityTypes
	}

	a := leadrepo.Activity{
		ID:          f.UUID(),
		Type:        f.RandomString(types),
		Action:      f.RandomString(domain.ActivityActions),
		Outcome:     outcome,
		Description: f.Sentence(8),
		Date:        date,
	}
	if outcome == domain.OutcomeNegative && f.Bool() {
		a.Objection = &leadrepo.Objection{Type: f.RandomString(domain.ObjectionTypes), Details: f.Sentence(6)}
	}
	return a
}

func demoAppointment(f *gofakeit.Faker, id int, lead leadrepo.Lead, now time.Time, reminders []int) apptrepo.Appointment {
	kind := appttransport.TypeOptions[f.Number(0, len(appttransport.TypeOptions)-1)]
	day := now.AddDate(0, 0, f.Number(-20, 20))
	at := time.Date(day.Year(), day.Month(), day.Day(), f.Number(9, 18), 0, 0, 0, time.UTC)

	a := apptrepo.Appointment{
		ID:          id,
		LeadID:      lead.ID,
		Type:        kind.Value,
		Title:       fmt.Sprintf("%s with %s", kind.Label, lead.Name),
		ScheduledAt: at,
		Duration:    kind.Duration,
		Location:    f.RandomString(locations),
		CreatedAt:   lead.DateAdded,
		UpdatedAt:   lead.DateAdded,
		Reminders:   slices.Clone(reminders),
	}

	if at.After(now) {
		a.Status = f.RandomString([]string{appttransport.StatusScheduled, appttransport.StatusScheduled, appttransport.StatusConfirmed})
		return a
	}
	a.Status = f.RandomString([]string{appttransport.StatusCompleted, appttransport.StatusCompleted, appttransport.StatusNoShow, appttransport.StatusCancelled})
	switch a.Status {
	case appttransport.StatusCompleted:
		done := a.EndsAt()
		a.CompletedAt = &done
		a.Notes = f.Sentence(12)
	case appttransport.StatusCancelled:
		cancelled := at.Add(-24 * time.Hour)
		a.CancelledAt = &cancelled
		a.CancellationReason = "Lead asked to reschedule later"
	}
	return a
}
