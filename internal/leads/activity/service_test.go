package activity

import (
	"context"
	"testing"
	"time"

	"mlm_sales_backend/internal/leads/domain"
	"mlm_sales_backend/internal/leads/ports"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/scoring"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/events"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/store"
)

func newService(seed ...repository.Lead) (*Service, *repository.Memory) {
	repo := repository.NewMemory(store.Latency{}, seed)
	svc := New(repo, scoring.New(ports.NoAppointments{}, logger.Discard()), events.NewInMemoryBus(logger.Discard()), logger.Discard())
	return svc, repo
}

func TestPositiveCallAdvancesAndRescores(t *testing.T) {
	added := time.Now().UTC().AddDate(0, 0, -10)
	svc, _ := newService(repository.Lead{ID: 1, Name: "Ada", Status: domain.PipelineStageNewLeads, DateAdded: added, LastContacted: added})

	res, err := svc.Add(context.Background(), 1, transport.AddActivityRequest{
		Type:        domain.ActivityCall,
		Action:      domain.ActionConnected,
		Outcome:     domain.OutcomePositive,
		Description: "Great first call",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !res.StatusChanged || res.Lead.Status != domain.PipelineStageInitialContact || res.PreviousStage != domain.PipelineStageNewLeads {
		t.Fatalf("unexpected transition %+v", res)
	}
	if len(res.Lead.ContactHistory) != 1 || res.Lead.ContactHistory[0].ID == "" {
		t.Fatalf("expected activity recorded with id")
	}
	// 30 base + 5 stage + 2 activity + 4 positive + 8 recency
	if res.Lead.AIScore != 49 {
		t.Fatalf("expected score 49, got %d (%v)", res.Lead.AIScore, res.Lead.ScoreFactors)
	}
}

func TestNegativeOutcomeClosesLead(t *testing.T) {
	svc, repo := newService(repository.Lead{ID: 1, Name: "Ada", Status: domain.PipelineStagePresented})

	_, err := svc.Add(context.Background(), 1, transport.AddActivityRequest{
		Type:        domain.ActivityCall,
		Action:      domain.ActionConnected,
		Outcome:     domain.OutcomeNegative,
		Description: "Not interested",
		Objection:   &transport.ObjectionRequest{Type: domain.ObjectionPrice},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	lead, _ := repo.GetByID(context.Background(), 1)
	if lead.Status != domain.PipelineStageClosedLost {
		t.Fatalf("expected Closed Lost, got %q", lead.Status)
	}
	if lead.ContactHistory[0].Objection == nil || lead.ContactHistory[0].Objection.Type != domain.ObjectionPrice {
		t.Fatalf("expected objection stored")
	}
}

func TestBackdatedActivityKeepsLastContacted(t *testing.T) {
	recent := time.Now().UTC()
	svc, repo := newService(repository.Lead{ID: 1, Name: "Ada", Status: domain.PipelineStageInitialContact, LastContacted: recent})

	old := recent.AddDate(0, 0, -5)
	if _, err := svc.Add(context.Background(), 1, transport.AddActivityRequest{
		Type: domain.ActivityEmail, Action: domain.ActionSent, Outcome: domain.OutcomeNeutral,
		Description: "Sent brochure", Date: &old,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	lead, _ := repo.GetByID(context.Background(), 1)
	if !lead.LastContacted.Equal(recent) {
		t.Fatalf("expected lastContacted to stay at %s, got %s", recent, lead.LastContacted)
	}
}

func TestAddRejectsBlankDescriptionAndMissingLead(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Add(context.Background(), 1, transport.AddActivityRequest{Description: "  <p></p> "})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Add(context.Background(), 1, transport.AddActivityRequest{
		Type: domain.ActivityCall, Action: domain.ActionAttempted, Outcome: domain.OutcomeNeutral, Description: "voicemail",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOptionsCarryLabelsForEveryValue(t *testing.T) {
	svc, _ := newService()
	opts := svc.Options()

	groups := []struct {
		name   string
		got    []transport.Option
		values []string
	}{
		{"types", opts.Types, domain.ActivityTypes},
		{"actions", opts.Actions, domain.ActivityActions},
		{"outcomes", opts.Outcomes, domain.Outcomes},
		{"objections", opts.Objections, domain.ObjectionTypes},
	}
	for _, g := range groups {
		if len(g.got) != len(g.values) {
			t.Fatalf("%s: expected %d options, got %d", g.name, len(g.values), len(g.got))
		}
		for i, o := range g.got {
			if o.Value != g.values[i] || o.Label == "" {
				t.Fatalf("%s[%d]: unexpected option %+v", g.name, i, o)
			}
		}
	}
	if opts.Types[0].Label != "Phone Call" || opts.Outcomes[0].Label != "Positive - Moving Forward" {
		t.Fatalf("unexpected labels %+v %+v", opts.Types[0], opts.Outcomes[0])
	}
}
