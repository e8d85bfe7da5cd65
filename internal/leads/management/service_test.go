package management

import (
	"context"
	"sync"
	"testing"
	"time"

	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/leads/domain"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/phone"
	"mlm_sales_backend/platform/store"
)

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

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

type countingScorer struct{ calls int }

func (s *countingScorer) Apply(_ context.Context, l *repository.Lead) {
	s.calls++
	l.AIScore = len(l.Name) * 10
}

var fixedNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func newTestService(seed ...repository.Lead) (*Service, *recordingBus, *countingScorer) {
	bus := &recordingBus{}
	scorer := &countingScorer{}
	svc := New(repository.NewMemory(store.Latency{}, seed), scorer, phone.NewNormalizer("US"), bus, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc, bus, scorer
}

func TestCreateDefaultsAndScores(t *testing.T) {
	svc, bus, scorer := newTestService(repository.Lead{ID: 7, Name: "Existing"})

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:  "  Dana <b>Scully</b> ",
		Email: " Dana@FBI.gov ",
		Phone: "(201) 555-0123",
		Notes: "Met at the expo",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if lead.ID != 8 {
		t.Fatalf("expected id 8, got %d", lead.ID)
	}
	if lead.Name != "Dana Scully" || lead.Email != "dana@fbi.gov" || lead.Phone != "+12015550123" {
		t.Fatalf("unexpected normalised fields %+v", lead)
	}
	if lead.Status != domain.PipelineStageNewLeads {
		t.Fatalf("expected default status, got %q", lead.Status)
	}
	if !lead.DateAdded.Equal(fixedNow) || !lead.LastContacted.Equal(fixedNow) {
		t.Fatalf("expected timestamps set to now")
	}
	if len(lead.Notes) != 1 || scorer.calls != 1 {
		t.Fatalf("expected one note and one scoring pass")
	}
	if names := bus.names(); len(names) != 1 || names[0] != (events.LeadCreated{}).EventName() {
		t.Fatalf("expected LeadCreated, got %v", names)
	}
}

func TestListSortsByScoreAndFilters(t *testing.T) {
	svc, _, _ := newTestService(
		repository.Lead{ID: 1, Name: "Low", Email: "low@example.com", Status: domain.PipelineStageNewLeads, AIScore: 10},
		repository.Lead{ID: 2, Name: "High", Email: "high@example.com", Status: domain.PipelineStageNegotiation, AIScore: 90, Phone: "+12015550123"},
		repository.Lead{ID: 3, Name: "Tie", Email: "tie@example.com", Status: domain.PipelineStageNewLeads, AIScore: 10},
	)

	all, err := svc.List(context.Background(), transport.ListLeadsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Items[0].ID != 2 || all.Items[1].ID != 1 || all.Items[2].ID != 3 {
		t.Fatalf("unexpected order %d %d %d", all.Items[0].ID, all.Items[1].ID, all.Items[2].ID)
	}

	byStatus, _ := svc.List(context.Background(), transport.ListLeadsRequest{Search: "negot"})
	if byStatus.Total != 1 || byStatus.Items[0].ID != 2 {
		t.Fatalf("expected status search to match lead 2, got %+v", byStatus)
	}

	byPhone, _ := svc.List(context.Background(), transport.ListLeadsRequest{Search: "555"})
	if byPhone.Total != 1 {
		t.Fatalf("expected phone search to match, got %d", byPhone.Total)
	}
	formatted, _ := svc.List(context.Background(), transport.ListLeadsRequest{Search: "(201) 555"})
	if formatted.Total != 1 || formatted.Items[0].ID != 2 {
		t.Fatalf("expected formatted phone search to match lead 2, got %+v", formatted.Items)
	}

	filtered, _ := svc.List(context.Background(), transport.ListLeadsRequest{Status: "new"})
	if filtered.Total != 2 {
		t.Fatalf("expected 2 new leads, got %d", filtered.Total)
	}
}

func TestUpdateMergesAndPublishesStatusChange(t *testing.T) {
	value := 5000.0
	svc, bus, _ := newTestService(repository.Lead{ID: 1, Name: "Ada", Status: domain.PipelineStageNewLeads, ContractValue: &value})

	status := "Initial Contact"
	lead, err := svc.Update(context.Background(), 1, transport.UpdateLeadRequest{
		Status:        &status,
		ContractValue: transport.OptionalFloat{Set: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if lead.Name != "Ada" || lead.Status != domain.PipelineStageInitialContact {
		t.Fatalf("unexpected lead %+v", lead)
	}
	if lead.ContractValue != nil {
		t.Fatalf("expected contract value cleared")
	}
	if !lead.LastContacted.Equal(fixedNow) {
		t.Fatalf("expected lastContacted refreshed")
	}
	if names := bus.names(); len(names) != 1 || names[0] != (events.LeadStatusChanged{}).EventName() {
		t.Fatalf("expected status change event, got %v", names)
	}
}

func TestNotFoundMapsToAppErr(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.GetByID(context.Background(), 42); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(context.Background(), 42); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if err := svc.Rescore(context.Background(), 42); err != nil {
		t.Fatalf("expected rescore of missing lead to be ignored, got %v", err)
	}
}

func TestUpdateStageRejectsUnknownStage(t *testing.T) {
	svc, _, _ := newTestService(repository.Lead{ID: 1, Name: "Ada"})
	_, err := svc.UpdateStage(context.Background(), 1, transport.UpdateStageRequest{Status: "Pending"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRescoreAllTouchesEveryLead(t *testing.T) {
	svc, _, scorer := newTestService(repository.Lead{ID: 1, Name: "Ada"}, repository.Lead{ID: 2, Name: "Grace"})

	n, err := svc.RescoreAll(context.Background())
	if err != nil {
		t.Fatalf("rescore all: %v", err)
	}
	if n != 2 || scorer.calls != 2 {
		t.Fatalf("expected 2 rescored leads, got n=%d calls=%d", n, scorer.calls)
	}
	lead, _ := svc.GetByID(context.Background(), 2)
	if lead.AIScore != 50 {
		t.Fatalf("expected stored score 50, got %d", lead.AIScore)
	}
}
