package fixtures

import (
	"testing"
	"time"

	appttransport "mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/leads/domain"
)

func TestEmbeddedTemplatesParse(t *testing.T) {
	items, err := Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	if len(items) != 8 {
		t.Fatalf("expected 8 templates, got %d", len(items))
	}
	first := items[0]
	if first.ID != 1 || first.Category != "Initial Contact" || !first.IsDefault || len(first.Tags) != 2 {
		t.Fatalf("unexpected first template %+v", first)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be decoded")
	}
}

func TestParseTemplatesRejectsBadIDs(t *testing.T) {
	cases := map[string]string{
		"missing id": "- name: A\n",
		"duplicate":  "- id: 1\n  name: A\n- id: 1\n  name: B\n",
		"not a list": "name: A\n",
	}
	for name, raw := range cases {
		if _, err := ParseTemplates([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDemoIsDeterministic(t *testing.T) {
	cfg := DemoConfig{Count: 30, Seed: 7, Now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), Reminders: []int{60}}

	leadsA, apptsA := Demo(cfg)
	leadsB, apptsB := Demo(cfg)
	if len(leadsA) != 30 || len(leadsA) != len(leadsB) || len(apptsA) != len(apptsB) {
		t.Fatalf("expected identical sizes, got %d/%d leads %d/%d appointments", len(leadsA), len(leadsB), len(apptsA), len(apptsB))
	}
	for i := range leadsA {
		if leadsA[i].Name != leadsB[i].Name || leadsA[i].Status != leadsB[i].Status || !leadsA[i].DateAdded.Equal(leadsB[i].DateAdded) {
			t.Fatalf("lead %d differs between runs", i)
		}
	}
}

func TestDemoDataIsConsistent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	leads, appts := Demo(DemoConfig{Count: 50, Seed: 42, Now: now})

	byID := make(map[int]string, len(leads))
	for i, l := range leads {
		if l.ID != i+1 {
			t.Fatalf("expected sequential ids, got %d at %d", l.ID, i)
		}
		if !domain.IsKnownPipelineStage(l.Status) {
			t.Fatalf("unknown stage %q", l.Status)
		}
		if l.DateAdded.After(now) || l.LastContacted.Before(l.DateAdded) {
			t.Fatalf("lead %d has inconsistent dates", l.ID)
		}
		if (l.Status == domain.PipelineStageClosedWon) != (l.ContractValue != nil) {
			t.Fatalf("lead %d: contract value must be set exactly for won leads", l.ID)
		}
		for j := 1; j < len(l.ContactHistory); j++ {
			if l.ContactHistory[j].Date.After(l.ContactHistory[j-1].Date) {
				t.Fatalf("lead %d: history not newest first", l.ID)
			}
		}
		byID[l.ID] = l.Status
	}

	for _, a := range appts {
		status, ok := byID[a.LeadID]
		if !ok || status == domain.PipelineStageClosedLost {
			t.Fatalf("appointment %d points at lead %d (%q)", a.ID, a.LeadID, status)
		}
		if a.ScheduledAt.After(now) && !appttransport.IsActive(a.Status) {
			t.Fatalf("future appointment %d has status %q", a.ID, a.Status)
		}
		if a.Status == appttransport.StatusCompleted && a.CompletedAt == nil {
			t.Fatalf("completed appointment %d without completion time", a.ID)
		}
	}
}
