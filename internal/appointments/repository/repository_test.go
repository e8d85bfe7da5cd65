package repository

import (
	"context"
	"testing"

	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/store"
)

func TestCreateNeverReusesDeletedIDs(t *testing.T) {
	repo := New(store.Latency{}, []Appointment{{ID: 1}, {ID: 4}})
	ctx := context.Background()

	created, err := repo.Create(ctx, Appointment{Title: "Demo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected id 5, got %d", created.ID)
	}
	if _, err := repo.Delete(ctx, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}

	again, err := repo.Create(ctx, Appointment{Title: "Follow-up"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if again.ID != 6 {
		t.Fatalf("expected id 6 after deleting 5, got %d", again.ID)
	}
	if _, err := repo.GetByID(ctx, 5); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected deleted appointment to stay gone, got %v", err)
	}
}

func TestEmptyRepositoryStartsAtOne(t *testing.T) {
	repo := New(store.Latency{}, nil)
	created, err := repo.Create(context.Background(), Appointment{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}
}
