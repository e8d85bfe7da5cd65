package repository

import (
	"context"
	"errors"
	"testing"

	"mlm_sales_backend/platform/store"
)

func TestCreateAssignsMaxPlusOneAndPrepends(t *testing.T) {
	repo := NewMemory(store.Latency{}, []Lead{{ID: 4, Name: "Ada"}, {ID: 2, Name: "Ben"}})
	ctx := context.Background()

	created, err := repo.Create(ctx, Lead{Name: "Cleo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected id 5, got %d", created.ID)
	}

	all, _ := repo.List(ctx)
	if all[0].ID != 5 {
		t.Fatalf("expected new lead first, got %d", all[0].ID)
	}
}

func TestCreateManyKeepsInputOrderInResult(t *testing.T) {
	repo := NewMemory(store.Latency{}, nil)
	created, err := repo.CreateMany(context.Background(), []Lead{{Name: "a"}, {Name: "b"}})
	if err != nil {
		t.Fatalf("create many: %v", err)
	}
	if created[0].ID != 1 || created[1].ID != 2 {
		t.Fatalf("unexpected ids %d %d", created[0].ID, created[1].ID)
	}
	all, _ := repo.List(context.Background())
	if all[0].Name != "b" {
		t.Fatalf("expected last created first, got %q", all[0].Name)
	}
}

func TestMutateRollsBackOnError(t *testing.T) {
	repo := NewMemory(store.Latency{}, []Lead{{ID: 1, Name: "Ada"}})
	boom := errors.New("boom")

	_, err := repo.Mutate(context.Background(), 1, func(l *Lead) error {
		l.Name = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := repo.GetByID(context.Background(), 1)
	if got.Name != "Ada" {
		t.Fatalf("expected unchanged lead, got %q", got.Name)
	}
}

func TestReturnedLeadsAreCopies(t *testing.T) {
	repo := NewMemory(store.Latency{}, []Lead{{ID: 1, Notes: []Note{{ID: "n1", Content: "hi"}}}})
	got, _ := repo.GetByID(context.Background(), 1)
	got.Notes[0].Content = "mutated"

	again, _ := repo.GetByID(context.Background(), 1)
	if again.Notes[0].Content != "hi" {
		t.Fatalf("store was mutated through a returned copy")
	}
}

func TestDeleteMissing(t *testing.T) {
	repo := NewMemory(store.Latency{}, nil)
	if err := repo.Delete(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
