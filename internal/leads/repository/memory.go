package repository

import (
	"context"
	"sync"

	"mlm_sales_backend/platform/store"
)

// Memory is the process-local lead store. Leads are kept newest first.
type Memory struct {
	mu      sync.RWMutex
	leads   []Lead
	latency store.Latency
}

// NewMemory creates a store seeded with the given leads.
func NewMemory(latency store.Latency, seed []Lead) *Memory {
	leads := make([]Lead, 0, len(seed))
	for _, l := range seed {
		leads = append(leads, l.Clone())
	}
	return &Memory{leads: leads, latency: latency}
}

func (m *Memory) GetByID(ctx context.Context, id int) (Lead, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return Lead{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return Lead{}, ErrNotFound
	}
	return m.leads[idx].Clone(), nil
}

func (m *Memory) List(ctx context.Context) ([]Lead, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Lead, len(m.leads))
	for i, l := range m.leads {
		out[i] = l.Clone()
	}
	return out, nil
}

// Create assigns the next id and stores the lead at the front of the list.
func (m *Memory) Create(ctx context.Context, lead Lead) (Lead, error) {
	created, err := m.CreateMany(ctx, []Lead{lead})
	if err != nil {
		return Lead{}, err
	}
	return created[0], nil
}

// CreateMany stores all leads under one lock so an import is all-or-nothing.
func (m *Memory) CreateMany(ctx context.Context, leads []Lead) ([]Lead, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	nextID := store.NextID(m.leads, func(l Lead) int { return l.ID })
	created := make([]Lead, len(leads))
	fresh := make([]Lead, len(leads))
	for i, l := range leads {
		l = l.Clone()
		l.ID = nextID + i
		created[i] = l.Clone()
		// last created ends up first
		fresh[len(leads)-1-i] = l
	}
	m.leads = append(fresh, m.leads...)
	return created, nil
}

func (m *Memory) Mutate(ctx context.Context, id int, fn func(*Lead) error) (Lead, error) {
	if err := m.latency.Wait(ctx); err != nil {
		return Lead{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return Lead{}, ErrNotFound
	}
	working := m.leads[idx].Clone()
	if err := fn(&working); err != nil {
		return Lead{}, err
	}
	working.ID = id
	m.leads[idx] = working
	return working.Clone(), nil
}

func (m *Memory) Delete(ctx context.Context, id int) error {
	if err := m.latency.Wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	m.leads = append(m.leads[:idx], m.leads[idx+1:]...)
	return nil
}

func (m *Memory) indexOf(id int) int {
	for i, l := range m.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

var _ LeadsRepository = (*Memory)(nil)
