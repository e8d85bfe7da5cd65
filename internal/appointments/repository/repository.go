package repository

import (
	"context"
	"sync"

	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/store"
)

const appointmentNotFoundMsg = "appointment not found"

// Repository keeps appointments in insertion order. Ids only grow, so the id
// of a deleted appointment is never handed out again.
type Repository struct {
	mu           sync.RWMutex
	appointments []Appointment
	nextID       int
	latency      store.Latency
}

// New creates a repository seeded with the given appointments.
func New(latency store.Latency, seed []Appointment) *Repository {
	items := make([]Appointment, 0, len(seed))
	for _, a := range seed {
		items = append(items, a.clone())
	}
	return &Repository{
		appointments: items,
		nextID:       store.NextID(items, func(a Appointment) int { return a.ID }),
		latency:      latency,
	}
}

// List returns every appointment.
func (r *Repository) List(ctx context.Context) ([]Appointment, error) {
	return r.Filter(ctx, nil)
}

// Filter returns the appointments for which keep reports true. A nil keep
// returns everything.
func (r *Repository) Filter(ctx context.Context, keep func(Appointment) bool) ([]Appointment, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if keep == nil || keep(a) {
			out = append(out, a.clone())
		}
	}
	return out, nil
}

// GetByID returns a single appointment.
func (r *Repository) GetByID(ctx context.Context, id int) (Appointment, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Appointment{}, apperr.NotFound(appointmentNotFoundMsg)
	}
	return r.appointments[i].clone(), nil
}

// Create assigns the next id and appends the appointment.
func (r *Repository) Create(ctx context.Context, appt Appointment) (Appointment, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	appt.ID = r.nextID
	r.nextID++
	r.appointments = append(r.appointments, appt.clone())
	return appt.clone(), nil
}

// Mutate applies fn to a copy of the appointment and stores the copy only
// when fn succeeds.
func (r *Repository) Mutate(ctx context.Context, id int, fn func(*Appointment) error) (Appointment, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Appointment{}, apperr.NotFound(appointmentNotFoundMsg)
	}
	working := r.appointments[i].clone()
	if err := fn(&working); err != nil {
		return Appointment{}, err
	}
	working.ID = id
	r.appointments[i] = working
	return working.clone(), nil
}

// Delete removes the appointment and returns what was removed.
func (r *Repository) Delete(ctx context.Context, id int) (Appointment, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Appointment{}, apperr.NotFound(appointmentNotFoundMsg)
	}
	removed := r.appointments[i]
	r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
	return removed, nil
}

func (r *Repository) indexOf(id int) int {
	for i, a := range r.appointments {
		if a.ID == id {
			return i
		}
	}
	return -1
}
