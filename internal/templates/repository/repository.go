package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"mlm_sales_backend/platform/store"
)

var ErrNotFound = errors.New("template not found")

// Template is a reusable outreach message. [Name] and [FirstName] in
// Content are filled in per lead.
type Template struct {
	ID        int        `yaml:"id"`
	Name      string     `yaml:"name"`
	Category  string     `yaml:"category"`
	Content   string     `yaml:"content"`
	Tags      []string   `yaml:"tags"`
	IsDefault bool       `yaml:"isDefault"`
	CreatedAt time.Time  `yaml:"createdAt"`
	UpdatedAt *time.Time `yaml:"updatedAt,omitempty"`
}

func (t Template) clone() Template {
	out := t
	out.Tags = slices.Clone(t.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		out.UpdatedAt = &u
	}
	return out
}

// Repository keeps templates in insertion order.
type Repository struct {
	mu        sync.RWMutex
	templates []Template
	latency   store.Latency
}

func New(latency store.Latency, seed []Template) *Repository {
	items := make([]Template, 0, len(seed))
	for _, t := range seed {
		items = append(items, t.clone())
	}
	return &Repository{templates: items, latency: latency}
}

func (r *Repository) List(ctx context.Context) ([]Template, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t.clone())
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (Template, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Template{}, ErrNotFound
	}
	return r.templates[i].clone(), nil
}

func (r *Repository) Create(ctx context.Context, t Template) (Template, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = store.NextID(r.templates, func(t Template) int { return t.ID })
	r.templates = append(r.templates, t.clone())
	return t.clone(), nil
}

// Mutate applies fn to a copy and stores it if fn succeeds. The id is kept.
func (r *Repository) Mutate(ctx context.Context, id int, fn func(*Template) error) (Template, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Template{}, ErrNotFound
	}
	working := r.templates[i].clone()
	if err := fn(&working); err != nil {
		return Template{}, err
	}
	working.ID = id
	r.templates[i] = working
	return working.clone(), nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	if err := r.latency.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.templates = append(r.templates[:i], r.templates[i+1:]...)
	return nil
}

func (r *Repository) indexOf(id int) int {
	for i, t := range r.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}
