package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("lead not found")

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id int) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, lead Lead) (Lead, error)
	CreateMany(ctx context.Context, leads []Lead) ([]Lead, error)
	Delete(ctx context.Context, id int) error
}

// LeadMutator applies a read-modify-write change to one lead atomically.
// If fn returns an error the stored lead is left untouched.
type LeadMutator interface {
	Mutate(ctx context.Context, id int, fn func(*Lead) error) (Lead, error)
}

// LeadsRepository is the composite of all lead store interfaces.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	LeadMutator
}
