// Package notes handles lead note operations.
// This is a vertically sliced feature package containing service logic
// for adding, editing and removing notes on leads.
package notes

import (
	"context"
	"errors"
	"time"

	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/sanitize"

	"github.com/google/uuid"
)

const maxNoteLength = 5000

var errNoteNotFound = apperr.NotFound("note not found")

// Repository defines the data access interface needed by the notes service.
// This is a consumer-driven interface - only what notes needs.
type Repository interface {
	repository.LeadReader
	repository.LeadMutator
}

// Scorer recomputes a lead's AI score in place.
type Scorer interface {
	Apply(ctx context.Context, lead *repository.Lead)
}

// Service handles lead note operations.
type Service struct {
	repo   Repository
	scorer Scorer
	now    func() time.Time
}

// New creates a new notes service.
func New(repo Repository, scorer Scorer) *Service {
	return &Service{repo: repo, scorer: scorer, now: func() time.Time { return time.Now().UTC() }}
}

// Add adds a new note to a lead. Newest notes come first.
func (s *Service) Add(ctx context.Context, leadID int, req transport.CreateNoteRequest) (transport.NoteResponse, error) {
	content, err := validContent(req.Content)
	if err != nil {
		return transport.NoteResponse{}, err
	}

	note := repository.Note{ID: uuid.NewString(), Content: content, Date: s.now()}
	_, err = s.repo.Mutate(ctx, leadID, func(l *repository.Lead) error {
		l.Notes = append([]repository.Note{note}, l.Notes...)
		s.scorer.Apply(ctx, l)
		return nil
	})
	if err != nil {
		return transport.NoteResponse{}, mapError(err)
	}
	return transport.ToNoteResponse(note), nil
}

// List returns a lead's notes.
func (s *Service) List(ctx context.Context, leadID int) ([]transport.NoteResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]transport.NoteResponse, 0, len(lead.Notes))
	for _, n := range lead.Notes {
		out = append(out, transport.ToNoteResponse(n))
	}
	return out, nil
}

// Update replaces the content of a note.
func (s *Service) Update(ctx context.Context, leadID int, noteID string, req transport.UpdateNoteRequest) (transport.NoteResponse, error) {
	content, err := validContent(req.Content)
	if err != nil {
		return transport.NoteResponse{}, err
	}

	var updated repository.Note
	_, err = s.repo.Mutate(ctx, leadID, func(l *repository.Lead) error {
		for i := range l.Notes {
			if l.Notes[i].ID != noteID {
				continue
			}
			now := s.now()
			l.Notes[i].Content = content
			l.Notes[i].UpdatedAt = &now
			updated = l.Notes[i]
			s.scorer.Apply(ctx, l)
			return nil
		}
		return errNoteNotFound
	})
	if err != nil {
		return transport.NoteResponse{}, mapError(err)
	}
	return transport.ToNoteResponse(updated), nil
}

// Delete removes a note from a lead.
func (s *Service) Delete(ctx context.Context, leadID int, noteID string) error {
	_, err := s.repo.Mutate(ctx, leadID, func(l *repository.Lead) error {
		for i := range l.Notes {
			if l.Notes[i].ID == noteID {
				l.Notes = append(l.Notes[:i], l.Notes[i+1:]...)
				s.scorer.Apply(ctx, l)
				return nil
			}
		}
		return errNoteNotFound
	})
	return mapError(err)
}

func validContent(raw string) (string, error) {
	content := sanitize.Text(raw)
	if content == "" || len(content) > maxNoteLength {
		return "", apperr.Validation("note content must be between 1 and 5000 characters")
	}
	return content, nil
}

func mapError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}
