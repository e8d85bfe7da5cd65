// Package activity records contact-history entries on leads and applies the
// pipeline progression that follows from their outcome.
package activity

import (
	"context"
	"errors"
	"time"

	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/leads/domain"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/sanitize"

	"github.com/google/uuid"
)

const maxDescriptionLength = 2000

// Repository defines the data access interface needed by the activity service.
type Repository interface {
	repository.LeadMutator
}

// Scorer recomputes a lead's AI score in place.
type Scorer interface {
	Apply(ctx context.Context, lead *repository.Lead)
}

// Service logs activities against leads.
type Service struct {
	repo     Repository
	scorer   Scorer
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new activity service.
func New(repo Repository, scorer Scorer, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		scorer:   scorer,
		eventBus: eventBus,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Add records an activity, moves the lead through the pipeline according to
// the outcome and rescores the lead.
func (s *Service) Add(ctx context.Context, leadID int, req transport.AddActivityRequest) (transport.ActivityResultResponse, error) {
	description := sanitize.Text(req.Description)
	if description == "" || len(description) > maxDescriptionLength {
		return transport.ActivityResultResponse{}, apperr.Validation("description must be between 1 and 2000 characters")
	}

	now := s.now()
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	entry := repository.Activity{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Action:      req.Action,
		Outcome:     req.Outcome,
		Description: description,
		Date:        date,
	}
	if req.Objection != nil {
		entry.Objection = &repository.Objection{
			Type:    req.Objection.Type,
			Details: sanitize.Text(req.Objection.Details),
		}
	}

	var transition domain.Transition
	var previous string
	lead, err := s.repo.Mutate(ctx, leadID, func(l *repository.Lead) error {
		previous = l.Status
		l.ContactHistory = append([]repository.Activity{entry}, l.ContactHistory...)

		transition = domain.ProgressStage(l.Status, entry.Type, entry.Action, entry.Outcome)
		l.Status = transition.Stage

		if date.After(l.LastContacted) {
			l.LastContacted = date
		}
		s.scorer.Apply(ctx, l)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ActivityResultResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ActivityResultResponse{}, err
	}

	s.eventBus.Publish(ctx, events.ActivityLogged{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		ActivityID:   entry.ID,
		ActivityType: entry.Type,
		Outcome:      entry.Outcome,
	})
	if transition.Changed {
		s.eventBus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			OldStatus: previous,
			NewStatus: lead.Status,
			Reason:    transition.Reason,
		})
	}

	return transport.ActivityResultResponse{
		Lead:          transport.ToLeadResponse(lead),
		Activity:      transport.ToActivityResponse(entry),
		StatusChanged: transition.Changed,
		PreviousStage: previous,
	}, nil
}

// Options lists the values the activity form offers.
func (s *Service) Options() transport.ActivityOptionsResponse {
	return transport.ActivityOptions
}
