// Package management handles lead CRUD operations.
// This is a vertically sliced feature package containing service logic
// for creating, reading, updating, and deleting leads.
package management

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/leads/domain"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/apperr"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.LeadMutator
}

// Scorer recomputes a lead's AI score in place.
type Scorer interface {
	Apply(ctx context.Context, lead *repository.Lead)
}

// PhoneNormalizer formats user-entered phone numbers.
type PhoneNormalizer interface {
	Normalize(input string) string
}

// Service handles lead management operations (CRUD).
type Service struct {
	repo     Repository
	scorer   Scorer
	phones   PhoneNormalizer
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new lead management service.
func New(repo Repository, scorer Scorer, phones PhoneNormalizer, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		scorer:   scorer,
		phones:   phones,
		eventBus: eventBus,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a new lead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	now := s.now()
	status := domain.PipelineStageNewLeads
	if req.Status != "" {
		stage, ok := domain.NormalizeStage(req.Status)
		if !ok {
			return transport.LeadResponse{}, apperr.Validation("invalid status")
		}
		status = stage
	}

	lead := repository.Lead{
		Name:           sanitize.Text(req.Name),
		Email:          normalizeEmail(req.Email),
		Phone:          s.phones.Normalize(req.Phone),
		Company:        sanitize.Text(req.Company),
		Source:         strings.TrimSpace(req.Source),
		Status:         status,
		DateAdded:      now,
		LastContacted:  now,
		ContactHistory: []repository.Activity{},
		Notes:          []repository.Note{},
		EstimatedValue: req.EstimatedValue,
		ContractValue:  req.ContractValue,
	}
	if lead.Name == "" {
		return transport.LeadResponse{}, apperr.Validation("name is required")
	}
	if content := sanitize.Text(req.Notes); content != "" {
		lead.Notes = append(lead.Notes, repository.Note{ID: uuid.NewString(), Content: content, Date: now})
	}
	s.scorer.Apply(ctx, &lead)

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    created.ID,
		Name:      created.Name,
		Source:    created.Source,
		Status:    created.Status,
	})

	return transport.ToLeadResponse(created), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id int) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}
	return transport.ToLeadResponse(lead), nil
}

// List returns leads best-scored first, optionally filtered.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	status := ""
	if req.Status != "" {
		stage, ok := domain.NormalizeStage(req.Status)
		if !ok {
			return transport.LeadListResponse{}, apperr.Validation("invalid status")
		}
		status = stage
	}

	filtered := make([]repository.Lead, 0, len(leads))
	for _, l := range leads {
		if status != "" && l.Status != status {
			continue
		}
		if !MatchesSearch(l, req.Search) {
			continue
		}
		filtered = append(filtered, l)
	}
	SortByScore(filtered)

	return transport.LeadListResponse{
		Items: transport.ToLeadResponses(filtered),
		Total: len(filtered),
	}, nil
}

// Update merges the provided fields into the lead and marks it contacted.
func (s *Service) Update(ctx context.Context, id int, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	var newStatus string
	if req.Status != nil {
		stage, ok := domain.NormalizeStage(*req.Status)
		if !ok {
			return transport.LeadResponse{}, apperr.Validation("invalid status")
		}
		newStatus = stage
	}

	var oldStatus string
	lead, err := s.repo.Mutate(ctx, id, func(l *repository.Lead) error {
		oldStatus = l.Status
		if req.Name != nil {
			name := sanitize.Text(*req.Name)
			if name == "" {
				return apperr.Validation("name is required")
			}
			l.Name = name
		}
		if req.Email != nil {
			l.Email = normalizeEmail(*req.Email)
		}
		if req.Phone != nil {
			l.Phone = s.phones.Normalize(*req.Phone)
		}
		if req.Company != nil {
			l.Company = sanitize.Text(*req.Company)
		}
		if req.Source != nil {
			l.Source = strings.TrimSpace(*req.Source)
		}
		if req.EstimatedValue != nil {
			l.EstimatedValue = *req.EstimatedValue
		}
		if req.ContractValue.Set {
			l.ContractValue = req.ContractValue.Value
		}
		if newStatus != "" {
			l.Status = newStatus
		}
		l.LastContacted = s.now()
		s.scorer.Apply(ctx, l)
		return nil
	})
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}

	s.publishStatusChange(ctx, lead.ID, oldStatus, lead.Status, "manual update")
	return transport.ToLeadResponse(lead), nil
}

// UpdateStage moves the lead to another pipeline stage.
func (s *Service) UpdateStage(ctx context.Context, id int, req transport.UpdateStageRequest) (transport.LeadResponse, error) {
	stage, ok := domain.NormalizeStage(req.Status)
	if !ok {
		return transport.LeadResponse{}, apperr.Validation("invalid status")
	}

	var oldStatus string
	lead, err := s.repo.Mutate(ctx, id, func(l *repository.Lead) error {
		oldStatus = l.Status
		l.Status = stage
		l.LastContacted = s.now()
		s.scorer.Apply(ctx, l)
		return nil
	})
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}

	s.publishStatusChange(ctx, lead.ID, oldStatus, lead.Status, "pipeline move")
	return transport.ToLeadResponse(lead), nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, id int) error {
	return mapNotFound(s.repo.Delete(ctx, id))
}

// Rescore recomputes the stored score, for example after an appointment
// for the lead changed. Missing leads are ignored.
func (s *Service) Rescore(ctx context.Context, id int) error {
	_, err := s.repo.Mutate(ctx, id, func(l *repository.Lead) error {
		s.scorer.Apply(ctx, l)
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// RescoreAll recomputes every stored score and returns how many leads it touched.
func (s *Service) RescoreAll(ctx context.Context) (int, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, l := range leads {
		if err := s.Rescore(ctx, l.ID); err != nil {
			return 0, err
		}
	}
	return len(leads), nil
}

// Stages lists the pipeline board columns.
func (s *Service) Stages() []transport.StageOption {
	out := make([]transport.StageOption, 0, len(domain.PipelineStages))
	for _, stage := range domain.PipelineStages {
		out = append(out, transport.StageOption{Value: stage, Closed: domain.IsClosed(stage)})
	}
	return out
}

func (s *Service) publishStatusChange(ctx context.Context, leadID int, oldStatus, newStatus, reason string) {
	if oldStatus == newStatus {
		return
	}
	s.eventBus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Reason:    reason,
	})
}

// MatchesSearch applies the lead table's quick filter: name, email and
// status match case-insensitively, phone matches as typed or on its digits.
func MatchesSearch(lead repository.Lead, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	folder := cases.Fold()
	q := folder.String(query)
	return strings.Contains(folder.String(lead.Name), q) ||
		strings.Contains(folder.String(lead.Email), q) ||
		strings.Contains(folder.String(lead.Status), q) ||
		strings.Contains(lead.Phone, query) ||
		matchesPhoneDigits(lead.Phone, query)
}

func matchesPhoneDigits(phone, query string) bool {
	q := digits(query)
	return q != "" && strings.Contains(digits(phone), q)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// SortByScore orders leads by AI score descending, then by id.
func SortByScore(leads []repository.Lead) {
	slices.SortStableFunc(leads, func(a, b repository.Lead) int {
		if a.AIScore != b.AIScore {
			return b.AIScore - a.AIScore
		}
		return a.ID - b.ID
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}
