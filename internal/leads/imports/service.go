package imports

import (
	"context"
	"io"
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
)

// DefaultSource tags leads that arrived through an import.
const DefaultSource = "csv_import"

// Repository defines the data access interface needed by the import service.
type Repository interface {
	CreateMany(ctx context.Context, leads []repository.Lead) ([]repository.Lead, error)
}

// Scorer recomputes a lead's AI score in place.
type Scorer interface {
	Apply(ctx context.Context, lead *repository.Lead)
}

// PhoneNormalizer formats user-entered phone numbers.
type PhoneNormalizer interface {
	Normalize(input string) string
}

// Service previews and imports CSV uploads.
type Service struct {
	repo     Repository
	scorer   Scorer
	phones   PhoneNormalizer
	eventBus events.Bus
	log      *logger.Logger
	cfg      Config
	now      func() time.Time
}

// New creates a new import service.
func New(repo Repository, scorer Scorer, phones PhoneNormalizer, eventBus events.Bus, log *logger.Logger, cfg Config) *Service {
	return &Service{
		repo:     repo,
		scorer:   scorer,
		phones:   phones,
		eventBus: eventBus,
		log:      log,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Preview parses the upload and reports the mapping, sample rows and errors
// without importing anything.
func (s *Service) Preview(ctx context.Context, r io.Reader, mapping map[string]string) (transport.ImportPreviewResponse, error) {
	sheet, mapping, result, err := s.load(r, mapping)
	if err != nil {
		return transport.ImportPreviewResponse{}, err
	}

	rows := MapRows(sheet, mapping, s.cfg.PreviewRows)
	preview := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		preview = append(preview, row.Values)
	}

	return transport.ImportPreviewResponse{
		Headers:   sheet.Headers,
		Mapping:   mapping,
		Preview:   preview,
		TotalRows: len(sheet.Rows),
		Errors:    FormatErrors(result.Errors, s.cfg.ReportErrors),
		Valid:     result.Valid(),
	}, nil
}

// Import creates a lead per row. A file with any invalid row imports nothing.
func (s *Service) Import(ctx context.Context, r io.Reader, mapping map[string]string) (transport.ImportResultResponse, error) {
	_, _, result, err := s.load(r, mapping)
	if err != nil {
		return transport.ImportResultResponse{}, err
	}
	if !result.Valid() {
		return transport.ImportResultResponse{}, apperr.Validation("csv file has errors").
			WithDetails(FormatErrors(result.Errors, s.cfg.ReportErrors))
	}

	leads := s.BuildLeads(ctx, result.Rows)
	created, err := s.repo.CreateMany(ctx, leads)
	if err != nil {
		return transport.ImportResultResponse{}, err
	}

	for _, lead := range created {
		s.eventBus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Name:      lead.Name,
			Source:    lead.Source,
			Status:    lead.Status,
		})
	}
	s.eventBus.Publish(ctx, events.LeadsImported{BaseEvent: events.NewBaseEvent(), Count: len(created)})
	s.log.Info("leads imported", "count", len(created))

	return transport.ImportResultResponse{
		Imported: len(created),
		Leads:    transport.ToLeadResponses(created),
	}, nil
}

// BuildLeads converts validated rows into scored leads ready to store.
func (s *Service) BuildLeads(ctx context.Context, rows []Row) []repository.Lead {
	now := s.now()
	leads := make([]repository.Lead, 0, len(rows))
	for _, row := range rows {
		status, ok := domain.NormalizeStage(row.Values[FieldStatus])
		if !ok {
			status = domain.PipelineStageNewLeads
		}
		source := strings.TrimSpace(row.Values[FieldSource])
		if source == "" {
			source = DefaultSource
		}

		lead := repository.Lead{
			Name:           sanitize.Text(row.Values[FieldName]),
			Email:          strings.ToLower(row.Values[FieldEmail]),
			Phone:          s.phones.Normalize(row.Values[FieldPhone]),
			Company:        sanitize.Text(row.Values[FieldCompany]),
			Source:         source,
			Status:         status,
			DateAdded:      now,
			LastContacted:  now,
			ContactHistory: []repository.Activity{},
			Notes:          []repository.Note{},
		}
		if note := sanitize.Text(row.Values[FieldNotes]); note != "" {
			lead.Notes = append(lead.Notes, repository.Note{ID: uuid.NewString(), Content: note, Date: now})
		}
		s.scorer.Apply(ctx, &lead)
		leads = append(leads, lead)
	}
	return leads
}

func (s *Service) load(r io.Reader, mapping map[string]string) (*Sheet, map[string]string, Result, error) {
	sheet, err := Parse(r, s.cfg)
	if err != nil {
		return nil, nil, Result{}, apperr.Wrap(apperr.KindBadRequest, err.Error(), err)
	}

	resolved := AutoMap(sheet.Headers)
	for field, header := range mapping {
		if !isField(field) {
			continue
		}
		if header == "" {
			delete(resolved, field)
			continue
		}
		resolved[field] = header
	}

	return sheet, resolved, Validate(sheet, resolved), nil
}

func isField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
