// Package service implements the message template library used by the
// lead outreach screens.
package service

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	leadrepo "mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/templates/repository"
	"mlm_sales_backend/internal/templates/transport"
	"mlm_sales_backend/platform/apperr"

	"golang.org/x/text/cases"
)

const (
	DefaultName     = "Untitled Template"
	DefaultCategory = "Initial Contact"
)

// LeadReader loads the lead a template is rendered for.
type LeadReader interface {
	GetByID(ctx context.Context, id int) (leadrepo.Lead, error)
}

type Service struct {
	repo  *repository.Repository
	leads LeadReader
	now   func() time.Time
}

func New(repo *repository.Repository, leads LeadReader) *Service {
	return &Service{repo: repo, leads: leads, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) GetAll(ctx context.Context) ([]transport.TemplateResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToTemplateResponses(items), nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (transport.TemplateResponse, error) {
	id, err := parseID(rawID)
	if err != nil {
		return transport.TemplateResponse{}, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TemplateResponse{}, mapError(err)
	}
	return transport.ToTemplateResponse(t), nil
}

func (s *Service) GetByCategory(ctx context.Context, category string) ([]transport.TemplateResponse, error) {
	return s.Search(ctx, transport.SearchTemplatesRequest{Category: category})
}

// Search filters by exact category, then by a case-insensitive match on
// name, content or any tag.
func (s *Service) Search(ctx context.Context, req transport.SearchTemplatesRequest) ([]transport.TemplateResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(req.Query))
	matches := func(text string) bool { return strings.Contains(folder.String(text), query) }

	out := make([]repository.Template, 0, len(items))
	for _, t := range items {
		if req.Category != "" && t.Category != req.Category {
			continue
		}
		if query != "" && !matches(t.Name) && !matches(t.Content) && !slices.ContainsFunc(t.Tags, matches) {
			continue
		}
		out = append(out, t)
	}
	return transport.ToTemplateResponses(out), nil
}

func (s *Service) Create(ctx context.Context, req transport.CreateTemplateRequest) (transport.TemplateResponse, error) {
	t := repository.Template{
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		Content:   req.Content,
		Tags:      cleanTags(req.Tags),
		IsDefault: false,
		CreatedAt: s.now(),
	}
	if t.Name == "" {
		t.Name = DefaultName
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return transport.TemplateResponse{}, err
	}
	return transport.ToTemplateResponse(created), nil
}

func (s *Service) Update(ctx context.Context, rawID string, req transport.UpdateTemplateRequest) (transport.TemplateResponse, error) {
	id, err := parseID(rawID)
	if err != nil {
		return transport.TemplateResponse{}, err
	}

	updated, err := s.repo.Mutate(ctx, id, func(t *repository.Template) error {
		if req.Name != nil {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			t.Category = strings.TrimSpace(*req.Category)
		}
		if req.Content != nil {
			t.Content = *req.Content
		}
		if req.Tags != nil {
			t.Tags = cleanTags(req.Tags)
		}
		now := s.now()
		t.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return transport.TemplateResponse{}, mapError(err)
	}
	return transport.ToTemplateResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return mapError(s.repo.Delete(ctx, id))
}

// Categories returns the distinct categories in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, t := range items {
		if !slices.Contains(out, t.Category) {
			out = append(out, t.Category)
		}
	}
	return out, nil
}

// Render personalises the template for a lead.
func (s *Service) Render(ctx context.Context, rawID string, leadID int) (transport.RenderedTemplateResponse, error) {
	id, err := parseID(rawID)
	if err != nil {
		return transport.RenderedTemplateResponse{}, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RenderedTemplateResponse{}, mapError(err)
	}
	lead, err := s.leads.GetByID(ctx, leadID)
	if errors.Is(err, leadrepo.ErrNotFound) {
		return transport.RenderedTemplateResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.RenderedTemplateResponse{}, err
	}

	return transport.RenderedTemplateResponse{
		TemplateID: t.ID,
		LeadID:     lead.ID,
		Content:    Personalize(t.Content, lead.Name),
	}, nil
}

// Personalize replaces the [Name] and [FirstName] placeholders.
func Personalize(content, name string) string {
	name = strings.TrimSpace(name)
	first := name
	if fields := strings.Fields(name); len(fields) > 0 {
		first = fields[0]
	}
	return strings.NewReplacer("[Name]", name, "[FirstName]", first).Replace(content)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.Validation("invalid template ID")
	}
	return id, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func mapError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("template not found")
	}
	return err
}
