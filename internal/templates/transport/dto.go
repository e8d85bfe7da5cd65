package transport

import (
	"time"

	"mlm_sales_backend/internal/templates/repository"
)

type CreateTemplateRequest struct {
	Name     string   `json:"name" validate:"max=200"`
	Category string   `json:"category" validate:"max=100"`
	Content  string   `json:"content" validate:"max=5000"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

type UpdateTemplateRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Content  *string  `json:"content,omitempty" validate:"omitempty,max=5000"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
}

type SearchTemplatesRequest struct {
	Query    string `form:"query" validate:"max=100"`
	Category string `form:"category" validate:"max=100"`
}

type RenderTemplateRequest struct {
	LeadID int `json:"leadId" validate:"required,min=1"`
}

type TemplateResponse struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	IsDefault bool       `json:"isDefault"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type RenderedTemplateResponse struct {
	TemplateID int    `json:"templateId"`
	LeadID     int    `json:"leadId"`
	Content    string `json:"content"`
}

func ToTemplateResponse(t repository.Template) TemplateResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Category:  t.Category,
		Content:   t.Content,
		Tags:      tags,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func ToTemplateResponses(items []repository.Template) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(items))
	for _, t := range items {
		out = append(out, ToTemplateResponse(t))
	}
	return out
}
