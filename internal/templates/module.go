// Package templates provides the message template library module.
package templates

import (
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/internal/templates/handler"
	"mlm_sales_backend/internal/templates/repository"
	"mlm_sales_backend/internal/templates/service"
	"mlm_sales_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	Service *service.Service
}

func NewModule(repo *repository.Repository, leads service.LeadReader, val *validator.Validator) *Module {
	svc := service.New(repo, leads)
	return &Module{handler: handler.New(svc, val), Service: svc}
}

func (m *Module) Name() string {
	return "templates"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/templates"))
}

var _ apphttp.Module = (*Module)(nil)
