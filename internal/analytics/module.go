package analytics

import (
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/platform/logger"
)

type Module struct {
	handler *Handler
	Service *Service
}

func NewModule(leads LeadLister, appointments AppointmentLister, log *logger.Logger) *Module {
	svc := New(leads, appointments, log)
	return &Module{handler: NewHandler(svc), Service: svc}
}

func (m *Module) Name() string {
	return "analytics"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/analytics"))
}

var _ apphttp.Module = (*Module)(nil)
