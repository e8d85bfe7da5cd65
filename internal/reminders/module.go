package reminders

import (
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/validator"
)

type Module struct {
	handler *Handler
	Service *Service
}

func NewModule(leads LeadReader, appointments AppointmentLister, val *validator.Validator, log *logger.Logger) *Module {
	svc := New(leads, appointments, log)
	return &Module{handler: NewHandler(svc, val), Service: svc}
}

func (m *Module) Name() string {
	return "reminders"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/reminders"))
}

var _ apphttp.Module = (*Module)(nil)
