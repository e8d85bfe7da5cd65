// Package appointments provides the appointments domain module.
package appointments

import (
	"mlm_sales_backend/internal/appointments/handler"
	"mlm_sales_backend/internal/appointments/repository"
	"mlm_sales_backend/internal/appointments/service"
	"mlm_sales_backend/internal/events"
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/internal/scheduler"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/validator"
)

// Module represents the appointments domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// Deps collects what the appointments module needs from the composition root.
// Reminders may be nil when no Redis is configured.
type Deps struct {
	Repo             *repository.Repository
	EventBus         events.Bus
	Reminders        scheduler.ReminderScheduler
	DefaultReminders []int
	Validator        *validator.Validator
	Logger           *logger.Logger
}

// NewModule creates a new appointments module with all dependencies wired
func NewModule(deps Deps) *Module {
	svc := service.New(deps.Repo, deps.EventBus, deps.Reminders, deps.DefaultReminders, deps.Logger)
	h := handler.New(svc, deps.Validator)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes registers the module's routes under /api/v1/appointments
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appointments := ctx.V1.Group("/appointments")
	m.handler.RegisterRoutes(appointments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
