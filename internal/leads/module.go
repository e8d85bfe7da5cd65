// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"
	"errors"

	"mlm_sales_backend/internal/events"
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/internal/leads/activity"
	"mlm_sales_backend/internal/leads/exports"
	"mlm_sales_backend/internal/leads/handler"
	"mlm_sales_backend/internal/leads/imports"
	"mlm_sales_backend/internal/leads/management"
	"mlm_sales_backend/internal/leads/notes"
	"mlm_sales_backend/internal/leads/ports"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/leads/scoring"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/phone"
	"mlm_sales_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
}

// Deps collects what the leads module needs from the composition root.
type Deps struct {
	Repo         repository.LeadsRepository
	Appointments ports.AppointmentStatsReader
	Phones       *phone.Normalizer
	EventBus     events.Bus
	Validator    *validator.Validator
	Logger       *logger.Logger
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(deps Deps) (*Module, error) {
	if err := transport.RegisterValidations(deps.Validator); err != nil {
		return nil, err
	}

	scorer := scoring.New(deps.Appointments, deps.Logger)

	// Create focused services (vertical slices)
	mgmtSvc := management.New(deps.Repo, scorer, deps.Phones, deps.EventBus, deps.Logger)
	activitySvc := activity.New(deps.Repo, scorer, deps.EventBus, deps.Logger)
	notesSvc := notes.New(deps.Repo, scorer)
	importSvc := imports.New(deps.Repo, scorer, deps.Phones, deps.EventBus, deps.Logger, imports.DefaultConfig())
	exportSvc := exports.New(deps.Repo)

	// Appointment changes move the appointment factor of the score.
	rescore := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		switch e := event.(type) {
		case events.AppointmentScheduled:
			return mgmtSvc.Rescore(ctx, e.LeadID)
		case events.AppointmentStatusChanged:
			return mgmtSvc.Rescore(ctx, e.LeadID)
		case events.AppointmentDeleted:
			return mgmtSvc.Rescore(ctx, e.LeadID)
		case events.AppointmentReassigned:
			return errors.Join(mgmtSvc.Rescore(ctx, e.OldLeadID), mgmtSvc.Rescore(ctx, e.NewLeadID))
		}
		return nil
	})
	deps.EventBus.Subscribe(events.AppointmentScheduled{}.EventName(), rescore)
	deps.EventBus.Subscribe(events.AppointmentStatusChanged{}.EventName(), rescore)
	deps.EventBus.Subscribe(events.AppointmentDeleted{}.EventName(), rescore)
	deps.EventBus.Subscribe(events.AppointmentReassigned{}.EventName(), rescore)

	// Create handlers
	notesHandler := handler.NewNotesHandler(notesSvc, deps.Validator)
	importsHandler := handler.NewImportsHandler(importSvc, exportSvc)
	h := handler.New(mgmtSvc, activitySvc, notesHandler, importsHandler, deps.Validator)

	return &Module{
		handler:    h,
		management: mgmtSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
