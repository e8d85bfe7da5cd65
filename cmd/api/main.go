package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mlm_sales_backend/internal/adapters"
	"mlm_sales_backend/internal/analytics"
	"mlm_sales_backend/internal/appointments"
	apptrepo "mlm_sales_backend/internal/appointments/repository"
	"mlm_sales_backend/internal/digest"
	"mlm_sales_backend/internal/email"
	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/internal/fixtures"
	apphttp "mlm_sales_backend/internal/http"
	"mlm_sales_backend/internal/http/router"
	"mlm_sales_backend/internal/leads"
	leadrepo "mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/internal/notification"
	"mlm_sales_backend/internal/reminders"
	"mlm_sales_backend/internal/scheduler"
	"mlm_sales_backend/internal/templates"
	templaterepo "mlm_sales_backend/internal/templates/repository"
	"mlm_sales_backend/platform/config"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/phone"
	"mlm_sales_backend/platform/store"
	"mlm_sales_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg)
	val := validator.New()
	latency := store.NewLatency(cfg)

	seedTemplates, err := fixtures.Templates()
	if err != nil {
		log.Error("failed to load template fixtures", "error", err)
		panic("failed to load template fixtures: " + err.Error())
	}

	var (
		seedLeads []leadrepo.Lead
		seedAppts []apptrepo.Appointment
	)
	if cfg.GetSeedDemoData() {
		seedLeads, seedAppts = fixtures.Demo(fixtures.DemoConfig{
			Count:     cfg.GetDemoLeadCount(),
			Seed:      cfg.GetDemoSeed(),
			Now:       time.Now(),
			Reminders: cfg.GetAppointmentReminderOffsets(),
		})
		log.Info("demo data generated", "leads", len(seedLeads), "appointments", len(seedAppts))
	}

	leadStore := leadrepo.NewMemory(latency, seedLeads)
	appointmentStore := apptrepo.New(latency, seedAppts)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	appointmentsModule := appointments.NewModule(appointments.Deps{
		Repo:             appointmentStore,
		EventBus:         eventBus,
		Reminders:        reminderScheduler,
		DefaultReminders: cfg.GetAppointmentReminderOffsets(),
		Validator:        val,
		Logger:           log,
	})

	leadsModule, err := leads.NewModule(leads.Deps{
		Repo:         leadStore,
		Appointments: adapters.NewAppointmentsAdapter(appointmentsModule.Service),
		Phones:       phone.NewNormalizer(cfg.GetPhoneDefaultRegion()),
		EventBus:     eventBus,
		Validator:    val,
		Logger:       log,
	})
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}
	if n, err := leadsModule.ManagementService().RescoreAll(ctx); err != nil {
		log.Warn("initial lead scoring failed", "error", err)
	} else {
		log.Info("leads scored", "count", n)
	}

	templatesModule := templates.NewModule(templaterepo.New(latency, seedTemplates), leadStore, val)
	remindersModule := reminders.NewModule(leadStore, appointmentsModule.Service, val, log)
	analyticsModule := analytics.NewModule(leadStore, appointmentsModule.Service, log)

	if cfg.GetRedisURL() != "" {
		worker, err := scheduler.NewWorker(cfg, appointmentsModule.Service, leadStore, eventBus, log)
		if err != nil {
			log.Error("failed to initialize reminder worker", "error", err)
		} else {
			go worker.Run(ctx)
			log.Info("reminder worker started", "queue", cfg.GetAsynqQueue())
		}
	}

	if cfg.IsDigestEnabled() {
		job, err := digest.New(cfg, remindersModule.Service, sender, log)
		if err != nil {
			log.Error("failed to initialize follow-up digest", "error", err)
			panic("failed to initialize follow-up digest: " + err.Error())
		}
		if err := job.Start(ctx); err != nil {
			log.Error("failed to schedule follow-up digest", "error", err)
		}
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:    cfg,
		Logger:    log,
		EventBus:  eventBus,
		Validator: val,
		Modules: []apphttp.Module{
			leadsModule,
			appointmentsModule,
			templatesModule,
			remindersModule,
			analyticsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}
