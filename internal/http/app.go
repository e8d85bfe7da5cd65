// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"mlm_sales_backend/internal/events"
	"mlm_sales_backend/platform/config"
	"mlm_sales_backend/platform/logger"
	"mlm_sales_backend/platform/validator"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and rate limit settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks. Nil means always healthy.
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Validator is shared by all module handlers.
	Validator *validator.Validator
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
