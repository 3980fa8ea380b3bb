// Package quotes provides the quote pipeline domain module: request parsing,
// pricing, quote assembly, clarification, and email delivery.
package quotes

import (
	"time"

	"riverhawk_quote_backend/internal/events"
	apphttp "riverhawk_quote_backend/internal/http"
	"riverhawk_quote_backend/internal/quotes/handler"
	"riverhawk_quote_backend/internal/quotes/ports"
	"riverhawk_quote_backend/internal/quotes/service"
	"riverhawk_quote_backend/platform/logger"
	"riverhawk_quote_backend/platform/validator"
)

// Module represents the quotes domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module. The advisor may be nil when no LLM
// is configured; clarifying questions then use the deterministic template.
func NewModule(
	catalog ports.ProductReader,
	matcher ports.Matcher,
	advisor ports.QuestionAdvisor,
	advisorTimeout time.Duration,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(catalog, matcher, advisor, advisorTimeout, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for cross-module use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetEventBus wires the domain event bus.
func (m *Module) SetEventBus(bus events.Bus) {
	m.service.SetEventBus(bus)
}

// SetMailer wires the quote summary mailer.
func (m *Module) SetMailer(mailer ports.SummaryMailer) {
	m.service.SetMailer(mailer)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
