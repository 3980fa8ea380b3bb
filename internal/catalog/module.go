// Package catalog provides the product catalog domain module: the immutable
// in-memory index plus keyword search over it.
package catalog

import (
	"riverhawk_quote_backend/internal/catalog/handler"
	"riverhawk_quote_backend/internal/catalog/repository"
	"riverhawk_quote_backend/internal/catalog/service"
	apphttp "riverhawk_quote_backend/internal/http"
	"riverhawk_quote_backend/platform/logger"
	"riverhawk_quote_backend/platform/validator"
)

// Module represents the catalog domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates a new catalog module over an already-loaded index.
func NewModule(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for cross-module use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the catalog index for cross-module use.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// ProductCount reports the index size for health checks.
func (m *Module) ProductCount() int {
	return m.repo.Len()
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/catalog"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
