package handler

import (
	"riverhawk_quote_backend/internal/catalog/service"
	"riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/platform/httpkit"
	"riverhawk_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:sku", h.GetProduct)
	rg.GET("/search", h.Search)
}

// ListProducts returns the full catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	httpkit.OK(c, h.svc.ListProducts())
}

// GetProduct returns a single product by SKU.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Param("sku"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, product)
}

// Search runs keyword search against the catalog.
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, 400, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, msgValidationFailed, err.Error())
		return
	}

	matches := h.svc.Search(req.Query, req.Hint)
	httpkit.OK(c, transport.SearchResponse{Matches: matches})
}
