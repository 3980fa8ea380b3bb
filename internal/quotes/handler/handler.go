package handler

import (
	"riverhawk_quote_backend/internal/quotes/service"
	"riverhawk_quote_backend/internal/quotes/transport"
	"riverhawk_quote_backend/platform/httpkit"
	"riverhawk_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the quote pipeline.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the quote routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.Analyze)
	rg.POST("/generate", h.Generate)
	rg.POST("/email", h.Email)
}

// Analyze parses a raw purchase request and returns parsed items, catalog
// matches, and any clarifying questions.
func (h *Handler) Analyze(c *gin.Context) {
	var req transport.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// Generate builds a priced quote from confirmed SKU selections.
func (h *Handler) Generate(c *gin.Context) {
	var req transport.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// Email generates a quote and sends its summary to the recipient.
func (h *Handler) Email(c *gin.Context) {
	var req transport.EmailQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.EmailQuote(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}
