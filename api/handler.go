package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"api_sales/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /api/sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req sales.CreateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			writeError(ctx, h.logger, sales.NewValidationError(fieldErrs))
			return
		}
		badRequest(ctx, "invalid request payload")
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusCreated, "Sale created successfully", sale)
}

// handleListSales handles GET /api/sales.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	list, err := h.salesService.ListSales(ctx.Request.Context())
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusOK, "", list)
}

func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	sale, err := h.salesService.GetSale(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusOK, "", sale)
}

// handleCancelSale handles DELETE /api/sales/:id. Cancelling an already
// cancelled sale succeeds.
func (h *salesHandler) handleCancelSale(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	success, err := h.salesService.CancelSale(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusOK, "Sale cancelled successfully", gin.H{"success": success})
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
