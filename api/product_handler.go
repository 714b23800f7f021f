package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_sales/internal/products"
)

// productHandler holds the product service and implements HTTP handlers for catalog operations.
type productHandler struct {
	productService *products.Service
	logger         *zap.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService *products.Service, logger *zap.Logger) *productHandler {
	return &productHandler{productService: productService, logger: logger}
}

func (h *productHandler) handleCreateProduct(ctx *gin.Context) {
	var req products.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		badRequest(ctx, "invalid request payload")
		return
	}
	p, err := h.productService.CreateProduct(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusCreated, "Product created successfully", p)
}

func (h *productHandler) handleListProducts(ctx *gin.Context) {
	list, err := h.productService.ListProducts(ctx.Request.Context())
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusOK, "", list)
}

func (h *productHandler) handleGetProduct(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	p, err := h.productService.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusOK, "", p)
}

func (h *productHandler) handleUpdatePrice(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		badRequest(ctx, "invalid request payload")
		return
	}
	p, err := h.productService.UpdateProductPrice(ctx.Request.Context(), id, req.Price)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeSuccess(ctx, http.StatusOK, "Product price updated successfully", p)
}
