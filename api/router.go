package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"api_sales/internal/products"
	"api_sales/internal/sales"
)

// Dependencies are the services the HTTP layer serves.
type Dependencies struct {
	Sales    *sales.Service
	Products *products.Service
	Logger   *zap.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

var registerValidators sync.Once

// InitRoutes registers the sales, product and health endpoints on the given
// Gin engine.
func InitRoutes(e *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	registerValidators.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := sales.RegisterValidators(v); err != nil {
			logger.Error("failed to register request validators", zap.Error(err))
		}
	})

	salesHandler := NewSalesHandler(deps.Sales, logger)
	productHandler := NewProductHandler(deps.Products, logger)

	apiGroup := e.Group("/api")
	{
		apiGroup.GET("/sales", salesHandler.handleListSales)
		apiGroup.POST("/sales", salesHandler.handleCreateSale)
		apiGroup.GET("/sales/:id", salesHandler.handleGetSale)
		apiGroup.DELETE("/sales/:id", salesHandler.handleCancelSale)

		apiGroup.GET("/products", productHandler.handleListProducts)
		apiGroup.POST("/products", productHandler.handleCreateProduct)
		apiGroup.GET("/products/:id", productHandler.handleGetProduct)
		apiGroup.PATCH("/products/:id/price", productHandler.handleUpdatePrice)
	}

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	if deps.Gatherer != nil {
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
}
