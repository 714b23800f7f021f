package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"api_sales/internal/events"
	"api_sales/internal/platform/metrics"
	dErrors "api_sales/pkg/domain-errors"
)

// CreateProductRequest is the input of CreateProduct.
type CreateProductRequest struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// Service manages the product catalog.
type Service struct {
	storage   Storage
	publisher events.Publisher
	logger    *zap.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// NewService creates a product Service. m may be nil.
func NewService(storage Storage, publisher events.Publisher, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	return &Service{
		storage:   storage,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("api_sales/internal/products"),
	}
}

// CreateProduct stores a new product and publishes ProductCreated.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	ctx, span := s.tracer.Start(ctx, "products.CreateProduct")
	defer span.End()

	p, err := NewProduct(uuid.Nil, req.Title, req.Price, req.Description, req.Category)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Add(ctx, p); err != nil {
		s.logger.Error("failed to save product", zap.String("product_id", p.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	ev := ProductCreated{ProductID: p.ID, Title: p.Title, Price: p.Price, CreatedAt: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", ev.EventName(), err)
	}

	s.metrics.IncProductsCreated()
	s.metrics.IncEventsPublished(ev.EventName())
	s.logger.Info("product created", zap.String("product_id", p.ID.String()), zap.String("price", p.Price.String()))
	return p, nil
}

// ListProducts returns the whole catalog.
func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	all, err := s.storage.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return all, nil
}

// GetProduct returns one product or a NotFound error.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.storage.Read(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, dErrors.NotFound("Product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return p, nil
}

// UpdateProductPrice changes the catalog price of a product.
func (s *Service) UpdateProductPrice(ctx context.Context, id uuid.UUID, newPrice decimal.Decimal) (*Product, error) {
	ctx, span := s.tracer.Start(ctx, "products.UpdateProductPrice")
	defer span.End()

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	old := p.Price
	if err := p.UpdatePrice(newPrice); err != nil {
		return nil, err
	}
	if err := s.storage.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.logger.Info("product price updated",
		zap.String("product_id", id.String()),
		zap.String("old_price", old.String()),
		zap.String("new_price", newPrice.String()),
	)
	return p, nil
}
