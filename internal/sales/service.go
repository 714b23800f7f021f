package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"api_sales/internal/events"
	"api_sales/internal/platform/metrics"
	dErrors "api_sales/pkg/domain-errors"
)

// ProductCatalog answers the product questions the creation pipeline asks.
type ProductCatalog interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// GetPrice returns the current catalog price, invalid when unknown.
	GetPrice(ctx context.Context, id uuid.UUID) (decimal.NullDecimal, error)
}

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage   Storage
	catalog   ProductCatalog
	publisher events.Publisher
	logger    *zap.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewService creates a new Service.
func NewService(storage Storage, catalog ProductCatalog, publisher events.Publisher, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}

	s := &Service{
		storage:   storage,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("api_sales/internal/sales"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSale validates req against existing sales and the product catalog,
// builds the aggregate, persists it and publishes its events. The first
// failing check ends the pipeline.
func (s *Service) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleOutput, error) {
	ctx, span := s.tracer.Start(ctx, "sales.CreateSale",
		trace.WithAttributes(attribute.String("sale.number", req.SaleNumber)))
	defer span.End()

	out, err := s.createSale(ctx, req)
	if err != nil {
		code := dErrors.CodeOf(err)
		s.metrics.IncSalesRejected(string(code))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		return nil, err
	}
	span.SetAttributes(attribute.String("sale.id", out.ID.String()))
	return out, nil
}

func (s *Service) createSale(ctx context.Context, req CreateSaleRequest) (*SaleOutput, error) {
	if err := s.checkCreate(ctx, req); err != nil {
		s.logger.Warn("sale creation rejected",
			zap.String("sale_number", req.SaleNumber),
			zap.String("code", string(dErrors.CodeOf(err))),
			zap.Error(err),
		)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "create sale aborted")
	}

	sale, err := NewSale(req.SaleNumber, req.SaleDate, req.CustomerID, req.BranchID, req.itemInputs())
	if err != nil {
		return nil, err
	}

	if err := s.storage.Add(ctx, sale); err != nil {
		if errors.Is(err, ErrDuplicateSaleNumber) {
			// Another request won the race after our pre-check.
			return nil, duplicateSaleNumber(req.SaleNumber)
		}
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID().String()), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	if err := s.dispatch(ctx, sale); err != nil {
		return nil, err
	}

	out := NewSaleOutput(sale)
	s.metrics.IncSalesCreated()
	s.logger.Info("sale created",
		zap.String("sale_id", out.ID.String()),
		zap.String("sale_number", out.SaleNumber),
		zap.String("total_amount", out.TotalAmount.String()),
		zap.Int("items", len(out.Items)),
	)
	return &out, nil
}

// checkCreate runs the external-state checks in order: sale number
// uniqueness, then per item product existence and catalog price.
func (s *Service) checkCreate(ctx context.Context, req CreateSaleRequest) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "create sale aborted")
	}
	exists, err := s.storage.ExistsBySaleNumber(ctx, req.SaleNumber)
	if err != nil {
		return fmt.Errorf("failed to check sale number: %w", err)
	}
	if exists {
		return duplicateSaleNumber(req.SaleNumber)
	}

	for _, item := range req.Items {
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "create sale aborted")
		}
		// The price is looked up first but only consulted once existence is
		// confirmed, so a missing product always reports NotFound.
		price, err := s.catalog.GetPrice(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to get product price: %w", err)
		}
		found, err := s.catalog.Exists(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to check product: %w", err)
		}
		if !found {
			return dErrors.NotFound("Product", item.ProductID)
		}
		if !price.Valid || !price.Decimal.Equal(item.UnitPrice) {
			expected := "N/A"
			if price.Valid {
				expected = price.Decimal.String()
			}
			return dErrors.Newf(dErrors.CodeValidation,
				"product price mismatch for item %s: expected %s but got %s",
				item.ProductID, expected, item.UnitPrice.String())
		}
	}
	return nil
}

func duplicateSaleNumber(number string) error {
	return dErrors.Newf(dErrors.CodeValidation, "sale number already exists: %s", number)
}

// CancelSale cancels the sale identified by id. An already cancelled sale is
// reported as success without a write.
func (s *Service) CancelSale(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "sales.CancelSale",
		trace.WithAttributes(attribute.String("sale.id", id.String())))
	defer span.End()

	ok, err := s.cancelSale(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return false, err
	}
	return ok, nil
}

func (s *Service) cancelSale(ctx context.Context, id uuid.UUID) (bool, error) {
	sale, err := s.read(ctx, id)
	if err != nil {
		return false, err
	}
	if sale.Cancelled() {
		s.logger.Info("sale already cancelled", zap.String("sale_id", id.String()))
		return true, nil
	}

	sale.CancelSale()

	updated, err := s.storage.Save(ctx, sale)
	if err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", id.String()), zap.Error(err))
		return false, fmt.Errorf("failed to update sale: %w", err)
	}

	if !updated {
		// A concurrent cancellation was persisted first.
		sale.ClearEvents()
		s.logger.Info("sale already cancelled", zap.String("sale_id", id.String()))
		return true, nil
	}

	if err := s.dispatch(ctx, sale); err != nil {
		return false, err
	}

	s.metrics.IncSalesCancelled()
	s.logger.Info("sale cancelled", zap.String("sale_id", id.String()))
	return true, nil
}

// GetSale returns the projection of one sale.
func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*SaleOutput, error) {
	ctx, span := s.tracer.Start(ctx, "sales.GetSale")
	defer span.End()

	sale, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	out := NewSaleOutput(sale)
	return &out, nil
}

// ListSales returns every sale, newest sale date first.
func (s *Service) ListSales(ctx context.Context) ([]SaleOutput, error) {
	ctx, span := s.tracer.Start(ctx, "sales.ListSales")
	defer span.End()

	all, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	outs := make([]SaleOutput, 0, len(all))
	for _, sale := range all {
		outs = append(outs, NewSaleOutput(sale))
	}
	return outs, nil
}

func (s *Service) read(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.storage.Read(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, dErrors.NotFound("Sale", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sale: %w", err)
	}
	return sale, nil
}

// dispatch publishes the pending events of sale in order and clears them.
// It runs only after a successful persist.
func (s *Service) dispatch(ctx context.Context, sale *Sale) error {
	defer sale.ClearEvents()

	for _, ev := range sale.PendingEvents() {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event", ev.EventName()),
				zap.String("sale_id", sale.ID().String()),
				zap.Error(err),
			)
			return fmt.Errorf("failed to publish %s: %w", ev.EventName(), err)
		}
		s.metrics.IncEventsPublished(ev.EventName())
	}
	return nil
}
