package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	SalesCreated    prometheus.Counter
	SalesCancelled  prometheus.Counter
	SalesRejected   *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	ProductsCreated prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SalesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "sales_created_total",
			Help: "Total number of sales created",
		}),
		SalesCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "sales_cancelled_total",
			Help: "Total number of sales moved to cancelled",
		}),
		SalesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_rejected_total",
			Help: "Sale creation requests rejected, by failure code",
		}, []string{"code"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_events_published_total",
			Help: "Domain events handed to the publisher, by event name",
		}, []string{"event"}),
		ProductsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "products_created_total",
			Help: "Total number of catalog products created",
		}),
	}
}

func (m *Metrics) IncSalesCreated() {
	if m == nil {
		return
	}
	m.SalesCreated.Inc()
}

func (m *Metrics) IncSalesCancelled() {
	if m == nil {
		return
	}
	m.SalesCancelled.Inc()
}

func (m *Metrics) IncSalesRejected(code string) {
	if m == nil {
		return
	}
	m.SalesRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) IncEventsPublished(event string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(event).Inc()
}

func (m *Metrics) IncProductsCreated() {
	if m == nil {
		return
	}
	m.ProductsCreated.Inc()
}
