package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncSalesCreated()
	m.IncSalesCreated()
	m.IncSalesCancelled()
	m.IncSalesRejected("validation_error")
	m.IncEventsPublished("SaleCreated")
	m.IncProductsCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SalesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesCancelled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesRejected.WithLabelValues("validation_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("SaleCreated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductsCreated))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSalesCreated()
		m.IncSalesCancelled()
		m.IncSalesRejected("x")
		m.IncEventsPublished("x")
		m.IncProductsCreated()
	})
}
