package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ReviewWritten("created")
	m.ReviewWritten("created")
	m.ReviewWritten("deleted")
	m.ReviewConflict()
	m.OrderCreated(42.5)
	m.CartSaved()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReviewsWritten.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsWritten.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewWriteConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartsSaved))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReviewWritten("created")
		m.ReviewConflict()
		m.OrderCreated(1)
		m.CartSaved()
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
