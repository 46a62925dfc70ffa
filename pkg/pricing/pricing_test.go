package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_BelowThresholdPaysShipping(t *testing.T) {
	b := Quote(50)

	assert.Equal(t, 50.0, b.ItemsPrice)
	assert.Equal(t, 5.0, b.TaxPrice)
	assert.Equal(t, FlatShippingFee, b.ShippingPrice)
	assert.Equal(t, 65.0, b.TotalPrice)
}

func TestQuote_ThresholdIsExclusive(t *testing.T) {
	b := Quote(100)

	assert.Equal(t, 10.0, b.ShippingPrice)
	assert.Equal(t, 120.0, b.TotalPrice)
}

func TestQuote_AboveThresholdShipsFree(t *testing.T) {
	b := Quote(200)

	assert.Equal(t, 20.0, b.TaxPrice)
	assert.Equal(t, 0.0, b.ShippingPrice)
	assert.Equal(t, 220.0, b.TotalPrice)
}

func TestQuote_RoundsToCents(t *testing.T) {
	b := Quote(19.99)

	assert.Equal(t, 2.0, b.TaxPrice)
	assert.Equal(t, 31.99, b.TotalPrice)
}

func TestQuote_EmptyOrder(t *testing.T) {
	b := Quote(0)

	assert.Equal(t, 0.0, b.TaxPrice)
	assert.Equal(t, 10.0, b.TotalPrice)
}

func TestSubtotal(t *testing.T) {
	lines := []Line{{Price: 0.1, Quantity: 1}, {Price: 0.2, Quantity: 1}}
	assert.Equal(t, 0.3, Subtotal(lines))

	assert.Equal(t, 0.0, Subtotal(nil))
	assert.Equal(t, 75.5, Subtotal([]Line{{Price: 25.25, Quantity: 2}, {Price: 25, Quantity: 1}}))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3, Round(0.1+0.2))
	assert.Equal(t, 10.13, Round(10.125))
}
