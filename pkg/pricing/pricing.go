// Package pricing holds the order pricing rules shared by the cart client
// and the order service.
package pricing

import "github.com/shopspring/decimal"

const (
	// TaxRate is applied to the items subtotal.
	TaxRate = 0.10
	// FreeShippingThreshold: subtotals strictly above it ship for free.
	FreeShippingThreshold = 100.0
	// FlatShippingFee is charged at or below the threshold.
	FlatShippingFee = 10.0
)

// Breakdown is the priced summary of an order.
type Breakdown struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// Line is one priced quantity.
type Line struct {
	Price    float64
	Quantity int
}

// Subtotal sums price*quantity over lines without float drift.
func Subtotal(lines []Line) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	f, _ := sum.Float64()
	return f
}

// Quote prices an order whose items cost itemsPrice. Amounts are rounded to cents.
func Quote(itemsPrice float64) Breakdown {
	items := decimal.NewFromFloat(itemsPrice)
	tax := items.Mul(decimal.NewFromFloat(TaxRate))

	shipping := decimal.NewFromFloat(FlatShippingFee)
	if items.GreaterThan(decimal.NewFromFloat(FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	total := items.Add(tax).Add(shipping)

	return Breakdown{
		ItemsPrice:    cents(items),
		TaxPrice:      cents(tax),
		ShippingPrice: cents(shipping),
		TotalPrice:    cents(total),
	}
}

func cents(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Round rounds an amount to cents.
func Round(amount float64) float64 {
	return cents(decimal.NewFromFloat(amount))
}
