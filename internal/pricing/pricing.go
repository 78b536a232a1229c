package pricing

import "github.com/shopspring/decimal"

// Config holds the pricing policy constants. TaxRate is a fraction of the
// subtotal; DeliveryFee is charged flat whenever the cart is non-empty.
type Config struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		TaxRate:     decimal.NewFromFloat(0.08),
		DeliveryFee: decimal.NewFromFloat(3.49),
	}
}

// Line is the pricing view of one cart line.
type Line struct {
	UnitPrice        decimal.Decimal
	OptionSurcharges []decimal.Decimal
	Quantity         int
}

// Total returns (unit price + option surcharges) * quantity, unrounded.
func (l Line) Total() decimal.Decimal {
	unit := l.UnitPrice
	for _, s := range l.OptionSurcharges {
		unit = unit.Add(s)
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Quote is a complete pricing breakdown. All amounts are rounded to two
// decimal places and Total is never negative.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Discounter yields a discount amount for a given subtotal. Implemented by
// promotion.Promotion; kept as a small interface so this package stays a leaf.
type Discounter interface {
	Discount(subtotal decimal.Decimal) decimal.Decimal
}

// Compute derives a quote from the given lines and optional promotion.
// It is a pure function: identical inputs always produce identical quotes.
// Rounding happens once here, at quote assembly, not per line, so
// intermediate rounding error cannot compound.
func Compute(cfg Config, lines []Line, promo Discounter) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}

	tax := subtotal.Mul(cfg.TaxRate)

	deliveryFee := decimal.Zero
	if len(lines) > 0 {
		deliveryFee = cfg.DeliveryFee
	}

	discount := decimal.Zero
	if promo != nil {
		discount = promo.Discount(subtotal)
	}

	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	deliveryFee = deliveryFee.Round(2)
	discount = discount.Round(2)

	// The discount may not push the total below zero.
	gross := subtotal.Add(tax).Add(deliveryFee)
	if discount.GreaterThan(gross) {
		discount = gross
	}

	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       gross.Sub(discount),
	}
}
