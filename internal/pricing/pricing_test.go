package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/ordering/internal/pricing"
	"github.com/quickbite/ordering/internal/promotion"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got), "want %s, got %s", want, got)
}

func burgerLines() []pricing.Line {
	return []pricing.Line{
		{UnitPrice: decimal.NewFromFloat(8.99), Quantity: 2},
	}
}

func TestCompute_EmptyCart(t *testing.T) {
	q := pricing.Compute(pricing.DefaultConfig(), nil, nil)

	assertDecimal(t, "0", q.Subtotal)
	assertDecimal(t, "0", q.Tax)
	assertDecimal(t, "0", q.DeliveryFee) // no delivery fee on an empty cart
	assertDecimal(t, "0", q.Discount)
	assertDecimal(t, "0", q.Total)
}

func TestCompute_NoPromotion(t *testing.T) {
	q := pricing.Compute(pricing.DefaultConfig(), burgerLines(), nil)

	assertDecimal(t, "17.98", q.Subtotal)
	assertDecimal(t, "1.44", q.Tax) // 17.98 * 0.08 = 1.4384, rounded half-up
	assertDecimal(t, "3.49", q.DeliveryFee)
	assertDecimal(t, "0", q.Discount)
	assertDecimal(t, "22.91", q.Total)
}

func TestCompute_PercentagePromotion(t *testing.T) {
	promo := promotion.Promotion{
		Code: "SAVE10",
		Type: promotion.DiscountPercentage,
		Rate: decimal.NewFromFloat(0.10),
	}

	q := pricing.Compute(pricing.DefaultConfig(), burgerLines(), promo)

	assertDecimal(t, "17.98", q.Subtotal)
	assertDecimal(t, "1.80", q.Discount) // 1.798 rounded at quote assembly
	assertDecimal(t, "21.11", q.Total)   // 17.98 + 1.44 + 3.49 - 1.80
}

func TestCompute_FixedAmountPromotion(t *testing.T) {
	promo := promotion.Promotion{
		Code:   "FIVEOFF",
		Type:   promotion.DiscountFixedAmount,
		Amount: decimal.NewFromInt(5),
	}
	lines := []pricing.Line{
		{UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	}

	q := pricing.Compute(pricing.DefaultConfig(), lines, promo)

	assertDecimal(t, "10", q.Subtotal)
	assertDecimal(t, "5", q.Discount)
	assertDecimal(t, "9.29", q.Total) // 10 + 0.80 + 3.49 - 5
}

func TestCompute_DiscountClampedAtZeroTotal(t *testing.T) {
	promo := promotion.Promotion{
		Code:   "BIG",
		Type:   promotion.DiscountFixedAmount,
		Amount: decimal.NewFromInt(100),
	}
	lines := []pricing.Line{
		{UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	}

	q := pricing.Compute(pricing.DefaultConfig(), lines, promo)

	assertDecimal(t, "14.29", q.Discount) // clamped to subtotal + tax + fee
	assertDecimal(t, "0", q.Total)
	assert.False(t, q.Total.IsNegative())
}

func TestCompute_OptionSurcharges(t *testing.T) {
	lines := []pricing.Line{
		{
			UnitPrice: decimal.NewFromInt(5),
			OptionSurcharges: []decimal.Decimal{
				decimal.NewFromFloat(0.50),
				decimal.NewFromFloat(0.50),
			},
			Quantity: 3,
		},
	}

	q := pricing.Compute(pricing.DefaultConfig(), lines, nil)

	assertDecimal(t, "18", q.Subtotal) // (5 + 0.50 + 0.50) * 3
}

func TestCompute_RoundsHalfUp(t *testing.T) {
	// 5.3125 * 0.08 = 0.425 exactly; half-up gives 0.43.
	lines := []pricing.Line{
		{UnitPrice: decimal.NewFromFloat(5.3125), Quantity: 1},
	}

	q := pricing.Compute(pricing.DefaultConfig(), lines, nil)

	assertDecimal(t, "0.43", q.Tax)
}

func TestCompute_Deterministic(t *testing.T) {
	promo := promotion.Promotion{
		Code: "SAVE10",
		Type: promotion.DiscountPercentage,
		Rate: decimal.NewFromFloat(0.10),
	}

	first := pricing.Compute(pricing.DefaultConfig(), burgerLines(), promo)
	for i := 0; i < 10; i++ {
		again := pricing.Compute(pricing.DefaultConfig(), burgerLines(), promo)
		assert.Equal(t, first, again)
	}
}
