package promotion

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a promotion reduces the subtotal.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Promotion is one entry in the known-promotions catalog. A promotion is
// either percentage-based (Rate set, fraction in [0,1]) or fixed-amount
// (Amount set), never both.
type Promotion struct {
	Code        string          `json:"code"`
	Description string          `json:"description,omitempty"`
	Type        DiscountType    `json:"type"`
	Rate        decimal.Decimal `json:"rate,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty"`
	MinSubtotal decimal.Decimal `json:"min_subtotal,omitempty"`
	ExpiresAt   time.Time       `json:"expires_at,omitempty"` // zero value means no expiry
	Active      bool            `json:"-"`
}

// Discount returns the discount this promotion grants on the given subtotal,
// unrounded and unclamped. The pricing engine owns rounding and the
// zero-total floor.
func (p Promotion) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch p.Type {
	case DiscountPercentage:
		return subtotal.Mul(p.Rate)
	case DiscountFixedAmount:
		return p.Amount
	default:
		return decimal.Zero
	}
}
