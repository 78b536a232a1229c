package promotion

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reason explains why a promo code was rejected, so callers can render a
// specific message instead of a generic failure.
type Reason string

const (
	ReasonNotFound         Reason = "NOT_FOUND"
	ReasonExpired          Reason = "EXPIRED"
	ReasonMinSubtotalUnmet Reason = "MIN_SUBTOTAL_UNMET"
)

// InvalidError is returned for any promo code that cannot be applied.
type InvalidError struct {
	Code   string
	Reason Reason
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("promotion %q is invalid: %s", e.Code, e.Reason)
}

// Validator checks promo codes against the known-promotions catalog.
// It is stateless apart from the catalog and safe for concurrent use.
type Validator struct {
	catalog map[string]Promotion // keyed by canonical (upper-case) code
	now     func() time.Time
}

func NewValidator(promos []Promotion) *Validator {
	catalog := make(map[string]Promotion, len(promos))
	for _, p := range promos {
		catalog[canonicalCode(p.Code)] = p
	}
	return &Validator{catalog: catalog, now: time.Now}
}

// Validate matches code against the catalog (case-insensitive, exact) and
// checks expiry and the minimum-subtotal precondition against the given
// subtotal. On failure it returns an *InvalidError carrying the reason.
func (v *Validator) Validate(code string, subtotal decimal.Decimal) (Promotion, error) {
	promo, ok := v.catalog[canonicalCode(code)]
	if !ok || !promo.Active {
		return Promotion{}, &InvalidError{Code: code, Reason: ReasonNotFound}
	}

	if !promo.ExpiresAt.IsZero() && v.now().After(promo.ExpiresAt) {
		return Promotion{}, &InvalidError{Code: code, Reason: ReasonExpired}
	}

	if promo.MinSubtotal.IsPositive() && subtotal.LessThan(promo.MinSubtotal) {
		return Promotion{}, &InvalidError{Code: code, Reason: ReasonMinSubtotalUnmet}
	}

	return promo, nil
}

func canonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
