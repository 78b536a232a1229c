package order

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordering/internal/cart"
)

var (
	ErrEmptyCart      = errors.New("checkout: cart is empty")
	ErrMissingAddress = errors.New("checkout: delivery address is required")
	ErrMissingPayment = errors.New("checkout: payment method is required")
)

// Orchestrator converts a cart into an immutable tracked order. Validation
// runs against a snapshot taken under the cart's lock; the cart is cleared
// only after the order exists, so a rejected checkout leaves it untouched.
type Orchestrator struct {
	registry *Registry
	now      func() time.Time
}

func NewOrchestrator(registry *Registry) *Orchestrator {
	return &Orchestrator{registry: registry, now: time.Now}
}

// CreateOrder freezes the cart's items and totals into a new order, starts
// tracking it at CONFIRMED and clears the cart.
func (o *Orchestrator) CreateOrder(cartStore *cart.Store, addr Address, paymentRef string, dt DeliveryTime) (Order, error) {
	snap := cartStore.Snapshot()

	if snap.IsEmpty() {
		return Order{}, ErrEmptyCart
	}
	if addr.isZero() {
		return Order{}, ErrMissingAddress
	}
	if paymentRef == "" {
		return Order{}, ErrMissingPayment
	}
	if dt.Mode == "" {
		dt.Mode = DeliveryASAP
	}

	id, err := uuid.NewV4()
	if err != nil {
		return Order{}, err
	}

	ord := Order{
		ID:           id,
		Items:        snap.Items, // snapshot already deep-copied the lines
		Totals:       snap.Quote,
		Address:      addr,
		PaymentRef:   paymentRef,
		DeliveryTime: dt,
		Status:       StatusConfirmed,
		CreatedAt:    o.now(),
	}

	o.registry.Track(ord)
	cartStore.Clear()

	log.Info().
		Stringer("order_id", ord.ID).
		Str("total", ord.Totals.Total.String()).
		Int("lines", len(ord.Items)).
		Msg("checkout: order created")

	return ord, nil
}
