package order

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/quickbite/ordering/internal/cart"
	"github.com/quickbite/ordering/internal/pricing"
)

// Status is an order's fulfillment state. The happy path is a strict
// sequence; CANCELLED is terminal and reachable only from the first two
// states, only by explicit request, never by the timer.
type Status string

const (
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusConfirmed: {
		StatusPreparing: true,
		StatusCancelled: true,
	},
	StatusPreparing: {
		StatusOutForDelivery: true,
		StatusCancelled:      true,
	},
	StatusOutForDelivery: {
		StatusDelivered: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

// statusSequence is the timer-driven path, in order.
var statusSequence = []Status{
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

// nextStatus returns the state following s on the timer-driven path.
func nextStatus(s Status) (Status, bool) {
	for i, st := range statusSequence {
		if st == s && i+1 < len(statusSequence) {
			return statusSequence[i+1], true
		}
	}
	return "", false
}

// DeliveryTimeMode selects when the customer wants the order.
type DeliveryTimeMode string

const (
	DeliveryASAP      DeliveryTimeMode = "ASAP"
	DeliveryScheduled DeliveryTimeMode = "SCHEDULED"
)

type DeliveryTime struct {
	Mode DeliveryTimeMode `json:"mode"`
	At   time.Time        `json:"at,omitempty"` // set for SCHEDULED only
}

type Address struct {
	Label  string `json:"label,omitempty"`
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip,omitempty"`
}

func (a Address) isZero() bool {
	return a.Street == "" && a.City == ""
}

// Order is a frozen snapshot of a cart at checkout time. Everything except
// Status is immutable once created; Status is owned exclusively by the
// Tracker.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	Items        []cart.LineItem `json:"items"`
	Totals       pricing.Quote   `json:"totals"`
	Address      Address         `json:"address"`
	PaymentRef   string          `json:"payment_method_ref"`
	DeliveryTime DeliveryTime    `json:"delivery_time"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}
