package cart

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/quickbite/ordering/internal/pricing"
	"github.com/quickbite/ordering/internal/promotion"
)

var (
	ErrInvalidItem     = errors.New("cart: unit price must be non-negative")
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart: line item not found")
)

// Store holds the line items of one session's cart. It is the single writer
// for that cart: every mutation runs under the store's mutex, recomputes the
// quote through the pricing engine and publishes the new snapshot to
// subscribers. Totals are never cached across mutations anywhere else.
type Store struct {
	mu        sync.Mutex
	cfg       pricing.Config
	validator *promotion.Validator

	items     map[string]*LineItem
	lineOrder []string // lineIDs in insertion order
	promo     *promotion.Promotion
	quote     pricing.Quote

	subs []func(Snapshot)
}

func NewStore(cfg pricing.Config, validator *promotion.Validator) *Store {
	return &Store{
		cfg:       cfg,
		validator: validator,
		items:     make(map[string]*LineItem),
	}
}

// Subscribe registers fn to be called with the cart snapshot after every
// accepted mutation. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem adds one unit of the given item. If a line with the same item and
// option set already exists its quantity is incremented instead; the existing
// line keeps the price it was added at.
func (s *Store) AddItem(itemID string, unitPrice decimal.Decimal, opts []Option) (Snapshot, error) {
	if unitPrice.IsNegative() {
		return Snapshot{}, ErrInvalidItem
	}

	s.mu.Lock()
	lineID := lineFingerprint(itemID, opts)
	if line, ok := s.items[lineID]; ok {
		line.Quantity++
	} else {
		item := &LineItem{
			LineID:    lineID,
			ItemID:    itemID,
			UnitPrice: unitPrice,
			Quantity:  1,
			Options:   append([]Option(nil), opts...),
		}
		s.items[lineID] = item
		s.lineOrder = append(s.lineOrder, lineID)
	}
	snap := s.recomputeLocked()
	s.mu.Unlock()

	log.Debug().Str("item_id", itemID).Str("line_id", lineID).Msg("cart: item added")
	s.publish(snap)
	return snap, nil
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1
// are rejected; callers that want removal must call RemoveItem explicitly.
func (s *Store) UpdateQuantity(lineID string, quantity int) (Snapshot, error) {
	if quantity < 1 {
		return Snapshot{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	line, ok := s.items[lineID]
	if !ok {
		s.mu.Unlock()
		return Snapshot{}, ErrLineNotFound
	}
	line.Quantity = quantity
	snap := s.recomputeLocked()
	s.mu.Unlock()

	s.publish(snap)
	return snap, nil
}

// RemoveItem removes a line unconditionally. Removing an absent line is a
// no-op, not an error.
func (s *Store) RemoveItem(lineID string) Snapshot {
	s.mu.Lock()
	if _, ok := s.items[lineID]; ok {
		delete(s.items, lineID)
		for i, id := range s.lineOrder {
			if id == lineID {
				s.lineOrder = append(s.lineOrder[:i], s.lineOrder[i+1:]...)
				break
			}
		}
	}
	snap := s.recomputeLocked()
	s.mu.Unlock()

	s.publish(snap)
	return snap
}

// ApplyPromotion validates the code against the catalog and, on success,
// activates it for this cart. Re-applying the already-active code is a no-op.
// On failure the cart is left unchanged and the *promotion.InvalidError
// carries the reason code.
func (s *Store) ApplyPromotion(code string) (Snapshot, error) {
	s.mu.Lock()
	if s.promo != nil && strings.EqualFold(s.promo.Code, strings.TrimSpace(code)) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	promo, err := s.validator.Validate(code, s.quote.Subtotal)
	if err != nil {
		s.mu.Unlock()
		log.Debug().Str("code", code).Err(err).Msg("cart: promotion rejected")
		return Snapshot{}, err
	}

	s.promo = &promo
	snap := s.recomputeLocked()
	s.mu.Unlock()

	log.Info().Str("code", promo.Code).Msg("cart: promotion applied")
	s.publish(snap)
	return snap, nil
}

// RemovePromotion clears the active promotion, if any.
func (s *Store) RemovePromotion() Snapshot {
	s.mu.Lock()
	s.promo = nil
	snap := s.recomputeLocked()
	s.mu.Unlock()

	s.publish(snap)
	return snap
}

// Clear empties the cart and drops the active promotion.
func (s *Store) Clear() Snapshot {
	s.mu.Lock()
	s.items = make(map[string]*LineItem)
	s.lineOrder = nil
	s.promo = nil
	snap := s.recomputeLocked()
	s.mu.Unlock()

	s.publish(snap)
	return snap
}

// Snapshot returns an immutable copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// recomputeLocked refreshes derived line totals and the quote. Pricing stays
// a pure function invoked here and nowhere else. Caller must hold s.mu.
func (s *Store) recomputeLocked() Snapshot {
	lines := make([]pricing.Line, 0, len(s.lineOrder))
	for _, id := range s.lineOrder {
		item := s.items[id]
		pl := item.pricingLine()
		item.LineTotal = pl.Total()
		lines = append(lines, pl)
	}

	var promo pricing.Discounter
	if s.promo != nil {
		promo = *s.promo
	}
	s.quote = pricing.Compute(s.cfg, lines, promo)

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]LineItem, 0, len(s.lineOrder))
	for _, id := range s.lineOrder {
		items = append(items, s.items[id].clone())
	}

	var promo *promotion.Promotion
	if s.promo != nil {
		p := *s.promo
		promo = &p
	}

	return Snapshot{Items: items, Promotion: promo, Quote: s.quote}
}

func (s *Store) publish(snap Snapshot) {
	s.mu.Lock()
	subs := append(([]func(Snapshot))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
