package order

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordering/internal/cart"
)

var (
	ErrOrderNotFound    = errors.New("order: not found")
	ErrCancelNotAllowed = errors.New("order: cancellation is no longer possible")
)

// DwellTimes holds how long an order stays in each non-terminal status before
// the tracker is eligible to advance it.
type DwellTimes map[Status]time.Duration

func DefaultDwellTimes() DwellTimes {
	return DwellTimes{
		StatusConfirmed:      5 * time.Minute,
		StatusPreparing:      10 * time.Minute,
		StatusOutForDelivery: 10 * time.Minute,
	}
}

// StatusUpdate is what subscribers receive on every transition.
type StatusUpdate struct {
	OrderID          uuid.UUID `json:"order_id"`
	Status           Status    `json:"status"`
	EstimatedMinutes int       `json:"estimated_minutes_remaining"`
}

// Tracker owns one order's fulfillment state. A per-order goroutine evaluates
// the dwell gate on a fixed tick and advances the status one state at a time;
// nothing else may mutate the order. The goroutine stops once the order is
// terminal and never fires after Stop.
type Tracker struct {
	mu             sync.Mutex
	ord            *Order
	dwell          DwellTimes
	lastTransition time.Time
	subs           []func(StatusUpdate)

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

func newTracker(ord Order, dwell DwellTimes, now func() time.Time) *Tracker {
	return &Tracker{
		ord:            &ord,
		dwell:          dwell,
		lastTransition: now(),
		stop:           make(chan struct{}),
		now:            now,
	}
}

func (t *Tracker) start(interval time.Duration) {
	t.wg.Add(1)
	go t.loop(interval)
}

func (t *Tracker) loop(interval time.Duration) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if t.evaluate() {
				return
			}
		case <-t.stop:
			return
		}
	}
}

// evaluate advances the order by at most one state if the current dwell has
// elapsed, and reports whether the order is now terminal. The logical
// transition time moves forward by the dwell just consumed rather than to
// wall-clock now, so an order that slept through several dwells still catches
// up one state per tick, never skipping one.
func (t *Tracker) evaluate() bool {
	t.mu.Lock()
	cur := t.ord.Status
	if cur.IsTerminal() {
		t.mu.Unlock()
		return true
	}

	dwell := t.dwell[cur]
	if t.now().Sub(t.lastTransition) < dwell {
		t.mu.Unlock()
		return false
	}

	next, ok := nextStatus(cur)
	if !ok {
		t.mu.Unlock()
		return true
	}

	t.ord.Status = next
	t.lastTransition = t.lastTransition.Add(dwell)
	update := StatusUpdate{
		OrderID:          t.ord.ID,
		Status:           next,
		EstimatedMinutes: t.etaMinutesLocked(),
	}
	subs := append(([]func(StatusUpdate))(nil), t.subs...)
	t.mu.Unlock()

	for _, fn := range subs {
		fn(update)
	}
	return next.IsTerminal()
}

// Order returns a copy of the tracked order at its current status.
func (t *Tracker) Order() Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	ord := *t.ord
	ord.Items = append([]cart.LineItem(nil), t.ord.Items...)
	return ord
}

// Status returns the current fulfillment status.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ord.Status
}

// ETAMinutes returns the estimated minutes until delivery. It decreases as
// states advance, is never negative and reaches 0 only in a terminal state.
func (t *Tracker) ETAMinutes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.etaMinutesLocked()
}

func (t *Tracker) etaMinutesLocked() int {
	if t.ord.Status.IsTerminal() {
		return 0
	}
	var remaining time.Duration
	found := false
	for _, st := range statusSequence {
		if st == t.ord.Status {
			found = true
		}
		if found {
			remaining += t.dwell[st]
		}
	}
	return int(remaining / time.Minute)
}

// Subscribe registers fn to be called on every status transition.
func (t *Tracker) Subscribe(fn func(StatusUpdate)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// Cancel moves the order to CANCELLED. Allowed only while the order is still
// CONFIRMED or PREPARING; cancelling an already-cancelled order is a no-op.
func (t *Tracker) Cancel() error {
	t.mu.Lock()
	cur := t.ord.Status
	if cur == StatusCancelled {
		t.mu.Unlock()
		return nil
	}
	if !allowedTransitions[cur][StatusCancelled] {
		t.mu.Unlock()
		return ErrCancelNotAllowed
	}

	t.ord.Status = StatusCancelled
	update := StatusUpdate{
		OrderID:          t.ord.ID,
		Status:           StatusCancelled,
		EstimatedMinutes: 0,
	}
	subs := append(([]func(StatusUpdate))(nil), t.subs...)
	t.mu.Unlock()

	t.stopOnce.Do(func() { close(t.stop) })
	for _, fn := range subs {
		fn(update)
	}
	return nil
}

// Stop tears the timer down and waits for the goroutine to exit. No tick
// fires after Stop returns.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	t.wg.Wait()
}

// Registry tracks many orders concurrently, each with its own independently
// scheduled and independently cancellable tracker.
type Registry struct {
	mu       sync.Mutex
	trackers map[uuid.UUID]*Tracker
	dwell    DwellTimes
	interval time.Duration
	now      func() time.Time
}

func NewRegistry(dwell DwellTimes, interval time.Duration) *Registry {
	return &Registry{
		trackers: make(map[uuid.UUID]*Tracker),
		dwell:    dwell,
		interval: interval,
		now:      time.Now,
	}
}

// Track takes ownership of the order and starts its timer.
func (r *Registry) Track(ord Order) *Tracker {
	t := newTracker(ord, r.dwell, r.now)
	t.Subscribe(func(u StatusUpdate) {
		log.Info().
			Stringer("order_id", u.OrderID).
			Stringer("status", u.Status).
			Int("eta_minutes", u.EstimatedMinutes).
			Msg("order: status changed")
	})

	r.mu.Lock()
	r.trackers[ord.ID] = t
	r.mu.Unlock()

	t.start(r.interval)
	return t
}

func (r *Registry) Get(id uuid.UUID) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[id]
	return t, ok
}

// StopAll tears down every tracker; used on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	trackers := make([]*Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		trackers = append(trackers, t)
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
}
