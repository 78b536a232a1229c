package session

import (
	"sync"

	"github.com/gofrs/uuid"

	"github.com/quickbite/ordering/internal/cart"
	"github.com/quickbite/ordering/internal/pricing"
	"github.com/quickbite/ordering/internal/promotion"
)

// Manager hands out one cart store per session. Stores are created empty on
// first use and live for the life of the process; there is no shared mutable
// state between sessions.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*cart.Store

	cfg       pricing.Config
	validator *promotion.Validator
}

func NewManager(cfg pricing.Config, validator *promotion.Validator) *Manager {
	return &Manager{
		carts:     make(map[string]*cart.Store),
		cfg:       cfg,
		validator: validator,
	}
}

// Cart returns the store for the given session, creating it if needed.
func (m *Manager) Cart(sessionID string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.carts[sessionID]
	if !ok {
		store = cart.NewStore(m.cfg, m.validator)
		m.carts[sessionID] = store
	}
	return store
}

// NewSessionID generates an identifier for a session that does not have one.
func NewSessionID() string {
	return uuid.Must(uuid.NewV4()).String()
}
