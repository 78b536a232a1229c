package session_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/ordering/internal/pricing"
	"github.com/quickbite/ordering/internal/promotion"
	"github.com/quickbite/ordering/internal/session"
)

func newManager() *session.Manager {
	return session.NewManager(pricing.DefaultConfig(), promotion.NewValidator(nil))
}

func TestManager_SameSessionSameStore(t *testing.T) {
	m := newManager()

	first := m.Cart("session-a")
	second := m.Cart("session-a")

	assert.Same(t, first, second)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := newManager()

	a := m.Cart("session-a")
	b := m.Cart("session-b")
	require.NotSame(t, a, b)

	_, err := a.AddItem("burger", decimal.NewFromFloat(8.99), nil)
	require.NoError(t, err)

	assert.Len(t, a.Snapshot().Items, 1)
	assert.True(t, b.Snapshot().IsEmpty())
}

func TestManager_StoresStartEmpty(t *testing.T) {
	m := newManager()

	snap := m.Cart("fresh").Snapshot()

	assert.True(t, snap.IsEmpty())
	assert.Nil(t, snap.Promotion)
	assert.True(t, snap.Quote.Total.IsZero())
}

func TestNewSessionID(t *testing.T) {
	first := session.NewSessionID()
	second := session.NewSessionID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
