package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/ordering/internal/order"
)

type orderBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Totals struct {
		Subtotal string `json:"subtotal"`
		Total    string `json:"total"`
	} `json:"totals"`
	DeliveryTime struct {
		Mode string `json:"mode"`
	} `json:"delivery_time"`
	EstimatedMinutesRemaining int `json:"estimated_minutes_remaining"`
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) orderBody {
	t.Helper()
	var body orderBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func checkoutPayload() map[string]interface{} {
	return map[string]interface{}{
		"address": map[string]interface{}{
			"street": "12 Main St",
			"city":   "Springfield",
			"zip":    "12345",
		},
		"payment_method_ref": "card-1",
	}
}

func fillCart(t *testing.T, srv http.Handler) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/cart/items", "", map[string]interface{}{
		"item_id":    "burger",
		"unit_price": "8.99",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return rec.Header().Get("X-Session-ID")
}

func TestOrderHandler_Checkout(t *testing.T) {
	srv := newTestServer(t)
	sessionID := fillCart(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/checkout", sessionID, checkoutPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeOrder(t, rec)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, string(order.StatusConfirmed), body.Status)
	assert.Equal(t, string(order.DeliveryASAP), body.DeliveryTime.Mode)
	assert.Equal(t, "8.99", body.Totals.Subtotal)
	assert.Equal(t, 25, body.EstimatedMinutesRemaining)

	// Checkout consumed the cart.
	cartRec := doJSON(t, srv, http.MethodGet, "/cart", sessionID, nil)
	assert.True(t, decodeSnapshot(t, cartRec).IsEmpty())
}

func TestOrderHandler_Checkout_Failures(t *testing.T) {
	tests := []struct {
		name     string
		fill     bool
		mutate   func(p map[string]interface{})
		wantCode int
	}{
		{
			name:     "empty_cart",
			mutate:   func(p map[string]interface{}) {},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "missing_address",
			fill: true,
			mutate: func(p map[string]interface{}) {
				delete(p, "address")
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "missing_payment",
			fill: true,
			mutate: func(p map[string]interface{}) {
				delete(p, "payment_method_ref")
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "bad_delivery_mode",
			fill: true,
			mutate: func(p map[string]interface{}) {
				p["delivery_time"] = map[string]interface{}{"mode": "WHENEVER"}
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			sessionID := ""
			if tt.fill {
				sessionID = fillCart(t, srv)
			}

			payload := checkoutPayload()
			tt.mutate(payload)

			rec := doJSON(t, srv, http.MethodPost, "/checkout", sessionID, payload)
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.fill {
				// The cart survives a failed checkout.
				cartRec := doJSON(t, srv, http.MethodGet, "/cart", sessionID, nil)
				assert.False(t, decodeSnapshot(t, cartRec).IsEmpty())
			}
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	srv := newTestServer(t)
	sessionID := fillCart(t, srv)

	created := decodeOrder(t, doJSON(t, srv, http.MethodPost, "/checkout", sessionID, checkoutPayload()))

	rec := doJSON(t, srv, http.MethodGet, "/orders/"+created.ID, sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeOrder(t, rec)
	assert.Equal(t, created.ID, body.ID)
	assert.Equal(t, string(order.StatusConfirmed), body.Status)
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/orders/0a0e8400-e29b-41d4-a716-446655440000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/orders/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	srv := newTestServer(t)
	sessionID := fillCart(t, srv)

	created := decodeOrder(t, doJSON(t, srv, http.MethodPost, "/checkout", sessionID, checkoutPayload()))

	rec := doJSON(t, srv, http.MethodPost, "/orders/"+created.ID+"/cancel", sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeOrder(t, rec)
	assert.Equal(t, string(order.StatusCancelled), body.Status)
	assert.Equal(t, 0, body.EstimatedMinutesRemaining)
}
