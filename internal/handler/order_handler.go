package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordering/internal/order"
	"github.com/quickbite/ordering/internal/session"
)

// Presence of the address and payment method is checked by the orchestrator
// (MissingAddress/MissingPayment carry the caller-facing reason), so the DTO
// only validates shape-level constraints.
type AddressPayload struct {
	Label  string `json:"label"`
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

type DeliveryTimePayload struct {
	Mode string    `json:"mode" validate:"omitempty,oneof=ASAP SCHEDULED"`
	At   time.Time `json:"at"`
}

type CheckoutRequest struct {
	Address          AddressPayload      `json:"address"`
	PaymentMethodRef string              `json:"payment_method_ref"`
	DeliveryTime     DeliveryTimePayload `json:"delivery_time"`
}

// OrderResponse is the read-only view tracking surfaces consume.
type OrderResponse struct {
	order.Order
	EstimatedMinutesRemaining int `json:"estimated_minutes_remaining"`
}

type OrderHandler struct {
	sessions *session.Manager
	checkout *order.Orchestrator
	orders   *order.Registry
	validate *validator.Validate
}

func NewOrderHandler(sessions *session.Manager, checkout *order.Orchestrator, orders *order.Registry) *OrderHandler {
	return &OrderHandler{
		sessions: sessions,
		checkout: checkout,
		orders:   orders,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/checkout", h.handleCheckout)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Post("/orders/{id}/cancel", h.handleCancelOrder)
}

func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("unexpected validation error")
		respondWithError(w, http.StatusInternalServerError, "internal validation error")
		return
	}

	cartStore := h.sessions.Cart(sessionIDFrom(r))

	addr := order.Address{
		Label:  req.Address.Label,
		Street: req.Address.Street,
		City:   req.Address.City,
		Zip:    req.Address.Zip,
	}
	dt := order.DeliveryTime{
		Mode: order.DeliveryTimeMode(req.DeliveryTime.Mode),
		At:   req.DeliveryTime.At,
	}

	ord, err := h.checkout.CreateOrder(cartStore, addr, req.PaymentMethodRef, dt)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	tracker, _ := h.orders.Get(ord.ID)
	respondWithJSON(w, http.StatusCreated, OrderResponse{
		Order:                     ord,
		EstimatedMinutesRemaining: tracker.ETAMinutes(),
	})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	tracker, ok := h.lookupTracker(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, OrderResponse{
		Order:                     tracker.Order(),
		EstimatedMinutesRemaining: tracker.ETAMinutes(),
	})
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	tracker, ok := h.lookupTracker(w, r)
	if !ok {
		return
	}

	if err := tracker.Cancel(); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, OrderResponse{
		Order:                     tracker.Order(),
		EstimatedMinutesRemaining: tracker.ETAMinutes(),
	})
}

func (h *OrderHandler) lookupTracker(w http.ResponseWriter, r *http.Request) (*order.Tracker, bool) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid order id")
		return nil, false
	}

	tracker, ok := h.orders.Get(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "order not found")
		return nil, false
	}
	return tracker, true
}
