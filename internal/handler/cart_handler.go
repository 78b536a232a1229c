package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/quickbite/ordering/internal/cart"
	"github.com/quickbite/ordering/internal/session"
)

type OptionPayload struct {
	Name      string          `json:"name" validate:"required"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

type AddItemRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Options   []OptionPayload `json:"options" validate:"dive"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ApplyPromotionRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartHandler exposes the cart store operations over HTTP. Catalog surfaces
// own item metadata; only price, identity, quantity and options cross this
// boundary.
type CartHandler struct {
	sessions *session.Manager
	validate *validator.Validate
}

func NewCartHandler(sessions *session.Manager) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleGetCart)
	router.Delete("/cart", h.handleClearCart)
	router.Post("/cart/items", h.handleAddItem)
	router.Patch("/cart/items/{lineID}", h.handleUpdateQuantity)
	router.Delete("/cart/items/{lineID}", h.handleRemoveItem)
	router.Post("/cart/promotion", h.handleApplyPromotion)
	router.Delete("/cart/promotion", h.handleRemovePromotion)
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return h.sessions.Cart(sessionIDFrom(r))
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store(r).Snapshot())
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	opts := make([]cart.Option, 0, len(req.Options))
	for _, o := range req.Options {
		opts = append(opts, cart.Option{Name: o.Name, Surcharge: o.Surcharge})
	}

	snap, err := h.store(r).AddItem(req.ItemID, req.UnitPrice, opts)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, snap)
}

func (h *CartHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	var req UpdateQuantityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.store(r).UpdateQuantity(lineID, req.Quantity)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")
	respondWithJSON(w, http.StatusOK, h.store(r).RemoveItem(lineID))
}

func (h *CartHandler) handleApplyPromotion(w http.ResponseWriter, r *http.Request) {
	var req ApplyPromotionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.store(r).ApplyPromotion(req.Code)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

func (h *CartHandler) handleRemovePromotion(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store(r).RemovePromotion())
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store(r).Clear())
}

func (h *CartHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Error().Err(err).Msg("unexpected validation error")
			respondWithError(w, http.StatusInternalServerError, "internal validation error")
		}
		return false
	}

	return true
}
