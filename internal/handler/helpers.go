package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordering/internal/cart"
	"github.com/quickbite/ordering/internal/order"
	"github.com/quickbite/ordering/internal/promotion"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithDomainError maps domain errors onto HTTP statuses and attaches
// the reason code where one exists, so the client can render a specific
// message.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var promoErr *promotion.InvalidError
	if errors.As(err, &promoErr) {
		respondWithJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  promoErr.Error(),
			Reason: string(promoErr.Reason),
		})
		return
	}

	respondWithError(w, mapErrorToStatusCode(err), err.Error())
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrMissingAddress),
		errors.Is(err, order.ErrMissingPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrCancelNotAllowed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
