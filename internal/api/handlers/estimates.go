package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"
	"delivery-estimate-service/internal/services"
)

// EstimateHandler serves delivery-day quotes to order-placement and
// seller-onboarding flows.
type EstimateHandler struct {
	Service *services.EstimateCache
	Carrier ports.CarrierClient
}

// Estimate answers POST /estimates.
//
// The two reference-data defects map to 4xx; every other condition is
// a 200 whose source field tells the caller how degraded the answer
// is.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.EstimateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.SellerPostalCode) == "" || strings.TrimSpace(req.SellerRegion) == "" {
		writeError(w, r, http.StatusBadRequest, "seller_postal_code and seller_region are required")
		return
	}
	if strings.TrimSpace(req.DestinationPostalCode) == "" {
		writeError(w, r, http.StatusBadRequest, "destination_postal_code is required")
		return
	}

	seller := domain.SellerLocation{
		PostalCode: req.SellerPostalCode,
		Region:     req.SellerRegion,
	}

	quote, err := h.Service.GetDeliveryEstimate(r.Context(), seller, req.DestinationPostalCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoShippingHub):
			writeError(w, r, http.StatusUnprocessableEntity, "no shipping hub for seller location")
		case errors.Is(err, services.ErrUnknownDestination):
			writeError(w, r, http.StatusUnprocessableEntity, "destination postal code is not covered")
		default:
			log.Printf("get delivery estimate failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	res := dto.EstimateResponse{
		MinDays:     quote.MinDays,
		MaxDays:     quote.MaxDays,
		AverageDays: quote.AverageDays,
		Provider:    quote.Provider,
		Source:      string(quote.Source),
		Confidence:  quote.Confidence,
		CachedAt:    quote.CachedAt,
		Fresh:       quote.Fresh,
		Serviceable: h.Carrier.CheckServiceability(r.Context(), req.DestinationPostalCode),
	}

	writeJSON(w, r, http.StatusOK, res)
}
