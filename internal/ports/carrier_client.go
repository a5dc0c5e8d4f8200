package ports

import (
	"context"
	"delivery-estimate-service/internal/domain"
)

// Port: boundary for carrier delivery-time estimation.
//
// Implementations absorb ordinary carrier trouble (timeouts, HTTP
// errors, malformed payloads) and answer with a lower-confidence
// fallback outcome instead of an error, so callers never branch on
// transport failures.
type CarrierClient interface {
	// Estimate returns a delivery-day outcome for one lane.
	// The outcome is OK=false only for unanswerable input.
	Estimate(ctx context.Context, req domain.EstimateRequest) domain.EstimateOutcome

	// BatchEstimate resolves many routes with bounded concurrency.
	// It returns exactly one outcome per route, failures included;
	// outcome order within a chunk is not guaranteed, so consumers
	// must key results by route.
	BatchEstimate(ctx context.Context, routes []domain.Route) []domain.EstimateOutcome

	// CheckServiceability probes whether a pincode is serviceable.
	// It fails open: any remote failure reports true.
	CheckServiceability(ctx context.Context, postalCode string) bool
}
