package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"delivery-estimate-service/internal/ports"
)

// Geography is the subset of geo.Index lookups the services consume.
type Geography interface {
	DistrictForPostalCode(code string) *domain.District
	NearestHub(postalCode, region string) *domain.ShippingHub
	Hubs() []domain.ShippingHub
	AllDistricts() []domain.District
}

// Sentinel errors for the two non-retryable reference-data defects.
// Everything else the estimate path can encounter is absorbed into a
// degraded-but-successful quote.
var (
	ErrNoShippingHub      = errors.New("no shipping hub configured for seller location")
	ErrUnknownDestination = errors.New("destination postal code not mapped to any district")
)

const estimateValidDays = 7

// EstimateCache is the request-time decision engine for delivery
// estimates: probe the cache, serve hits, repopulate on miss, and
// degrade to heuristics instead of failing.
type EstimateCache struct {
	Geo     Geography
	Repo    ports.EstimateRepository
	Carrier ports.CarrierClient
}

func NewEstimateCache(idx Geography, repo ports.EstimateRepository, carrier ports.CarrierClient) *EstimateCache {
	return &EstimateCache{Geo: idx, Repo: repo, Carrier: carrier}
}

// GetDeliveryEstimate answers a delivery-day quote for one shipment.
//
// The only errors it returns are ErrNoShippingHub and
// ErrUnknownDestination; both mean missing reference data and are
// not retryable. Carrier trouble and cache-write trouble degrade the
// quote (Source=fallback) instead of failing the call.
func (s *EstimateCache) GetDeliveryEstimate(
	ctx context.Context,
	seller domain.SellerLocation,
	destPostalCode string,
) (_ domain.DeliveryQuote, err error) {
	defer obs.Time(ctx, "estimates.get")(&err)

	hub := s.Geo.NearestHub(seller.PostalCode, seller.Region)
	if hub == nil {
		return domain.DeliveryQuote{}, fmt.Errorf(
			"get delivery estimate: seller region %q: %w", seller.Region, ErrNoShippingHub)
	}

	district := s.Geo.DistrictForPostalCode(destPostalCode)
	if district == nil {
		return domain.DeliveryQuote{}, fmt.Errorf(
			"get delivery estimate: pincode %q: %w", destPostalCode, ErrUnknownDestination)
	}

	now := time.Now()

	rec, findErr := s.Repo.Find(ctx, hub.Code, district.Code)
	switch {
	case findErr == nil && rec.Valid(now):
		cachedAt := rec.Metadata.LastUpdatedAt
		return domain.DeliveryQuote{
			MinDays:     rec.Estimate.MinDays,
			MaxDays:     rec.Estimate.MaxDays,
			AverageDays: rec.Estimate.AverageDays,
			Provider:    rec.Estimate.Provider,
			Source:      domain.SourceCached,
			Confidence:  rec.Metadata.ConfidenceScore,
			CachedAt:    &cachedAt,
		}, nil
	case findErr != nil && !errors.Is(findErr, ports.ErrNotFound):
		// Cache unreachable is an orchestration-level failure: serve
		// the zone heuristic rather than surfacing it.
		log.Printf("estimate cache read failed hub=%s district=%s err=%v", hub.Code, district.Code, findErr)
		return zoneHeuristicQuote(hub.Zone, district.Zone), nil
	}

	outcome := s.Carrier.Estimate(ctx, domain.EstimateRequest{
		OriginPostalCode:      hub.PostalCode,
		DestinationPostalCode: destPostalCode,
	})
	if !outcome.OK {
		log.Printf("carrier outcome failed hub=%s district=%s reason=%s", hub.Code, district.Code, outcome.Err)
		return zoneHeuristicQuote(hub.Zone, district.Zone), nil
	}

	// Request-time refresh deliberately narrows coverage to the one
	// pincode just asked for; only reconciliation widens it.
	rec = &domain.DeliveryEstimate{
		OriginHub:           hub.Code,
		DestinationDistrict: district.Code,
		CoveredPostalCodes:  []string{destPostalCode},
		Estimate:            outcome.Days,
		Logistics: domain.Logistics{
			DistanceKm:   outcome.DistanceKm,
			Zone:         outcome.Zone,
			ServiceTier:  outcome.ServiceTier,
			CODAvailable: outcome.CODAvailable,
		},
		Metadata: domain.Metadata{
			LastUpdatedAt:   now,
			ExpiresAt:       now.AddDate(0, 0, estimateValidDays),
			ConfidenceScore: outcome.Confidence,
		},
	}

	if upsertErr := s.Repo.Upsert(ctx, rec); upsertErr != nil {
		// A persistence problem after a good carrier read is worth
		// alerting on even though the caller still gets an answer.
		log.Printf("estimate cache write failed hub=%s district=%s err=%v (degrading to zone heuristic)",
			hub.Code, district.Code, upsertErr)
		return zoneHeuristicQuote(hub.Zone, district.Zone), nil
	}

	return domain.DeliveryQuote{
		MinDays:     outcome.Days.MinDays,
		MaxDays:     outcome.Days.MaxDays,
		AverageDays: outcome.Days.AverageDays,
		Provider:    outcome.Days.Provider,
		Source:      domain.SourceAPI,
		Confidence:  outcome.Confidence,
		Fresh:       true,
	}, nil
}

// Stats reports aggregate cache health. Pure aggregation; nothing is
// memoized.
func (s *EstimateCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	return s.Repo.Stats(ctx, time.Now())
}

// EvictExpired deletes every expired record and reports the count.
func (s *EstimateCache) EvictExpired(ctx context.Context) (int64, error) {
	return s.Repo.DeleteExpired(ctx)
}

// zoneHeuristicQuote is the orchestrator's coarse second-tier
// fallback keyed on zone classification rather than pincode prefixes.
// It fires on orchestration-level failures, which is a different
// boundary than the carrier client's own zone-prefix fallback.
func zoneHeuristicQuote(origin, dest domain.Zone) domain.DeliveryQuote {
	days := zoneHeuristicDays(origin, dest)
	return domain.DeliveryQuote{
		MinDays:     days.MinDays,
		MaxDays:     days.MaxDays,
		AverageDays: days.AverageDays,
		Provider:    days.Provider,
		Source:      domain.SourceFallback,
		Confidence:  0.5,
	}
}

func zoneHeuristicDays(origin, dest domain.Zone) domain.DayRange {
	var minDays, maxDays int
	switch {
	case origin == dest && origin == domain.ZoneMetro:
		minDays, maxDays = 1, 2
	case origin == dest:
		minDays, maxDays = 2, 4
	case metroTier1Pair(origin, dest):
		minDays, maxDays = 2, 4
	case origin == domain.ZoneMetro && dest == domain.ZoneTier2:
		minDays, maxDays = 3, 6
	default:
		minDays, maxDays = 4, 8
	}

	return domain.DayRange{
		MinDays:     minDays,
		MaxDays:     maxDays,
		AverageDays: (minDays + maxDays) / 2,
		Provider:    "zone-heuristic",
	}
}

func metroTier1Pair(a, b domain.Zone) bool {
	return (a == domain.ZoneMetro && b == domain.ZoneTier1) ||
		(a == domain.ZoneTier1 && b == domain.ZoneMetro)
}
