package carrier

import (
	"errors"
	"strconv"
	"strings"

	"delivery-estimate-service/internal/domain"
)

const fallbackConfidence = 0.6

// parsePincode validates a numeric Indian pincode. Pincodes that do
// not parse cannot be bucketed by the fallback either, so they are the
// one input the client reports as a hard failure.
func parsePincode(code string) (int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, errors.New("empty pincode")
	}

	n, err := strconv.Atoi(code)
	if err != nil || n <= 0 {
		return 0, errors.New("pincode must be numeric")
	}

	return n, nil
}

// zonePrefix buckets a pincode into its leading digit group.
func zonePrefix(pincode int) int {
	return pincode / 100000
}

// fallbackDays derives a day window purely from the zone-prefix
// distance between origin and destination. Deterministic: equal
// prefixes ship in 2-4 days, prefixes within 2 in 3-6, everything
// else in 5-10.
func fallbackDays(origin, dest int) domain.DayRange {
	diff := zonePrefix(origin) - zonePrefix(dest)
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff == 0:
		return domain.DayRange{MinDays: 2, MaxDays: 4, AverageDays: 3, Provider: "zone-heuristic"}
	case diff <= 2:
		return domain.DayRange{MinDays: 3, MaxDays: 6, AverageDays: 4, Provider: "zone-heuristic"}
	default:
		return domain.DayRange{MinDays: 5, MaxDays: 10, AverageDays: 7, Provider: "zone-heuristic"}
	}
}

func fallbackOutcome(route domain.Route, origin, dest int) domain.EstimateOutcome {
	return domain.EstimateOutcome{
		Route:       route,
		OK:          true,
		Days:        fallbackDays(origin, dest),
		ServiceTier: domain.TierStandard,
		Confidence:  fallbackConfidence,
		Source:      domain.SourceFallback,
	}
}

func failedOutcome(route domain.Route, reason string) domain.EstimateOutcome {
	return domain.EstimateOutcome{
		Route: route,
		OK:    false,
		Err:   reason,
	}
}
