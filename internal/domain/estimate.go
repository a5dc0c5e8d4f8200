package domain

import "time"

// ServiceTier classifies the delivery product quoted by a carrier.
type ServiceTier string

const (
	TierExpress  ServiceTier = "Express"
	TierStandard ServiceTier = "Standard"
	TierEconomy  ServiceTier = "Economy"
)

// ShipmentType distinguishes forward deliveries from returns.
type ShipmentType string

const (
	ShipmentForward ShipmentType = "FORWARD"
	ShipmentReturn  ShipmentType = "RETURN"
)

// EstimateSource labels the provenance of a served estimate.
type EstimateSource string

const (
	SourceCached   EstimateSource = "cached"
	SourceAPI      EstimateSource = "api"
	SourceFallback EstimateSource = "fallback"
)

// Route identifies one origin-hub -> destination-district lane.
// OriginPostalCode and DestinationPostalCode carry the concrete
// pincodes used for carrier calls on that lane.
type Route struct {
	OriginHub             string
	DestinationDistrict   string
	OriginPostalCode      string
	DestinationPostalCode string
}

// Key returns the composite cache identity for the route.
func (r Route) Key() string {
	return r.OriginHub + "|" + r.DestinationDistrict
}

// DayRange is the delivery-day window quoted for a lane.
// AverageDays lies within [MinDays, MaxDays]; MinDays >= 1.
type DayRange struct {
	MinDays     int
	MaxDays     int
	AverageDays int
	Provider    string
}

// Logistics holds carrier-reported lane characteristics.
type Logistics struct {
	DistanceKm   *float64
	Zone         Zone
	ServiceTier  ServiceTier
	CODAvailable bool
	WeightRange  string
}

// Metadata tracks cache bookkeeping for an estimate record.
type Metadata struct {
	LastUpdatedAt        time.Time
	ExpiresAt            time.Time
	RefreshFrequencyHint string
	APICallCount         int64
	ConfidenceScore      float64
}

// Performance is observational delivery history for a lane.
// It is informational only and never consulted when serving estimates.
type Performance struct {
	DeliveryCount    int64
	AverageDelayDays float64
	OnTimePercent    float64
}

// DeliveryEstimate is the mutable cache record for one route,
// uniquely keyed by (OriginHub, DestinationDistrict).
type DeliveryEstimate struct {
	OriginHub           string
	DestinationDistrict string
	CoveredPostalCodes  []string
	Estimate            DayRange
	Logistics           Logistics
	Metadata            Metadata
	Performance         *Performance
}

// Valid reports whether the record has not yet expired.
// Validity is independent of the confidence score: reconciliation
// applies its own confidence bar on top of this check.
func (r *DeliveryEstimate) Valid(now time.Time) bool {
	return now.Before(r.Metadata.ExpiresAt)
}

// CoversPostalCode reports whether the record answers for the given
// destination pincode.
func (r *DeliveryEstimate) CoversPostalCode(code string) bool {
	for _, c := range r.CoveredPostalCodes {
		if c == code {
			return true
		}
	}
	return false
}

// EstimateRequest is a single carrier estimate query.
type EstimateRequest struct {
	OriginPostalCode      string
	DestinationPostalCode string
	WeightKg              float64
	CODAmount             float64
	ShipmentType          ShipmentType
}

// EstimateOutcome is the carrier client's result sum type.
//
// OK is false only for unanswerable inputs (e.g. non-numeric
// pincodes); ordinary carrier trouble (timeout, HTTP error, bad
// payload) still yields OK=true with Source=fallback. Keeping
// failure explicit in the value lets the two fallback tiers show up
// in signatures instead of hiding in panics or sentinel errors.
type EstimateOutcome struct {
	Route Route
	OK    bool
	Err   string

	Days         DayRange
	DistanceKm   *float64
	Zone         Zone
	ServiceTier  ServiceTier
	CODAvailable bool
	Confidence   float64
	Source       EstimateSource
}

// SellerLocation identifies where a shipment originates.
type SellerLocation struct {
	PostalCode string
	Region     string
}

// DeliveryQuote is the answer served to order-placement flows.
// CachedAt is set only for Source=cached; Fresh only for Source=api.
type DeliveryQuote struct {
	MinDays     int
	MaxDays     int
	AverageDays int
	Provider    string
	Source      EstimateSource
	Confidence  float64
	CachedAt    *time.Time
	Fresh       bool
}

// CacheStats is the aggregate view over all estimate records.
type CacheStats struct {
	Total         int64
	Valid         int64
	Expired       int64
	HitRate       float64
	AvgConfidence float64
	AvgDays       float64
}
