package domain

// Zone is the coarse service tier a hub or district belongs to.
// It drives both geography classification and the heuristic
// fallback's day-count lookup.
type Zone string

const (
	ZoneMetro  Zone = "METRO"
	ZoneTier1  Zone = "TIER1"
	ZoneTier2  Zone = "TIER2"
	ZoneTier3  Zone = "TIER3"
	ZoneRemote Zone = "REMOTE"
)

// ShippingHub is a seller-side dispatch origin point.
// Hubs are static configuration loaded at process start; they are
// never mutated after the geography index is built.
type ShippingHub struct {
	Code       string
	Name       string
	Region     string
	PostalCode string
	Zone       Zone
}

// District is a destination-side postal aggregation bucket.
// PostalCodes is a representative sample of the codes the district
// covers, not an exhaustive enumeration.
type District struct {
	Code        string
	Name        string
	Region      string
	Zone        Zone
	PostalCodes []string
}
