package geo

import (
	"delivery-estimate-service/internal/domain"
)

// Index provides read-only geography lookups over the compiled-in hub
// and district tables. The reverse pincode index is built once by
// NewIndex and never mutated afterwards, so a single Index is safe to
// share across the orchestrator and the reconciliation job.
type Index struct {
	hubs         []domain.ShippingHub
	districts    []domain.District
	byPostalCode map[string]*domain.District
	hubsByRegion map[string][]*domain.ShippingHub
	hubByPostal  map[string]*domain.ShippingHub
	regions      []string
}

// NewIndex builds the reverse lookup structures from the static
// tables. One O(n) pass over all (district, pincode) pairs at startup.
func NewIndex() *Index {
	idx := &Index{
		hubs:         hubs,
		districts:    districts,
		byPostalCode: make(map[string]*domain.District),
		hubsByRegion: make(map[string][]*domain.ShippingHub),
		hubByPostal:  make(map[string]*domain.ShippingHub),
	}

	for i := range idx.districts {
		d := &idx.districts[i]
		for _, pc := range d.PostalCodes {
			// First declaration wins on duplicate pincodes.
			if _, ok := idx.byPostalCode[pc]; !ok {
				idx.byPostalCode[pc] = d
			}
		}
	}

	seenRegion := make(map[string]struct{})
	for i := range idx.hubs {
		h := &idx.hubs[i]
		idx.hubsByRegion[h.Region] = append(idx.hubsByRegion[h.Region], h)
		idx.hubByPostal[h.PostalCode] = h
		if _, ok := seenRegion[h.Region]; !ok {
			seenRegion[h.Region] = struct{}{}
			idx.regions = append(idx.regions, h.Region)
		}
	}

	return idx
}

// DistrictForPostalCode resolves a destination pincode to its owning
// district, or nil when no district covers it.
func (idx *Index) DistrictForPostalCode(code string) *domain.District {
	return idx.byPostalCode[code]
}

// NearestHub selects the dispatch hub for a seller location.
// An exact pincode match wins; otherwise the first configured hub for
// the region is used. Returns nil when the region has no hub; callers
// on the request path treat that as a configuration defect.
func (idx *Index) NearestHub(postalCode, region string) *domain.ShippingHub {
	if h, ok := idx.hubByPostal[postalCode]; ok {
		return h
	}

	regionHubs := idx.hubsByRegion[region]
	if len(regionHubs) == 0 {
		return nil
	}
	return regionHubs[0]
}

// DistrictsForRegion returns the districts of one region in declared
// order.
func (idx *Index) DistrictsForRegion(region string) []domain.District {
	out := make([]domain.District, 0, 4)
	for _, d := range idx.districts {
		if d.Region == region {
			out = append(out, d)
		}
	}
	return out
}

// AllDistricts returns every configured district in declared order.
func (idx *Index) AllDistricts() []domain.District {
	out := make([]domain.District, len(idx.districts))
	copy(out, idx.districts)
	return out
}

// Hubs returns every configured hub in declared order.
func (idx *Index) Hubs() []domain.ShippingHub {
	out := make([]domain.ShippingHub, len(idx.hubs))
	copy(out, idx.hubs)
	return out
}

// Regions returns the hub regions in declared order.
func (idx *Index) Regions() []string {
	out := make([]string, len(idx.regions))
	copy(out, idx.regions)
	return out
}

// HubByCode resolves a hub code, or nil when unknown.
func (idx *Index) HubByCode(code string) *domain.ShippingHub {
	for i := range idx.hubs {
		if idx.hubs[i].Code == code {
			return &idx.hubs[i]
		}
	}
	return nil
}
