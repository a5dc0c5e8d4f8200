package services

import (
	"context"
	"fmt"
	"sync"

	"delivery-estimate-service/internal/domain"
)

// stubCarrier answers estimates from a fixed function and records
// call counts. BatchEstimate resolves serially without pacing so job
// tests only exercise the job's own delays.
type stubCarrier struct {
	mu        sync.Mutex
	estimates int
	batches   []int

	outcome func(req domain.EstimateRequest) domain.EstimateOutcome
}

func apiOutcome(minDays, maxDays, avgDays int, confidence float64) func(domain.EstimateRequest) domain.EstimateOutcome {
	return func(domain.EstimateRequest) domain.EstimateOutcome {
		return domain.EstimateOutcome{
			OK: true,
			Days: domain.DayRange{
				MinDays: minDays, MaxDays: maxDays, AverageDays: avgDays,
				Provider: "carrier-api",
			},
			ServiceTier: domain.TierStandard,
			Confidence:  confidence,
			Source:      domain.SourceAPI,
		}
	}
}

func failedCarrier() func(domain.EstimateRequest) domain.EstimateOutcome {
	return func(domain.EstimateRequest) domain.EstimateOutcome {
		return domain.EstimateOutcome{OK: false, Err: "boom"}
	}
}

func (c *stubCarrier) Estimate(_ context.Context, req domain.EstimateRequest) domain.EstimateOutcome {
	c.mu.Lock()
	c.estimates++
	c.mu.Unlock()
	return c.outcome(req)
}

func (c *stubCarrier) BatchEstimate(ctx context.Context, routes []domain.Route) []domain.EstimateOutcome {
	c.mu.Lock()
	c.batches = append(c.batches, len(routes))
	c.mu.Unlock()

	outcomes := make([]domain.EstimateOutcome, len(routes))
	for i, route := range routes {
		out := c.outcome(domain.EstimateRequest{
			OriginPostalCode:      route.OriginPostalCode,
			DestinationPostalCode: route.DestinationPostalCode,
		})
		out.Route = route
		outcomes[i] = out
	}
	return outcomes
}

func (c *stubCarrier) CheckServiceability(context.Context, string) bool { return true }

func (c *stubCarrier) estimateCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimates
}

func (c *stubCarrier) batchSizes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.batches...)
}

// fakeGeography is a synthetic hub/district space with controllable
// cardinality for exercising the job's chunking.
type fakeGeography struct {
	hubs      []domain.ShippingHub
	districts []domain.District
}

func newFakeGeography(hubCount, districtCount int) *fakeGeography {
	g := &fakeGeography{}
	for i := 0; i < hubCount; i++ {
		g.hubs = append(g.hubs, domain.ShippingHub{
			Code:       fmt.Sprintf("HUB_%d", i),
			Region:     "TestRegion",
			PostalCode: fmt.Sprintf("%06d", 100001+i),
			Zone:       domain.ZoneMetro,
		})
	}
	for i := 0; i < districtCount; i++ {
		g.districts = append(g.districts, domain.District{
			Code:        fmt.Sprintf("DISTRICT_%d", i),
			Region:      "TestRegion",
			Zone:        domain.ZoneMetro,
			PostalCodes: []string{fmt.Sprintf("%06d", 500001+i), fmt.Sprintf("%06d", 600001+i)},
		})
	}
	return g
}

func (g *fakeGeography) DistrictForPostalCode(code string) *domain.District {
	for i := range g.districts {
		for _, pc := range g.districts[i].PostalCodes {
			if pc == code {
				return &g.districts[i]
			}
		}
	}
	return nil
}

func (g *fakeGeography) NearestHub(postalCode, region string) *domain.ShippingHub {
	for i := range g.hubs {
		if g.hubs[i].Region == region {
			return &g.hubs[i]
		}
	}
	return nil
}

func (g *fakeGeography) Hubs() []domain.ShippingHub      { return g.hubs }
func (g *fakeGeography) AllDistricts() []domain.District { return g.districts }
