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

	"github.com/zoobzio/clockz"
)

const (
	jobChunkSize  = 50
	jobChunkDelay = 200 * time.Millisecond

	// refreshConfidence is the work-list bar: records below it are
	// re-fetched. skipConfidence is the bulk-update bar: records above
	// it are left untouched. The two thresholds are deliberately
	// distinct ("needs checking" vs "good enough to skip"); do not
	// unify them without product sign-off.
	refreshConfidence = 0.7
	skipConfidence    = 0.8

	defaultConfidence = 0.9
)

// RunSummary accumulates the counters of one reconciliation run.
// Partial failures only move counters; they never abort the run.
type RunSummary struct {
	Total    int
	Updated  int
	Failed   int
	Skipped  int
	Duration time.Duration
}

func (s RunSummary) pct(n int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(s.Total)
}

// String renders the human-readable run summary.
func (s RunSummary) String() string {
	return fmt.Sprintf(
		"total=%d updated=%d (%.1f%%) failed=%d (%.1f%%) skipped=%d (%.1f%%) dur=%s",
		s.Total, s.Updated, s.pct(s.Updated), s.Failed, s.pct(s.Failed),
		s.Skipped, s.pct(s.Skipped), s.Duration.Round(time.Millisecond),
	)
}

// RouteEstimate is one pre-fetched lane estimate consumed by
// BulkUpdate when a run is driven from existing data instead of live
// carrier calls.
type RouteEstimate struct {
	Route              domain.Route
	Days               domain.DayRange
	Logistics          domain.Logistics
	Confidence         float64
	CoveredPostalCodes []string
}

// Reconciler walks the full hub x district route space and refreshes
// stale cache records in bounded, rate-limited batches.
//
// The core algorithm (enumerate -> filter -> batch -> upsert) is a
// plain callable; scheduling lives in Scheduler so runs are testable
// without a real clock.
type Reconciler struct {
	Geo     Geography
	Repo    ports.EstimateRepository
	Carrier ports.CarrierClient
	Clock   clockz.Clock
}

func NewReconciler(idx Geography, repo ports.EstimateRepository, carrier ports.CarrierClient) *Reconciler {
	return &Reconciler{Geo: idx, Repo: repo, Carrier: carrier, Clock: clockz.RealClock}
}

// WithClock sets a custom clock for testing chunk pacing.
func (r *Reconciler) WithClock(clock clockz.Clock) *Reconciler {
	r.Clock = clock
	return r
}

// enumerateRoutes builds the cartesian product of all hubs and all
// districts across every region.
func (r *Reconciler) enumerateRoutes() []domain.Route {
	hubs := r.Geo.Hubs()
	districts := r.Geo.AllDistricts()

	routes := make([]domain.Route, 0, len(hubs)*len(districts))
	for _, hub := range hubs {
		for _, district := range districts {
			routes = append(routes, domain.Route{
				OriginHub:             hub.Code,
				DestinationDistrict:   district.Code,
				OriginPostalCode:      hub.PostalCode,
				DestinationPostalCode: district.PostalCodes[0],
			})
		}
	}
	return routes
}

// needsRefresh decides work-list membership for one route: no record,
// an expired record, or confidence below the refresh bar.
func (r *Reconciler) needsRefresh(ctx context.Context, route domain.Route, now time.Time) (bool, error) {
	rec, err := r.Repo.Find(ctx, route.OriginHub, route.DestinationDistrict)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return true, nil
		}
		return false, err
	}

	if !rec.Valid(now) {
		return true, nil
	}
	if rec.Metadata.ConfidenceScore < refreshConfidence {
		return true, nil
	}
	return false, nil
}

// Run executes one full reconciliation pass.
//
// Only repository unavailability is fatal; every carrier failure is a
// counter. Chunks are processed strictly sequentially with a 200ms
// pause between them, outer pacing on top of the carrier client's
// own intra-batch delay.
func (r *Reconciler) Run(ctx context.Context) (_ RunSummary, err error) {
	runID := fmt.Sprintf("reconcile-%d", r.Clock.Now().UnixNano())
	ctx = obs.WithRunID(ctx, runID)
	defer obs.Time(ctx, "reconcile.run")(&err)

	start := time.Now()
	now := time.Now()

	routes := r.enumerateRoutes()
	summary := RunSummary{Total: len(routes)}

	districtsByCode := make(map[string]domain.District)
	for _, d := range r.Geo.AllDistricts() {
		districtsByCode[d.Code] = d
	}

	worklist := make([]domain.Route, 0, len(routes))
	for _, route := range routes {
		include, ferr := r.needsRefresh(ctx, route, now)
		if ferr != nil {
			return RunSummary{}, fmt.Errorf("reconcile: filter route %s: %w", route.Key(), ferr)
		}
		if include {
			worklist = append(worklist, route)
		} else {
			summary.Skipped++
		}
	}

	log.Printf("reconcile start id=%s routes=%d worklist=%d", runID, len(routes), len(worklist))

	for chunkStart := 0; chunkStart < len(worklist); chunkStart += jobChunkSize {
		chunkEnd := chunkStart + jobChunkSize
		if chunkEnd > len(worklist) {
			chunkEnd = len(worklist)
		}
		chunk := worklist[chunkStart:chunkEnd]

		outcomes := r.Carrier.BatchEstimate(ctx, chunk)
		for _, outcome := range outcomes {
			if !outcome.OK {
				summary.Failed++
				continue
			}
			if uerr := r.upsertOutcome(ctx, outcome, districtsByCode); uerr != nil {
				log.Printf("reconcile upsert failed route=%s err=%v", outcome.Route.Key(), uerr)
				summary.Failed++
				continue
			}
			summary.Updated++
		}

		if chunkEnd < len(worklist) {
			select {
			case <-ctx.Done():
				summary.Failed += len(worklist) - chunkEnd
				summary.Duration = time.Since(start)
				log.Printf("reconcile canceled id=%s %s", runID, summary)
				return summary, nil
			case <-r.Clock.After(jobChunkDelay):
			}
		}
	}

	summary.Duration = time.Since(start)
	log.Printf("reconcile complete id=%s %s", runID, summary)
	return summary, nil
}

// upsertOutcome persists one successful carrier outcome with a fresh
// validity window. Reconciliation widens coverage to the district's
// full pincode sample.
func (r *Reconciler) upsertOutcome(
	ctx context.Context,
	outcome domain.EstimateOutcome,
	districtsByCode map[string]domain.District,
) error {
	now := time.Now()

	confidence := outcome.Confidence
	if confidence <= 0 {
		confidence = defaultConfidence
	}

	covered := []string{outcome.Route.DestinationPostalCode}
	if district, ok := districtsByCode[outcome.Route.DestinationDistrict]; ok {
		covered = append([]string(nil), district.PostalCodes...)
	}

	rec := &domain.DeliveryEstimate{
		OriginHub:           outcome.Route.OriginHub,
		DestinationDistrict: outcome.Route.DestinationDistrict,
		CoveredPostalCodes:  covered,
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
			ConfidenceScore: confidence,
		},
	}

	return r.Repo.Upsert(ctx, rec)
}

// BulkUpdate applies pre-fetched route estimates without touching the
// carrier. Routes whose current record is still valid with confidence
// above the skip bar are counted as skipped and left unmodified.
func (r *Reconciler) BulkUpdate(ctx context.Context, items []RouteEstimate) (RunSummary, error) {
	start := time.Now()
	now := time.Now()
	summary := RunSummary{Total: len(items)}

	for _, item := range items {
		rec, err := r.Repo.Find(ctx, item.Route.OriginHub, item.Route.DestinationDistrict)
		if err == nil && rec.Valid(now) && rec.Metadata.ConfidenceScore > skipConfidence {
			summary.Skipped++
			continue
		}
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return RunSummary{}, fmt.Errorf("bulk update: read route %s: %w", item.Route.Key(), err)
		}

		confidence := item.Confidence
		if confidence <= 0 {
			confidence = defaultConfidence
		}

		covered := item.CoveredPostalCodes
		if len(covered) == 0 {
			covered = []string{item.Route.DestinationPostalCode}
		}

		update := &domain.DeliveryEstimate{
			OriginHub:           item.Route.OriginHub,
			DestinationDistrict: item.Route.DestinationDistrict,
			CoveredPostalCodes:  covered,
			Estimate:            item.Days,
			Logistics:           item.Logistics,
			Metadata: domain.Metadata{
				LastUpdatedAt:   now,
				ExpiresAt:       now.AddDate(0, 0, estimateValidDays),
				ConfidenceScore: confidence,
			},
		}

		if uerr := r.Repo.Upsert(ctx, update); uerr != nil {
			log.Printf("bulk update upsert failed route=%s err=%v", item.Route.Key(), uerr)
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	summary.Duration = time.Since(start)
	log.Printf("bulk update complete %s", summary)
	return summary, nil
}
