package repositories

import (
	"context"
	"sync"
	"time"

	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"
)

// MemoryEstimateRepository is an in-memory EstimateRepository used by
// tests. It mirrors the upsert semantics of the persistent adapters,
// including the additive call-count increment.
type MemoryEstimateRepository struct {
	mu      sync.Mutex
	records map[string]*domain.DeliveryEstimate

	// FailUpserts forces Upsert to fail, for exercising the
	// degraded-write path.
	FailUpserts bool
}

func NewMemoryEstimateRepository() *MemoryEstimateRepository {
	return &MemoryEstimateRepository{records: make(map[string]*domain.DeliveryEstimate)}
}

func (r *MemoryEstimateRepository) Close() error { return nil }

func key(originHub, destDistrict string) string {
	return originHub + "|" + destDistrict
}

func clone(rec *domain.DeliveryEstimate) *domain.DeliveryEstimate {
	out := *rec
	out.CoveredPostalCodes = append([]string(nil), rec.CoveredPostalCodes...)
	if rec.Performance != nil {
		perf := *rec.Performance
		out.Performance = &perf
	}
	return &out
}

func (r *MemoryEstimateRepository) Find(_ context.Context, originHub, destDistrict string) (*domain.DeliveryEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key(originHub, destDistrict)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(rec), nil
}

func (r *MemoryEstimateRepository) FindByPostalCode(_ context.Context, originHub, destPostalCode string) (*domain.DeliveryEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, rec := range r.records {
		if rec.OriginHub == originHub && rec.Valid(now) && rec.CoversPostalCode(destPostalCode) {
			return clone(rec), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *MemoryEstimateRepository) FindExpired(_ context.Context) ([]*domain.DeliveryEstimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	out := make([]*domain.DeliveryEstimate, 0, 4)
	for _, rec := range r.records {
		if !rec.Valid(now) {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

func (r *MemoryEstimateRepository) Upsert(_ context.Context, rec *domain.DeliveryEstimate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpserts {
		return errStoreUnavailable
	}

	k := key(rec.OriginHub, rec.DestinationDistrict)
	stored := clone(rec)
	if prev, ok := r.records[k]; ok {
		stored.Metadata.APICallCount = prev.Metadata.APICallCount + 1
		if stored.Performance == nil && prev.Performance != nil {
			perf := *prev.Performance
			stored.Performance = &perf
		}
	} else {
		stored.Metadata.APICallCount = 1
	}
	r.records[k] = stored

	return nil
}

func (r *MemoryEstimateRepository) Refresh(_ context.Context, originHub, destDistrict string, validDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key(originHub, destDistrict)]
	if !ok {
		return ports.ErrNotFound
	}

	now := time.Now()
	rec.Metadata.LastUpdatedAt = now
	rec.Metadata.ExpiresAt = now.AddDate(0, 0, validDays)
	rec.Metadata.APICallCount++

	return nil
}

func (r *MemoryEstimateRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var deleted int64
	for k, rec := range r.records {
		if !rec.Valid(now) {
			delete(r.records, k)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryEstimateRepository) Stats(_ context.Context, now time.Time) (domain.CacheStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats domain.CacheStats
	var confSum, daySum float64
	for _, rec := range r.records {
		stats.Total++
		if rec.Valid(now) {
			stats.Valid++
		}
		confSum += rec.Metadata.ConfidenceScore
		daySum += float64(rec.Estimate.AverageDays)
	}

	stats.Expired = stats.Total - stats.Valid
	if stats.Total > 0 {
		stats.HitRate = float64(stats.Valid) / float64(stats.Total)
		stats.AvgConfidence = confSum / float64(stats.Total)
		stats.AvgDays = daySum / float64(stats.Total)
	}

	return stats, nil
}
