package ports

import (
	"context"
	"errors"
	"time"

	"delivery-estimate-service/internal/domain"
)

// ErrNotFound is returned when no record exists for a lookup key.
var ErrNotFound = errors.New("record not found")

// Port: boundary for the persistent delivery-estimate cache.
//
// Records are keyed by (origin hub, destination district). All writes
// are idempotent upserts by that composite key; concurrent writers to
// the same key resolve last-writer-wins, which is acceptable for an
// advisory cache.
type EstimateRepository interface {
	// Find returns the record for a route key, or ErrNotFound.
	Find(ctx context.Context, originHub, destDistrict string) (*domain.DeliveryEstimate, error)

	// FindByPostalCode returns an unexpired record for the origin hub
	// whose covered pincodes contain destPostalCode, or ErrNotFound.
	FindByPostalCode(ctx context.Context, originHub, destPostalCode string) (*domain.DeliveryEstimate, error)

	// FindExpired returns every record whose expiry has passed.
	FindExpired(ctx context.Context) ([]*domain.DeliveryEstimate, error)

	// Upsert creates or merges the record for rec's composite key.
	// The stored APICallCount is incremented additively; it is never
	// overwritten by the merged fields.
	Upsert(ctx context.Context, rec *domain.DeliveryEstimate) error

	// Refresh extends a record's expiry by validDays from now,
	// stamps LastUpdatedAt and increments APICallCount.
	Refresh(ctx context.Context, originHub, destDistrict string, validDays int) error

	// DeleteExpired removes all expired records and reports how many
	// were deleted.
	DeleteExpired(ctx context.Context) (int64, error)

	// Stats aggregates record counts, hit rate and mean estimate
	// quality as of now.
	Stats(ctx context.Context, now time.Time) (domain.CacheStats, error)

	// Close releases the underlying database handle.
	Close() error
}
