package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"
)

func record(hub, district string, covered []string, expiresIn time.Duration) *domain.DeliveryEstimate {
	now := time.Now()
	return &domain.DeliveryEstimate{
		OriginHub:           hub,
		DestinationDistrict: district,
		CoveredPostalCodes:  covered,
		Estimate:            domain.DayRange{MinDays: 2, MaxDays: 4, AverageDays: 3, Provider: "carrier-api"},
		Metadata: domain.Metadata{
			LastUpdatedAt:   now,
			ExpiresAt:       now.Add(expiresIn),
			ConfidenceScore: 0.9,
		},
	}
}

func TestFindByPostalCode(t *testing.T) {
	repo := NewMemoryEstimateRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, record("HUB_A", "DIST_1", []string{"560001", "560002"}, time.Hour)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Expired record covering the same pincode under another hub must
	// not match.
	if err := repo.Upsert(ctx, record("HUB_B", "DIST_1", []string{"560001"}, -time.Hour)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rec, err := repo.FindByPostalCode(ctx, "HUB_A", "560002")
	if err != nil {
		t.Fatalf("FindByPostalCode: %v", err)
	}
	if rec.DestinationDistrict != "DIST_1" {
		t.Errorf("district = %q, want DIST_1", rec.DestinationDistrict)
	}

	if _, err := repo.FindByPostalCode(ctx, "HUB_B", "560001"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expired record matched, err = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindByPostalCode(ctx, "HUB_A", "110001"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("uncovered pincode matched, err = %v, want ErrNotFound", err)
	}
}

func TestFindExpired(t *testing.T) {
	repo := NewMemoryEstimateRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, record("HUB_A", "DIST_1", []string{"560001"}, time.Hour)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, record("HUB_A", "DIST_2", []string{"570001"}, -time.Minute)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	expired, err := repo.FindExpired(ctx)
	if err != nil {
		t.Fatalf("FindExpired: %v", err)
	}
	if len(expired) != 1 || expired[0].DestinationDistrict != "DIST_2" {
		t.Errorf("expired = %+v, want only DIST_2", expired)
	}
}

func TestRefreshExtendsValidity(t *testing.T) {
	repo := NewMemoryEstimateRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, record("HUB_A", "DIST_1", []string{"560001"}, -time.Hour)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.Refresh(ctx, "HUB_A", "DIST_1", 7); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	rec, err := repo.Find(ctx, "HUB_A", "DIST_1")
	if err != nil {
		t.Fatalf("find after refresh: %v", err)
	}
	if !rec.Valid(time.Now().AddDate(0, 0, 6)) {
		t.Error("record should be valid for 7 days after refresh")
	}
	if rec.Metadata.APICallCount != 2 {
		t.Errorf("api call count = %d, want 2 after upsert+refresh", rec.Metadata.APICallCount)
	}

	if err := repo.Refresh(ctx, "HUB_A", "NO_SUCH_DISTRICT", 7); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("refresh of missing record err = %v, want ErrNotFound", err)
	}
}

func TestUpsertMergePreservesPerformance(t *testing.T) {
	repo := NewMemoryEstimateRepository()
	ctx := context.Background()

	first := record("HUB_A", "DIST_1", []string{"560001"}, time.Hour)
	first.Performance = &domain.Performance{DeliveryCount: 42, OnTimePercent: 96.5}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A merge without performance data must not erase the history.
	if err := repo.Upsert(ctx, record("HUB_A", "DIST_1", []string{"560001", "560002"}, time.Hour)); err != nil {
		t.Fatalf("merge upsert: %v", err)
	}

	rec, err := repo.Find(ctx, "HUB_A", "DIST_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.Performance == nil || rec.Performance.DeliveryCount != 42 {
		t.Errorf("performance = %+v, want preserved DeliveryCount 42", rec.Performance)
	}
	if rec.Metadata.APICallCount != 2 {
		t.Errorf("api call count = %d, want 2", rec.Metadata.APICallCount)
	}
}
