package carrier

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/domain"

	"github.com/zoobzio/clockz"
)

func routesForTest(n int) []domain.Route {
	routes := make([]domain.Route, 0, n)
	for i := 0; i < n; i++ {
		routes = append(routes, domain.Route{
			OriginHub:             "MUMBAI_400001",
			DestinationDistrict:   "BANGALORE_URBAN",
			OriginPostalCode:      "400001",
			DestinationPostalCode: "560001",
		})
	}
	return routes
}

func TestBatchEstimateReturnsOneOutcomePerRoute(t *testing.T) {
	client := NewClient(config.CarrierConfig{})

	routes := routesForTest(7)
	// A deliberately unanswerable route must produce a failure entry,
	// not abort or shrink the batch.
	routes[3].DestinationPostalCode = "bad-pincode"
	routes[3].DestinationDistrict = "BROKEN"

	outcomes := client.BatchEstimate(context.Background(), routes)

	if len(outcomes) != len(routes) {
		t.Fatalf("got %d outcomes for %d routes", len(outcomes), len(routes))
	}

	// Compare by route key, not by index: intra-chunk ordering is not
	// part of the contract.
	byKey := make(map[string][]domain.EstimateOutcome)
	for _, o := range outcomes {
		byKey[o.Route.Key()] = append(byKey[o.Route.Key()], o)
	}

	broken := byKey["MUMBAI_400001|BROKEN"]
	if len(broken) != 1 {
		t.Fatalf("expected 1 outcome for the failing route, got %d", len(broken))
	}
	if broken[0].OK {
		t.Error("failing route reported OK")
	}

	good := byKey["MUMBAI_400001|BANGALORE_URBAN"]
	if len(good) != 6 {
		t.Fatalf("expected 6 outcomes for the good route key, got %d", len(good))
	}
	for _, o := range good {
		if !o.OK || o.Source != domain.SourceFallback {
			t.Errorf("unconfigured client outcome = %+v, want OK fallback", o)
		}
	}
}

func TestBatchEstimatePausesBetweenChunks(t *testing.T) {
	clock := clockz.NewFakeClock()
	client := NewClient(config.CarrierConfig{}).WithClock(clock)

	// 25 routes at chunk size 10: two inter-chunk pauses expected.
	routes := routesForTest(25)

	var done atomic.Bool
	var outcomes []domain.EstimateOutcome
	finished := make(chan struct{})
	go func() {
		outcomes = client.BatchEstimate(context.Background(), routes)
		done.Store(true)
		close(finished)
	}()

	// Let the first chunk resolve; the batch must be parked on the
	// fake clock, not complete.
	time.Sleep(20 * time.Millisecond)
	if done.Load() {
		t.Fatal("batch finished without waiting for the inter-chunk delay")
	}

	clock.Advance(batchChunkDelay)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)
	if done.Load() {
		t.Fatal("batch finished after one pause, want two")
	}

	clock.Advance(batchChunkDelay)
	clock.BlockUntilReady()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("batch did not finish after advancing the clock")
	}

	if len(outcomes) != len(routes) {
		t.Fatalf("got %d outcomes for %d routes", len(outcomes), len(routes))
	}
}

func TestBatchEstimateCancellationFailsRemainingRoutes(t *testing.T) {
	clock := clockz.NewFakeClock()
	client := NewClient(config.CarrierConfig{}).WithClock(clock)

	ctx, cancel := context.WithCancel(context.Background())

	routes := routesForTest(15)
	finished := make(chan []domain.EstimateOutcome, 1)
	go func() {
		finished <- client.BatchEstimate(ctx, routes)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	var outcomes []domain.EstimateOutcome
	select {
	case outcomes = <-finished:
	case <-time.After(time.Second):
		t.Fatal("batch did not return after cancellation")
	}

	if len(outcomes) != len(routes) {
		t.Fatalf("got %d outcomes for %d routes", len(outcomes), len(routes))
	}

	var failed int
	for _, o := range outcomes {
		if !o.OK {
			failed++
		}
	}
	if failed != 5 {
		t.Errorf("failed outcomes = %d, want the 5 routes of the unreached chunk", failed)
	}
}
