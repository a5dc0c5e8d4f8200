package carrier

import (
	"context"
	"sync"
	"time"

	"delivery-estimate-service/internal/domain"
)

const (
	batchChunkSize  = 10
	batchChunkDelay = 100 * time.Millisecond
)

// BatchEstimate resolves many routes against the carrier API.
//
// Routes are partitioned into chunks of 10; members of a chunk are
// issued concurrently and all of them are awaited before the next
// chunk starts, so outbound concurrency is bounded by the chunk size.
// Every input route yields exactly one outcome; a member failure is
// captured in its outcome, never allowed to abort the batch. A 100ms
// pause separates consecutive chunks.
//
// Outcome order within a chunk is not contractual; consumers key
// results by route.
func (c *Client) BatchEstimate(ctx context.Context, routes []domain.Route) []domain.EstimateOutcome {
	outcomes := make([]domain.EstimateOutcome, len(routes))

	for start := 0; start < len(routes); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(routes) {
			end = len(routes)
		}
		chunk := routes[start:end]

		var wg sync.WaitGroup
		for i, route := range chunk {
			wg.Add(1)
			go func(slot int, route domain.Route) {
				defer wg.Done()

				out := c.Estimate(ctx, domain.EstimateRequest{
					OriginPostalCode:      route.OriginPostalCode,
					DestinationPostalCode: route.DestinationPostalCode,
				})
				out.Route = route
				outcomes[start+slot] = out
			}(i, route)
		}
		wg.Wait()

		if end < len(routes) {
			select {
			case <-ctx.Done():
				// Remaining routes are reported as canceled rather
				// than silently dropped.
				for i := end; i < len(routes); i++ {
					outcomes[i] = failedOutcome(routes[i], ctx.Err().Error())
				}
				return outcomes
			case <-c.clock.After(batchChunkDelay):
			}
		}
	}

	return outcomes
}
