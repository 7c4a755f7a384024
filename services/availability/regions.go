package availability

import (
	"context"
	"log"
	"time"

	"mediascout/models"
)

// regionPacingInterval is the mandatory delay between regions. The scraped
// sites rate-limit by source IP; concurrent region fan-out gets the process
// blocked, so latency is traded for success rate.
const regionPacingInterval = 1000 * time.Millisecond

// Pacer injects the inter-region delay. Tests substitute a fake to assert the
// schedule without waiting it out.
type Pacer interface {
	Pace(ctx context.Context, d time.Duration)
}

type sleepPacer struct{}

func (sleepPacer) Pace(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// RegionIterator repeats availability aggregation once per region, strictly
// sequentially. Within a region the aggregator's own concurrency applies;
// across regions execution waits for full completion plus the pacing delay.
type RegionIterator struct {
	agg      *Aggregator
	regions  []string
	interval time.Duration
	pacer    Pacer
}

func NewRegionIterator(agg *Aggregator, regions []string) *RegionIterator {
	return &RegionIterator{
		agg:      agg,
		regions:  regions,
		interval: regionPacingInterval,
		pacer:    sleepPacer{},
	}
}

// Run aggregates every configured region. requestFor builds the per-region
// aggregation request. A region that panics or returns nothing is recorded
// with empty availability; the remaining regions always run.
func (it *RegionIterator) Run(ctx context.Context, requestFor func(region string) Request) models.RegionalAvailability {
	out := make(models.RegionalAvailability, len(it.regions))

	for i, region := range it.regions {
		out[region] = it.runRegion(ctx, region, requestFor)

		if i < len(it.regions)-1 {
			it.pacer.Pace(ctx, it.interval)
		}
	}
	return out
}

func (it *RegionIterator) runRegion(ctx context.Context, region string, requestFor func(region string) Request) (set models.AvailabilitySet) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[availability] region %s aggregation panicked: %v", region, r)
			set = BuildSet()
		}
	}()
	return it.agg.Aggregate(ctx, requestFor(region))
}
