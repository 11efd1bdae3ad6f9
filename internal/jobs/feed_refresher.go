package jobs

import (
	"context"
	"log"
	"time"

	"peerlend/internal/services"
)

// FeedRefresher polls both on-chain proposal feeds and replaces the market
// snapshot. A failed poll leaves the previous snapshot serving.
type FeedRefresher struct {
	market *services.MarketService
	stop   chan struct{}
}

func NewFeedRefresher(market *services.MarketService) *FeedRefresher {
	return &FeedRefresher{
		market: market,
		stop:   make(chan struct{}),
	}
}

// Start begins the periodic feed refresh
func (j *FeedRefresher) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		ctx := context.Background()
		if err := j.market.Refresh(ctx); err != nil {
			log.Printf("Initial feed refresh error: %v", err)
		}

		// Then run periodically
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-j.stop:
				return
			case <-ticker.C:
				if err := j.market.Refresh(ctx); err != nil {
					log.Printf("Feed refresh error: %v", err)
				}
			}
		}
	}()
}

// Stop halts the refresh loop
func (j *FeedRefresher) Stop() {
	close(j.stop)
}
