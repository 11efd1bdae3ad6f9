package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

const coingeckoSimplePriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum,starknet&vs_currencies=usd"

// Prices holds the USD spot prices the dashboard displays.
type Prices struct {
	Eth  float64 `json:"eth"`
	Strk float64 `json:"strk"`
}

// PriceCache is the explicit cached value plus its fetch time; the staleness
// rule lives in the service's TTL, not in a module-level variable, so it can
// be tested directly.
type PriceCache struct {
	Value     Prices
	FetchedAt time.Time
}

// PriceService fetches ETH/STRK prices from CoinGecko with client-side
// caching. Stale reads refetch; on fetch failure the last cached value is
// served.
type PriceService struct {
	mu    sync.RWMutex
	cache PriceCache
	ttl   time.Duration

	now    func() time.Time
	client *http.Client
	url    string
}

// NewPriceService creates a new PriceService with the given cache TTL.
func NewPriceService(ttl time.Duration) *PriceService {
	return &PriceService{
		ttl:    ttl,
		now:    time.Now,
		client: &http.Client{Timeout: 10 * time.Second},
		url:    coingeckoSimplePriceURL,
	}
}

// GetCryptoPrices returns the current prices, hitting CoinGecko only when
// the cache is older than the TTL.
func (ps *PriceService) GetCryptoPrices(ctx context.Context) (Prices, error) {
	ps.mu.RLock()
	cache := ps.cache
	ps.mu.RUnlock()

	if !cache.FetchedAt.IsZero() && ps.now().Sub(cache.FetchedAt) < ps.ttl {
		return cache.Value, nil
	}

	fresh, err := ps.fetch(ctx)
	if err != nil {
		if !cache.FetchedAt.IsZero() {
			log.Printf("[Price] Fetch failed, serving cached prices: %v", err)
			return cache.Value, nil
		}
		return Prices{}, err
	}

	ps.mu.Lock()
	ps.cache = PriceCache{Value: fresh, FetchedAt: ps.now()}
	ps.mu.Unlock()

	return fresh, nil
}

func (ps *PriceService) fetch(ctx context.Context) (Prices, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", ps.url, nil)
	if err != nil {
		return Prices{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := ps.client.Do(req)
	if err != nil {
		return Prices{}, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Prices{}, fmt.Errorf("unexpected status %d from price feed", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prices{}, fmt.Errorf("failed to read response: %w", err)
	}

	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Prices{}, fmt.Errorf("failed to unmarshal prices: %w", err)
	}

	return Prices{
		Eth:  payload["ethereum"].USD,
		Strk: payload["starknet"].USD,
	}, nil
}
