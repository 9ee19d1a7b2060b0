// Package fetcher defines the account-fetcher boundary the core
// quoting and routing packages depend on (spec §6), plus a pure
// in-memory implementation suitable for tests and for wiring a
// preloaded snapshot into the HTTP layer.
//
// Production account fetching (RPC round-trips, caching policy,
// websocket account subscriptions) is an external collaborator per
// spec §1/§9; this package only fixes the shape of that boundary and
// its account-decoding helper.
package fetcher

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
)

// CacheMode selects how a fetch may be satisfied.
type CacheMode int

const (
	// PreferCache returns a cached value when present, only fetching on
	// a miss.
	PreferCache CacheMode = iota
	// ForceRefresh always fetches, bypassing any cache.
	ForceRefresh
)

// PoolFetcher resolves pool addresses to pool state. A missing pool is
// a nil entry at the corresponding slot, not an error; batch order is
// preserved so result indices line up with the request.
type PoolFetcher interface {
	ListPools(ctx context.Context, addresses []solana.PublicKey, mode CacheMode) ([]*domain.Pool, error)
	GetPool(ctx context.Context, address solana.PublicKey, mode CacheMode) (*domain.Pool, error)
}

// TickArrayFetcher resolves tick-array addresses to tick-array state,
// under the same missing-entry convention as PoolFetcher.
type TickArrayFetcher interface {
	ListTickArrays(ctx context.Context, addresses []solana.PublicKey, mode CacheMode) ([]*domain.TickArray, error)
}

// Fetcher is the full boundary the router and liquidity services
// depend on.
type Fetcher interface {
	PoolFetcher
	TickArrayFetcher
}
