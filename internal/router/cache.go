package router

import (
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
)

// FNV-1a constants for zero-allocation cache-key hashing.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

type poolQuoteKey uint64

// makePoolQuoteKey hashes a (pool, amount, direction) quote request
// into a single uint64 key, avoiding a string allocation per lookup.
func makePoolQuoteKey(pool solana.PublicKey, amount *big.Int, aToB, exactIn bool) poolQuoteKey {
	h := uint64(fnvOffset64)
	for _, b := range pool {
		h ^= uint64(b)
		h *= fnvPrime64
	}
	if amount != nil {
		if amount.IsUint64() {
			v := amount.Uint64()
			for i := 0; i < 8; i++ {
				h ^= (v >> (i * 8)) & 0xFF
				h *= fnvPrime64
			}
		} else {
			for _, b := range amount.Bytes() {
				h ^= uint64(b)
				h *= fnvPrime64
			}
		}
	}
	var flags uint64
	if aToB {
		flags |= 1
	}
	if exactIn {
		flags |= 2
	}
	h ^= flags
	h *= fnvPrime64
	return poolQuoteKey(h)
}

// requestScopedCache deduplicates identical (pool, amount, direction)
// quote requests within a single FindBestRoutes call — the same
// percent-of-amount frequently recurs across sibling routes sharing a
// pool.
type requestScopedCache struct {
	mu     sync.RWMutex
	quotes map[poolQuoteKey]*domain.SwapQuote
}

func newRequestScopedCache() *requestScopedCache {
	return &requestScopedCache{quotes: make(map[poolQuoteKey]*domain.SwapQuote, 32)}
}

func (c *requestScopedCache) Get(pool solana.PublicKey, amount *big.Int, aToB, exactIn bool) (*domain.SwapQuote, bool) {
	key := makePoolQuoteKey(pool, amount, aToB, exactIn)
	c.mu.RLock()
	q, ok := c.quotes[key]
	c.mu.RUnlock()
	return q, ok
}

func (c *requestScopedCache) Set(pool solana.PublicKey, amount *big.Int, aToB, exactIn bool, quote *domain.SwapQuote) {
	key := makePoolQuoteKey(pool, amount, aToB, exactIn)
	c.mu.Lock()
	c.quotes[key] = quote
	c.mu.Unlock()
}
