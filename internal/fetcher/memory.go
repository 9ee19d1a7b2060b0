package fetcher

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
)

// Memory is an in-memory Fetcher backed by a snapshot of pools and
// tick arrays. It never actually misses the cache (there is nothing
// behind it to refresh from), so CacheMode is accepted but has no
// effect; it exists purely to satisfy the Fetcher boundary for tests
// and for serving a preloaded snapshot over HTTP.
type Memory struct {
	mu         sync.RWMutex
	pools      map[solana.PublicKey]*domain.Pool
	tickArrays map[solana.PublicKey]*domain.TickArray
}

// NewMemory builds an empty snapshot.
func NewMemory() *Memory {
	return &Memory{
		pools:      make(map[solana.PublicKey]*domain.Pool),
		tickArrays: make(map[solana.PublicKey]*domain.TickArray),
	}
}

// PutPool inserts or replaces a pool in the snapshot.
func (m *Memory) PutPool(p *domain.Pool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[p.Address] = p
}

// PutTickArray inserts or replaces a tick array in the snapshot.
func (m *Memory) PutTickArray(addr solana.PublicKey, a *domain.TickArray) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickArrays[addr] = a
}

func (m *Memory) ListPools(ctx context.Context, addresses []solana.PublicKey, mode CacheMode) ([]*domain.Pool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Pool, len(addresses))
	for i, addr := range addresses {
		out[i] = m.pools[addr]
	}
	return out, nil
}

func (m *Memory) GetPool(ctx context.Context, address solana.PublicKey, mode CacheMode) (*domain.Pool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pools[address], nil
}

func (m *Memory) ListTickArrays(ctx context.Context, addresses []solana.PublicKey, mode CacheMode) ([]*domain.TickArray, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.TickArray, len(addresses))
	for i, addr := range addresses {
		out[i] = m.tickArrays[addr]
	}
	return out, nil
}
