package fetcher

import (
	"context"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
)

func pk(seed byte) solana.PublicKey {
	var b [32]byte
	b[0] = seed
	return solana.PublicKeyFromBytes(b[:])
}

func TestMemoryListPoolsPreservesOrderAndMisses(t *testing.T) {
	m := NewMemory()
	found := &domain.Pool{Address: pk(1), TickSpacing: 64}
	m.PutPool(found)

	results, err := m.ListPools(context.Background(), []solana.PublicKey{pk(1), pk(2)}, PreferCache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0] != found {
		t.Errorf("results[0] = %v, want the stored pool", results[0])
	}
	if results[1] != nil {
		t.Errorf("results[1] = %v, want nil for a miss", results[1])
	}
}

func TestMemoryGetPoolMiss(t *testing.T) {
	m := NewMemory()
	p, err := m.GetPool(context.Background(), pk(9), PreferCache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil pool for a miss, got %v", p)
	}
}

func TestBuildWalksSingleHop(t *testing.T) {
	sol, usdc := pk(1), pk(2)
	pool := pk(10)
	mints := map[solana.PublicKey]PoolMintPair{pool: {MintA: sol, MintB: usdc}}

	walks := BuildWalks(mints, 2)
	id := canonicalRouteID(sol, usdc)
	paths, ok := walks[id]
	if !ok || len(paths) != 1 || len(paths[0]) != 1 || !paths[0][0].Equals(pool) {
		t.Fatalf("expected a single one-hop path via %v, got %v", pool, paths)
	}
}

func TestBuildWalksTwoHop(t *testing.T) {
	sol, usdc, usdt := pk(1), pk(2), pk(3)
	poolA, poolB := pk(10), pk(11)
	mints := map[solana.PublicKey]PoolMintPair{
		poolA: {MintA: sol, MintB: usdt},
		poolB: {MintA: usdt, MintB: usdc},
	}

	walks := BuildWalks(mints, 2)
	id := canonicalRouteID(sol, usdc)
	paths, ok := walks[id]
	if !ok {
		t.Fatal("expected a route between sol and usdc")
	}
	foundTwoHop := false
	for _, p := range paths {
		if len(p) == 2 && p[0].Equals(poolA) && p[1].Equals(poolB) {
			foundTwoHop = true
		}
	}
	if !foundTwoHop {
		t.Errorf("expected a 2-hop path [poolA poolB], got %v", paths)
	}
}

func TestBuildWalksRespectsMaxHops(t *testing.T) {
	sol, usdc, usdt := pk(1), pk(2), pk(3)
	poolA, poolB := pk(10), pk(11)
	mints := map[solana.PublicKey]PoolMintPair{
		poolA: {MintA: sol, MintB: usdt},
		poolB: {MintA: usdt, MintB: usdc},
	}

	walks := BuildWalks(mints, 1)
	id := canonicalRouteID(sol, usdc)
	if _, ok := walks[id]; ok {
		t.Error("expected no route between sol and usdc when maxHops=1")
	}
}

// encodePoolAccount builds raw account bytes in the same field order as
// accountPool, for round-tripping DecodePool without a live account.
func encodePoolAccount(mintA, mintB, vaultA, vaultB solana.PublicKey, tickSpacing, feeRate uint16, tickCurrent int32, sqrtPrice, liquidity *big.Int) []byte {
	var buf []byte
	buf = append(buf, mintA[:]...)
	buf = append(buf, mintB[:]...)
	buf = append(buf, vaultA[:]...)
	buf = append(buf, vaultB[:]...)

	u16 := make([]byte, 2)
	binary.LittleEndian.PutUint16(u16, tickSpacing)
	buf = append(buf, u16...)
	binary.LittleEndian.PutUint16(u16, feeRate)
	buf = append(buf, u16...)

	i32 := make([]byte, 4)
	binary.LittleEndian.PutUint32(i32, uint32(tickCurrent))
	buf = append(buf, i32...)

	buf = append(buf, le128(sqrtPrice)...)
	buf = append(buf, le128(liquidity)...)
	return buf
}

func le128(v *big.Int) []byte {
	be := v.FillBytes(make([]byte, 16))
	out := make([]byte, 16)
	for i, b := range be {
		out[15-i] = b
	}
	return out
}

func TestDecodePoolRoundTrip(t *testing.T) {
	mintA, mintB := pk(1), pk(2)
	vaultA, vaultB := pk(3), pk(4)
	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 64)
	liquidity := big.NewInt(123456789)

	raw := encodePoolAccount(mintA, mintB, vaultA, vaultB, 64, 3000, -128, sqrtPrice, liquidity)
	// Prepend a discriminator, as a real Anchor account would carry.
	raw = append(make([]byte, 8), raw...)

	address := pk(99)
	pool, err := DecodePool(address, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pool.Address.Equals(address) {
		t.Errorf("address = %v, want %v", pool.Address, address)
	}
	if !pool.TokenMintA.Equals(mintA) || !pool.TokenMintB.Equals(mintB) {
		t.Errorf("mints = (%v, %v), want (%v, %v)", pool.TokenMintA, pool.TokenMintB, mintA, mintB)
	}
	if pool.TickSpacing != 64 || pool.FeeRate != 3000 || pool.TickCurrentIndex != -128 {
		t.Errorf("got tickSpacing=%d feeRate=%d tick=%d", pool.TickSpacing, pool.FeeRate, pool.TickCurrentIndex)
	}
	if pool.SqrtPrice.Cmp(sqrtPrice) != 0 {
		t.Errorf("sqrtPrice = %v, want %v", pool.SqrtPrice, sqrtPrice)
	}
	if pool.Liquidity.Cmp(liquidity) != 0 {
		t.Errorf("liquidity = %v, want %v", pool.Liquidity, liquidity)
	}
}

func TestDecodeTickArrayRoundTrip(t *testing.T) {
	var buf []byte
	i32 := make([]byte, 4)
	binary.LittleEndian.PutUint32(i32, uint32(int32(-1408)))
	buf = append(buf, i32...)

	for i := 0; i < domain.TickArraySize; i++ {
		if i == 5 {
			buf = append(buf, 1)
			buf = append(buf, le128(big.NewInt(-42))...)
			continue
		}
		buf = append(buf, 0)
		buf = append(buf, make([]byte, 16)...)
	}

	pool := pk(7)
	arr, err := DecodeTickArray(pool, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arr.StartTickIndex != -1408 {
		t.Errorf("StartTickIndex = %d, want -1408", arr.StartTickIndex)
	}
	if !arr.Ticks[5].Initialized || arr.Ticks[5].LiquidityNet.Cmp(big.NewInt(-42)) != 0 {
		t.Errorf("Ticks[5] = %+v, want initialized with liquidityNet -42", arr.Ticks[5])
	}
	if arr.Ticks[0].Initialized {
		t.Error("Ticks[0] should be uninitialized")
	}
}

func TestLeSignedNegative(t *testing.T) {
	negOne := make([]byte, 16)
	for i := range negOne {
		negOne[i] = 0xFF
	}
	got := leSigned(negOne)
	if got.Cmp(big.NewInt(-1)) != 0 {
		t.Errorf("leSigned(all-0xFF) = %v, want -1", got)
	}
}
