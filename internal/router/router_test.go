package router

import (
	"context"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fetcher"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
	"github.com/hxuan190/clamm-core/internal/swapquote"
)

func pk(seed byte) solana.PublicKey {
	var b [32]byte
	b[0] = seed
	return solana.PublicKeyFromBytes(b[:])
}

// linearQuoter simulates a pool with a fixed fee rate in ppm and no
// price impact, so route-ranking behaviour is deterministic and easy
// to assert on.
func linearQuoter(feeRatePpm map[solana.PublicKey]int64) QuoterFunc {
	return func(ctx context.Context, pool solana.PublicKey, amount *big.Int, aToB, exactIn bool) (*domain.SwapQuote, error) {
		fee := feeRatePpm[pool]
		feeAmount := new(big.Int).Div(new(big.Int).Mul(amount, big.NewInt(fee)), big.NewInt(1_000_000))
		out := new(big.Int).Sub(amount, feeAmount)
		return &domain.SwapQuote{
			EstimatedAmountIn:  new(big.Int).Set(amount),
			EstimatedAmountOut: out,
			EstimatedFeeAmount: feeAmount,
		}, nil
	}
}

func TestFindBestRoutesSingleHopExactIn(t *testing.T) {
	inputMint := pk(1)
	outputMint := pk(2)
	poolCheap := pk(10)
	poolExpensive := pk(11)

	pools := map[solana.PublicKey]PoolMints{
		poolCheap:     {MintA: inputMint, MintB: outputMint},
		poolExpensive: {MintA: inputMint, MintB: outputMint},
	}
	quoter := linearQuoter(map[solana.PublicKey]int64{
		poolCheap:     1000,  // 0.1%
		poolExpensive: 30000, // 3%
	})

	results, err := FindBestRoutes(context.Background(), Params{
		InputMint:              inputMint,
		OutputMint:              outputMint,
		TradeAmount:             1_000_000,
		AmountSpecifiedIsInput:  true,
		Routes:                  [][]solana.PublicKey{{poolCheap}, {poolExpensive}},
		Pools:                   pools,
		Quoter:                  quoter,
		Options:                 DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one split result")
	}
	best := results[0]
	if best.Percent() != 100 {
		t.Errorf("best result percent = %d, want 100", best.Percent())
	}
	if len(best.Quotes) != 1 || best.Quotes[0].Route[0] != poolCheap {
		t.Errorf("expected the cheap pool alone to win, got %+v", best.Quotes)
	}
	for _, r := range results {
		if r.Percent() != 100 {
			t.Errorf("split result percents sum to %d, want 100", r.Percent())
		}
	}
}

func TestFindBestRoutesTwoHop(t *testing.T) {
	inputMint := pk(1)
	midMint := pk(3)
	outputMint := pk(2)
	poolA := pk(20)
	poolB := pk(21)

	pools := map[solana.PublicKey]PoolMints{
		poolA: {MintA: inputMint, MintB: midMint},
		poolB: {MintA: midMint, MintB: outputMint},
	}
	quoter := linearQuoter(map[solana.PublicKey]int64{poolA: 3000, poolB: 3000})

	results, err := FindBestRoutes(context.Background(), Params{
		InputMint:              inputMint,
		OutputMint:              outputMint,
		TradeAmount:             500_000,
		AmountSpecifiedIsInput:  true,
		Routes:                  [][]solana.PublicKey{{poolA, poolB}},
		Pools:                   pools,
		Quoter:                  quoter,
		Options:                 DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected a two-hop split result")
	}
	if len(results[0].Quotes[0].Hops) != 2 {
		t.Errorf("expected 2 hops, got %d", len(results[0].Quotes[0].Hops))
	}
}

func TestFindBestRoutesExactOut(t *testing.T) {
	inputMint := pk(1)
	outputMint := pk(2)
	pool := pk(30)
	pools := map[solana.PublicKey]PoolMints{pool: {MintA: inputMint, MintB: outputMint}}
	quoter := linearQuoter(map[solana.PublicKey]int64{pool: 3000})

	results, err := FindBestRoutes(context.Background(), Params{
		InputMint:              inputMint,
		OutputMint:              outputMint,
		TradeAmount:             100_000,
		AmountSpecifiedIsInput:  false,
		Routes:                  [][]solana.PublicKey{{pool}},
		Pools:                   pools,
		Quoter:                  quoter,
		Options:                 DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected a result")
	}
}

func TestFindBestRoutesNoRoutes(t *testing.T) {
	results, err := FindBestRoutes(context.Background(), Params{
		TradeAmount: 100,
		Routes:      nil,
		Quoter:      linearQuoter(nil),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Error("expected nil results for no candidate routes")
	}
}

// flatPool builds a pool with a flat tick-array window wide enough
// that a trade never crosses out of liquidity range, plus the addresses
// its tick arrays were stored under in mem.
func flatPool(mem *fetcher.Memory, addr, mintA, mintB solana.PublicKey, feeRatePpm uint16, liquidity int64, arrayAddrSeed byte) []solana.PublicKey {
	spacing := uint16(8)
	sqrtP, _ := fixedpoint.TickIndexToSqrtPriceX64(0)
	pool := &domain.Pool{
		Address:          addr,
		TokenMintA:       mintA,
		TokenMintB:       mintB,
		TickSpacing:      spacing,
		FeeRate:          feeRatePpm,
		SqrtPrice:        sqrtP,
		TickCurrentIndex: 0,
		Liquidity:        big.NewInt(liquidity),
	}

	ticksPerArray := int32(spacing) * domain.TickArraySize
	arrays := []*domain.TickArray{
		{StartTickIndex: -ticksPerArray},
		{StartTickIndex: 0},
		{StartTickIndex: ticksPerArray},
	}
	for _, a := range arrays {
		idx, ok := a.TickSlotIndex(a.StartTickIndex, spacing)
		if ok {
			a.Ticks[idx] = domain.TickArraySlot{Initialized: true, LiquidityNet: big.NewInt(0)}
		}
	}

	mem.PutPool(pool)
	addrs := make([]solana.PublicKey, len(arrays))
	for i, a := range arrays {
		arrAddr := pk(arrayAddrSeed + byte(i))
		mem.PutTickArray(arrAddr, a)
		addrs[i] = arrAddr
	}
	return addrs
}

// memoryQuoter adapts swapquote.Compute to QuoterFunc, fetching pool
// and tick-array state from an in-memory fetcher double the way the
// HTTP layer's real quoter does.
func memoryQuoter(mem *fetcher.Memory, tickArrayAddrs map[solana.PublicKey][]solana.PublicKey) QuoterFunc {
	return func(ctx context.Context, pool solana.PublicKey, amount *big.Int, aToB, exactIn bool) (*domain.SwapQuote, error) {
		p, err := mem.GetPool(ctx, pool, fetcher.PreferCache)
		if err != nil {
			return nil, err
		}
		arrays, err := mem.ListTickArrays(ctx, tickArrayAddrs[pool], fetcher.PreferCache)
		if err != nil {
			return nil, err
		}
		return swapquote.Compute(swapquote.Params{
			Pool:                   p,
			AmountSpecified:        amount.Uint64(),
			AToB:                   aToB,
			AmountSpecifiedIsInput: exactIn,
			TickArrays:             arrays,
		})
	}
}

// TestFindBestRoutesSplitBeatsSingleUnderCurvature seeds S5: two
// disjoint single-hop routes of equal output at a finite, shared
// liquidity exhibit the same diminishing-marginal-output curvature a
// real constant-product-style AMM has in range, so splitting the trade
// across both pools at percentIncrement=50/maxSplits=2 outperforms
// routing the whole trade through either pool alone.
func TestFindBestRoutesSplitBeatsSingleUnderCurvature(t *testing.T) {
	inputMint := pk(1)
	outputMint := pk(2)
	poolA := pk(40)
	poolB := pk(41)

	mem := fetcher.NewMemory()
	arraysA := flatPool(mem, poolA, inputMint, outputMint, 0, 10_000_000_000, 50)
	arraysB := flatPool(mem, poolB, inputMint, outputMint, 0, 10_000_000_000, 60)

	pools := map[solana.PublicKey]PoolMints{
		poolA: {MintA: inputMint, MintB: outputMint},
		poolB: {MintA: inputMint, MintB: outputMint},
	}
	quoter := memoryQuoter(mem, map[solana.PublicKey][]solana.PublicKey{
		poolA: arraysA,
		poolB: arraysB,
	})

	results, err := FindBestRoutes(context.Background(), Params{
		InputMint:              inputMint,
		OutputMint:             outputMint,
		TradeAmount:            2_000_000,
		AmountSpecifiedIsInput: true,
		Routes:                 [][]solana.PublicKey{{poolA}, {poolB}},
		Pools:                  pools,
		Quoter:                 quoter,
		Options:                Options{PercentIncrement: 50, NumTopRoutes: 50, NumTopPartialQuotes: 10, MaxSplits: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one split result")
	}

	best := results[0]
	if len(best.Quotes) != 2 {
		t.Fatalf("best result has %d route(s), want the 50/50 split to win under curvature: %+v", len(best.Quotes), best)
	}

	var singleRoute *domain.SplitResult
	for i := range results {
		if len(results[i].Quotes) == 1 {
			singleRoute = &results[i]
			break
		}
	}
	if singleRoute == nil {
		t.Fatal("expected a single-route 100% result to also appear in the candidate set")
	}
	if best.TotalOut.Cmp(singleRoute.TotalOut) <= 0 {
		t.Errorf("split output %s should exceed single-route output %s under curvature", best.TotalOut, singleRoute.TotalOut)
	}
}

// TestFindBestRoutesPrefersFewerSplitsOnTie confirms the tie-break:
// when a linear (no price-impact) quoter makes the split and the
// single-route result produce identical total output, the router
// prefers the result with fewer splits.
func TestFindBestRoutesPrefersFewerSplitsOnTie(t *testing.T) {
	inputMint := pk(1)
	outputMint := pk(2)
	poolA := pk(42)
	poolB := pk(43)

	pools := map[solana.PublicKey]PoolMints{
		poolA: {MintA: inputMint, MintB: outputMint},
		poolB: {MintA: inputMint, MintB: outputMint},
	}
	quoter := linearQuoter(map[solana.PublicKey]int64{poolA: 3000, poolB: 3000})

	results, err := FindBestRoutes(context.Background(), Params{
		InputMint:              inputMint,
		OutputMint:             outputMint,
		TradeAmount:            2_000_000,
		AmountSpecifiedIsInput: true,
		Routes:                 [][]solana.PublicKey{{poolA}, {poolB}},
		Pools:                  pools,
		Quoter:                 quoter,
		Options:                Options{PercentIncrement: 50, NumTopRoutes: 50, NumTopPartialQuotes: 10, MaxSplits: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	best := results[0]
	if len(best.Quotes) != 1 {
		t.Errorf("expected the single-route result to win the output tie by fewer splits, got %d routes: %+v", len(best.Quotes), best)
	}
}

// TestFindBestRoutesDropsZeroLiquidityRoute seeds S6: a route whose
// first-hop pool has zero liquidity is dropped from the result set
// without the search raising, while a healthy route still succeeds.
func TestFindBestRoutesDropsZeroLiquidityRoute(t *testing.T) {
	inputMint := pk(1)
	outputMint := pk(2)
	dryPool := pk(44)
	healthyPool := pk(45)

	mem := fetcher.NewMemory()
	dryArrays := flatPool(mem, dryPool, inputMint, outputMint, 0, 0, 70)
	healthyArrays := flatPool(mem, healthyPool, inputMint, outputMint, 0, 10_000_000_000, 80)

	pools := map[solana.PublicKey]PoolMints{
		dryPool:     {MintA: inputMint, MintB: outputMint},
		healthyPool: {MintA: inputMint, MintB: outputMint},
	}
	quoter := memoryQuoter(mem, map[solana.PublicKey][]solana.PublicKey{
		dryPool:     dryArrays,
		healthyPool: healthyArrays,
	})

	results, err := FindBestRoutes(context.Background(), Params{
		InputMint:              inputMint,
		OutputMint:             outputMint,
		TradeAmount:            1_000_000,
		AmountSpecifiedIsInput: true,
		Routes:                 [][]solana.PublicKey{{dryPool}, {healthyPool}},
		Pools:                  pools,
		Quoter:                 quoter,
		Options:                DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("a dropped zero-liquidity route must not raise: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected the healthy route to still produce a result")
	}
	for _, r := range results {
		for _, q := range r.Quotes {
			if q.Route[0] == dryPool {
				t.Errorf("zero-liquidity route should have been dropped, found in result: %+v", r)
			}
		}
	}
}

func TestIntegerPartitions(t *testing.T) {
	parts := integerPartitions(5, 3)
	want := [][]int{{5}, {4, 1}, {3, 2}, {3, 1, 1}, {2, 2, 1}}
	if len(parts) != len(want) {
		t.Fatalf("got %d partitions, want %d: %v", len(parts), len(want), parts)
	}
}
