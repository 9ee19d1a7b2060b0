// Package router finds the best way to split a trade across a set of
// candidate routes, by quoting a percent-grid of trade sizes per route
// and combinatorially recombining the pruned results into disjoint
// split sets.
package router

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/metrics"
)

// QuoterFunc quotes a single pool for a single hop. ctx carries the
// only cancellation point in the search: it is checked before each hop
// depth, and once it is cancelled no further depth is quoted and the
// search returns ctx's error; requests already issued for the current
// depth receive the cancelled ctx.
type QuoterFunc func(ctx context.Context, pool solana.PublicKey, amount *big.Int, aToB, exactIn bool) (*domain.SwapQuote, error)

// PoolMints is the minimal pool metadata the router needs to orient a
// route: which mint is which side of the pool.
type PoolMints struct {
	MintA, MintB solana.PublicKey
}

// Options are the router's tunable defaults, per spec.
type Options struct {
	PercentIncrement    int
	NumTopRoutes        int
	NumTopPartialQuotes int
	MaxSplits           int
}

// DefaultOptions returns the enumerated defaults.
func DefaultOptions() Options {
	return Options{
		PercentIncrement:    20,
		NumTopRoutes:        50,
		NumTopPartialQuotes: 10,
		MaxSplits:           3,
	}
}

// Params is the input to FindBestRoutes.
type Params struct {
	InputMint, OutputMint  solana.PublicKey
	TradeAmount            uint64
	AmountSpecifiedIsInput bool
	// Routes are the candidate pool-address sequences for this pair,
	// already resolved from the external walks map; construction of
	// that map is an external collaborator's responsibility.
	Routes  [][]solana.PublicKey
	Pools   map[solana.PublicKey]PoolMints
	Quoter  QuoterFunc
	Options Options
}

// orientedRoute is a route canonicalised to start from the trade's
// input mint, with each hop's swap direction precomputed.
type orientedRoute struct {
	pools []solana.PublicKey
	aToB  []bool
}

// FindBestRoutes implements spec §4.F: it grids the trade amount across
// percents, quotes every (percent, route, hop) combination in hop-depth
// batches, prunes per percent, and recombines the survivors into
// disjoint-by-first-pool split sets ranked by the trade's objective.
//
// A route or percent that fails to quote is dropped silently rather
// than aborting the search. Apart from rejecting a PercentIncrement
// that does not divide 100 and returning ctx's error after
// cancellation, FindBestRoutes only returns an error when
// the result set is empty and the failure was a fatal arithmetic one
// (overflow or divide-by-zero), since those indicate a programming or
// data-integrity fault rather than ordinary illiquidity.
func FindBestRoutes(ctx context.Context, p Params) (results []domain.SplitResult, err error) {
	swapMode := "ExactOut"
	if p.AmountSpecifiedIsInput {
		swapMode = "ExactIn"
	}
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RouteRequests.WithLabelValues(swapMode, status).Inc()
		metrics.RouteDuration.Observe(time.Since(start).Seconds())
		metrics.SplitResultsReturned.Observe(float64(len(results)))
	}()

	if p.TradeAmount == 0 || len(p.Routes) == 0 || p.Quoter == nil {
		return nil, nil
	}
	opts := p.Options
	if opts.PercentIncrement <= 0 || 100%opts.PercentIncrement != 0 {
		return nil, clammerr.New(clammerr.InvalidTickRange, "percentIncrement %d must divide 100", opts.PercentIncrement)
	}

	oriented, orientErr := orientRoutes(p.Routes, p.Pools, p.InputMint)
	if orientErr != nil {
		return nil, orientErr
	}
	if len(oriented) == 0 {
		return nil, nil
	}

	steps := 100 / opts.PercentIncrement
	amounts := make([]*big.Int, steps)
	for i := 0; i < steps; i++ {
		percent := (i + 1) * opts.PercentIncrement
		amounts[i] = new(big.Int).Div(
			new(big.Int).Mul(new(big.Int).SetUint64(p.TradeAmount), big.NewInt(int64(percent))),
			big.NewInt(100),
		)
	}

	quoteMap, fatal := runHops(ctx, oriented, amounts, opts.PercentIncrement, p.AmountSpecifiedIsInput, p.Pools, p.Quoter)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	completed := cleanup(quoteMap, oriented, opts.PercentIncrement)
	if len(completed) == 0 {
		if fatal {
			return nil, clammerr.New(clammerr.ArithmeticOverflow, "all route quotes failed with a fatal arithmetic error")
		}
		return nil, nil
	}

	pruned := prune(completed, opts.NumTopPartialQuotes, p.AmountSpecifiedIsInput)

	results = combine(pruned, opts, p.AmountSpecifiedIsInput)
	sortSplits(results, p.AmountSpecifiedIsInput)
	if len(results) > opts.NumTopRoutes {
		results = results[:opts.NumTopRoutes]
	}
	return results, nil
}

// orientRoutes canonicalises each route so its first pool trades the
// overall input mint, and precomputes each hop's swap direction from
// the pools' fixed mint ordering.
func orientRoutes(routes [][]solana.PublicKey, pools map[solana.PublicKey]PoolMints, inputMint solana.PublicKey) ([]orientedRoute, error) {
	result := make([]orientedRoute, 0, len(routes))
	for _, route := range routes {
		if len(route) == 0 {
			continue
		}
		first, ok := pools[route[0]]
		if !ok {
			continue
		}
		ordered := route
		if !first.MintA.Equals(inputMint) && !first.MintB.Equals(inputMint) {
			ordered = reversed(route)
		}

		aToB := make([]bool, len(ordered))
		current := inputMint
		valid := true
		for i, addr := range ordered {
			mints, ok := pools[addr]
			if !ok {
				valid = false
				break
			}
			switch {
			case mints.MintA.Equals(current):
				aToB[i] = true
				current = mints.MintB
			case mints.MintB.Equals(current):
				aToB[i] = false
				current = mints.MintA
			default:
				valid = false
			}
			if !valid {
				break
			}
		}
		if !valid {
			continue
		}
		result = append(result, orientedRoute{pools: ordered, aToB: aToB})
	}
	return result, nil
}

func reversed(route []solana.PublicKey) []solana.PublicKey {
	out := make([]solana.PublicKey, len(route))
	for i, addr := range route {
		out[len(route)-1-i] = addr
	}
	return out
}

// sortSplits applies the tie-break chain: objective, then fewer
// splits, then shorter total route length, then lexicographic by pool
// address.
func sortSplits(results []domain.SplitResult, exactIn bool) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if cmp := objectiveCmp(a, b, exactIn); cmp != 0 {
			return cmp > 0
		}
		if len(a.Quotes) != len(b.Quotes) {
			return len(a.Quotes) < len(b.Quotes)
		}
		if la, lb := totalHops(a), totalHops(b); la != lb {
			return la < lb
		}
		return lexLess(a, b)
	})
}

// objectiveCmp returns >0 if a is strictly better than b, <0 if worse,
// 0 if tied, under the trade's optimisation objective.
func objectiveCmp(a, b domain.SplitResult, exactIn bool) int {
	if exactIn {
		return a.TotalOut.Cmp(b.TotalOut)
	}
	return b.TotalIn.Cmp(a.TotalIn)
}

func totalHops(s domain.SplitResult) int {
	n := 0
	for _, q := range s.Quotes {
		n += len(q.Route)
	}
	return n
}

func lexLess(a, b domain.SplitResult) bool {
	ak, bk := poolKey(a), poolKey(b)
	return ak < bk
}

func poolKey(s domain.SplitResult) string {
	var buf []byte
	for _, q := range s.Quotes {
		for _, addr := range q.Route {
			buf = append(buf, addr[:]...)
		}
	}
	return string(buf)
}
