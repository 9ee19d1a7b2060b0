package router

import (
	"context"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/metrics"
)

// slot is one (percent, route) cell of the quote map: the hops filled
// in so far, or nil for a hop that hasn't resolved (or failed).
type slot struct {
	hops   []*domain.Hop
	broken bool
}

// hopTask is one quote request to issue within a hop-depth batch.
type hopTask struct {
	percentIdx int
	routeIdx   int
	hopIdx     int
	pool       solana.PublicKey
	aToB       bool
	amount     *big.Int
	inputMint  solana.PublicKey
	outputMint solana.PublicKey
}

// runHops executes the hop-batched quoting loop described in spec
// §4.F steps 1-6: hops are processed one hop depth at a time across all
// (percent, route) pairs in a single parallel batch per depth, with
// forward order for input-specified trades (hop 0 first, carrying
// amountOut into the next hop's amountIn) and reverse order for
// output-specified trades (last hop first, carrying amountIn backward
// as the next hop's desired amountOut).
//
// It returns the quote map (indexed [percent][route]) and whether any
// quote failure was a fatal arithmetic error.
func runHops(ctx context.Context, routes []orientedRoute, amounts []*big.Int, percentIncrement int, exactIn bool, pools map[solana.PublicKey]PoolMints, quote QuoterFunc) ([][]slot, bool) {
	maxLen := 0
	for _, r := range routes {
		if len(r.pools) > maxLen {
			maxLen = len(r.pools)
		}
	}

	quoteMap := make([][]slot, len(amounts))
	for p := range quoteMap {
		quoteMap[p] = make([]slot, len(routes))
		for r := range quoteMap[p] {
			quoteMap[p][r].hops = make([]*domain.Hop, maxLen)
		}
	}

	hopOrder := make([]int, maxLen)
	for i := range hopOrder {
		if exactIn {
			hopOrder[i] = i
		} else {
			hopOrder[i] = maxLen - 1 - i
		}
	}

	cache := newRequestScopedCache()
	fatal := false
	var fatalMu sync.Mutex

	for _, hopIdx := range hopOrder {
		select {
		case <-ctx.Done():
			return quoteMap, fatal
		default:
		}

		var tasks []hopTask
		for percentIdx := range amounts {
			for routeIdx, route := range routes {
				if hopIdx >= len(route.pools) {
					continue
				}
				if quoteMap[percentIdx][routeIdx].broken {
					continue
				}
				amount := carryAmount(quoteMap[percentIdx][routeIdx], amounts[percentIdx], hopIdx, len(route.pools), exactIn)
				if amount == nil {
					continue
				}
				pool := route.pools[hopIdx]
				aToB := route.aToB[hopIdx]
				mints := pools[pool]
				inputMint, outputMint := mints.MintA, mints.MintB
				if !aToB {
					inputMint, outputMint = mints.MintB, mints.MintA
				}
				tasks = append(tasks, hopTask{
					percentIdx: percentIdx,
					routeIdx:   routeIdx,
					hopIdx:     hopIdx,
					pool:       pool,
					aToB:       aToB,
					amount:     amount,
					inputMint:  inputMint,
					outputMint: outputMint,
				})
			}
		}

		var wg sync.WaitGroup
		results := make([]*domain.Hop, len(tasks))
		errs := make([]error, len(tasks))
		for i, task := range tasks {
			wg.Add(1)
			go func(idx int, t hopTask) {
				defer wg.Done()
				if cached, ok := cache.Get(t.pool, t.amount, t.aToB, exactIn); ok {
					metrics.HopQuoteCacheHits.Inc()
					results[idx] = toHop(t, cached, exactIn)
					return
				}
				q, err := quote(ctx, t.pool, t.amount, t.aToB, exactIn)
				if err != nil {
					errs[idx] = err
					return
				}
				metrics.HopQuotesIssued.Inc()
				cache.Set(t.pool, t.amount, t.aToB, exactIn, q)
				results[idx] = toHop(t, q, exactIn)
			}(i, task)
		}
		wg.Wait()

		for i, task := range tasks {
			if errs[i] != nil {
				quoteMap[task.percentIdx][task.routeIdx].broken = true
				metrics.DroppedRoutes.WithLabelValues(dropReason(errs[i])).Inc()
				if clammerr.IsFatal(errs[i]) {
					fatalMu.Lock()
					fatal = true
					fatalMu.Unlock()
				}
				continue
			}
			quoteMap[task.percentIdx][task.routeIdx].hops[task.hopIdx] = results[i]
		}
	}

	return quoteMap, fatal
}

// carryAmount determines hop hopIdx's trade amount: the percent-scaled
// trade size at the route's entry hop, or the adjoining hop's
// already-computed amount otherwise.
func carryAmount(s slot, baseAmount *big.Int, hopIdx, routeLen int, exactIn bool) *big.Int {
	if exactIn {
		if hopIdx == 0 {
			return baseAmount
		}
		prev := s.hops[hopIdx-1]
		if prev == nil {
			return nil
		}
		return prev.AmountOut
	}
	if hopIdx == routeLen-1 {
		return baseAmount
	}
	next := s.hops[hopIdx+1]
	if next == nil {
		return nil
	}
	return next.AmountIn
}

func dropReason(err error) string {
	if ce, ok := err.(*clammerr.CoreError); ok {
		return ce.Kind.String()
	}
	return "unknown"
}

func toHop(t hopTask, q *domain.SwapQuote, exactIn bool) *domain.Hop {
	return &domain.Hop{
		Pool:       t.pool,
		AToB:       t.aToB,
		InputMint:  t.inputMint,
		OutputMint: t.outputMint,
		AmountIn:   q.EstimatedAmountIn,
		AmountOut:  q.EstimatedAmountOut,
		FeeAmount:  q.EstimatedFeeAmount,
	}
}

// cleanup retains only (percent, route) slots where every hop the
// route uses resolved, and annotates each with its top-level
// amountIn/amountOut from the first/last hop.
func cleanup(quoteMap [][]slot, routes []orientedRoute, percentIncrement int) []domain.RouteQuote {
	var out []domain.RouteQuote
	for percentIdx, percentSlots := range quoteMap {
		percent := (percentIdx + 1) * percentIncrement
		for routeIdx, s := range percentSlots {
			if s.broken {
				continue
			}
			route := routes[routeIdx]
			complete := true
			hops := make([]domain.Hop, 0, len(route.pools))
			for i := range route.pools {
				if s.hops[i] == nil {
					complete = false
					break
				}
				hops = append(hops, *s.hops[i])
			}
			if !complete || len(hops) == 0 {
				continue
			}
			out = append(out, domain.RouteQuote{
				Route:     route.pools,
				Percent:   uint8(percent),
				AmountIn:  hops[0].AmountIn,
				AmountOut: hops[len(hops)-1].AmountOut,
				Hops:      hops,
			})
		}
	}
	return out
}
