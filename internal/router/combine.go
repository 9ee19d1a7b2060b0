package router

import (
	"math/big"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
)

// prune groups the completed route quotes by percent and keeps, for
// each percent, only the top numTopPartialQuotes by the trade's
// objective.
func prune(completed []domain.RouteQuote, topK int, exactIn bool) map[int][]domain.RouteQuote {
	buckets := make(map[int][]domain.RouteQuote)
	for _, rq := range completed {
		p := int(rq.Percent)
		buckets[p] = append(buckets[p], rq)
	}
	for p, quotes := range buckets {
		sort.SliceStable(quotes, func(i, j int) bool {
			if exactIn {
				return quotes[i].AmountOut.Cmp(quotes[j].AmountOut) > 0
			}
			return quotes[i].AmountIn.Cmp(quotes[j].AmountIn) < 0
		})
		if len(quotes) > topK {
			quotes = quotes[:topK]
		}
		buckets[p] = quotes
	}
	return buckets
}

// combine enumerates disjoint-by-first-pool split sets whose percents
// sum to exactly 100, per spec §4.F's combining step.
func combine(buckets map[int][]domain.RouteQuote, opts Options, exactIn bool) []domain.SplitResult {
	steps := 100 / opts.PercentIncrement
	var results []domain.SplitResult

	for _, parts := range integerPartitions(steps, opts.MaxSplits) {
		countByStep := map[int]int{}
		for _, s := range parts {
			countByStep[s]++
		}

		combosByStep := make(map[int][][]domain.RouteQuote)
		feasible := true
		for step, k := range countByStep {
			percent := step * opts.PercentIncrement
			bucket := buckets[percent]
			if len(bucket) < k {
				feasible = false
				break
			}
			combosByStep[step] = kCombinations(bucket, k)
		}
		if !feasible {
			continue
		}

		stepKeys := make([]int, 0, len(combosByStep))
		for s := range combosByStep {
			stepKeys = append(stepKeys, s)
		}
		sort.Ints(stepKeys)

		for _, combo := range cartesianGroups(stepKeys, combosByStep) {
			flat := make([]domain.RouteQuote, 0, len(parts))
			for _, group := range combo {
				flat = append(flat, group...)
			}
			if !firstPoolsDisjoint(flat) {
				continue
			}
			results = append(results, buildSplitResult(flat))
		}
	}
	return results
}

func firstPoolsDisjoint(quotes []domain.RouteQuote) bool {
	seen := make(map[solana.PublicKey]bool, len(quotes))
	for _, q := range quotes {
		if len(q.Route) == 0 {
			return false
		}
		first := q.Route[0]
		if seen[first] {
			return false
		}
		seen[first] = true
	}
	return true
}

func buildSplitResult(quotes []domain.RouteQuote) domain.SplitResult {
	totalIn := big.NewInt(0)
	totalOut := big.NewInt(0)
	for _, q := range quotes {
		totalIn.Add(totalIn, q.AmountIn)
		totalOut.Add(totalOut, q.AmountOut)
	}
	return domain.SplitResult{Quotes: quotes, TotalIn: totalIn, TotalOut: totalOut}
}

// integerPartitions returns every multiset of positive integers of
// size 1..maxParts summing to n, each part representable as a
// distinct percent-grid step.
func integerPartitions(n, maxParts int) [][]int {
	var out [][]int
	var build func(remaining, maxPart int, current []int)
	build = func(remaining, maxPart int, current []int) {
		if remaining == 0 {
			out = append(out, append([]int(nil), current...))
			return
		}
		if len(current) >= maxParts {
			return
		}
		upper := remaining
		if upper > maxPart {
			upper = maxPart
		}
		for part := upper; part >= 1; part-- {
			build(remaining-part, part, append(current, part))
		}
	}
	build(n, n, nil)
	return out
}

// kCombinations returns every k-element subset of items, preserving
// relative order (so lexicographic tie-breaks stay reproducible).
func kCombinations(items []domain.RouteQuote, k int) [][]domain.RouteQuote {
	if k > len(items) {
		return nil
	}
	var out [][]domain.RouteQuote
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		combo := make([]domain.RouteQuote, k)
		for i, idx := range indices {
			combo[i] = items[idx]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && indices[i] == len(items)-k+i {
			i--
		}
		if i < 0 {
			break
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
	return out
}

// cartesianGroups produces the cartesian product, across the given
// steps in order, of each step's candidate route-groups.
func cartesianGroups(steps []int, combosByStep map[int][][]domain.RouteQuote) [][][]domain.RouteQuote {
	result := [][][]domain.RouteQuote{{}}
	for _, step := range steps {
		groups := combosByStep[step]
		var next [][][]domain.RouteQuote
		for _, prefix := range result {
			for _, group := range groups {
				entry := append(append([][]domain.RouteQuote(nil), prefix...), group)
				next = append(next, entry)
			}
		}
		result = next
	}
	return result
}
