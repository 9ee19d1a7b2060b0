// Package tickarray navigates the discrete tick-array layout to find
// the next initialised tick in a swap's travel direction.
package tickarray

import (
	"math/big"

	"github.com/hxuan190/clamm-core/internal/domain"
)

// NextInitializedTick searches the given tick arrays — which must
// already be ordered consecutively in the travel direction implied by
// aToB, as supplied by the external fetcher — for the next
// initialised tick strictly past fromTick. It reports found=false
// (not an error) if the arrays are exhausted without finding one; the
// caller (the swap quote) then terminates the swap at the last
// computed price and signals "need more arrays".
func NextInitializedTick(arrays []*domain.TickArray, fromTick int32, tickSpacing uint16, aToB bool) (tickIndex int32, liquidityNet *big.Int, found bool) {
	if tickSpacing == 0 {
		return 0, nil, false
	}
	for _, arr := range arrays {
		if arr == nil {
			continue
		}
		if aToB {
			if idx, ok := searchDescending(arr, fromTick, tickSpacing); ok {
				return arr.StartTickIndex + int32(idx)*int32(tickSpacing), arr.Ticks[idx].LiquidityNet, true
			}
		} else {
			if idx, ok := searchAscending(arr, fromTick, tickSpacing); ok {
				return arr.StartTickIndex + int32(idx)*int32(tickSpacing), arr.Ticks[idx].LiquidityNet, true
			}
		}
	}
	return 0, nil, false
}

// searchDescending scans an array's slots from high tick to low,
// returning the first initialised slot whose tick is < fromTick.
func searchDescending(arr *domain.TickArray, fromTick int32, tickSpacing uint16) (int, bool) {
	for i := domain.TickArraySize - 1; i >= 0; i-- {
		tick := arr.StartTickIndex + int32(i)*int32(tickSpacing)
		if tick >= fromTick {
			continue
		}
		if arr.Ticks[i].Initialized {
			return i, true
		}
	}
	return 0, false
}

// searchAscending scans an array's slots from low tick to high,
// returning the first initialised slot whose tick is > fromTick.
func searchAscending(arr *domain.TickArray, fromTick int32, tickSpacing uint16) (int, bool) {
	for i := 0; i < domain.TickArraySize; i++ {
		tick := arr.StartTickIndex + int32(i)*int32(tickSpacing)
		if tick <= fromTick {
			continue
		}
		if arr.Ticks[i].Initialized {
			return i, true
		}
	}
	return 0, false
}

// StartTickIndexForTick returns the aligned start index of the tick
// array containing tick, given tickSpacing — the alignment the
// external fetcher uses to derive tick-array PDAs.
func StartTickIndexForTick(tick int32, tickSpacing uint16) int32 {
	ticksPerArray := int32(tickSpacing) * domain.TickArraySize
	// Floor division toward negative infinity, since Go's integer
	// division truncates toward zero.
	q := tick / ticksPerArray
	if tick%ticksPerArray != 0 && tick < 0 {
		q--
	}
	return q * ticksPerArray
}
