package swapquote

import (
	"math/big"
	"testing"

	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
)

func flatPool(feeRatePpm uint16, tick int32, liquidity int64) (*domain.Pool, []*domain.TickArray) {
	sqrtP, _ := fixedpoint.TickIndexToSqrtPriceX64(tick)
	spacing := uint16(8)
	pool := &domain.Pool{
		TickSpacing:      spacing,
		FeeRate:          feeRatePpm,
		SqrtPrice:        sqrtP,
		TickCurrentIndex: tick,
		Liquidity:        big.NewInt(liquidity),
	}

	ticksPerArray := int32(spacing) * domain.TickArraySize
	lowerStart := tick - ticksPerArray
	upperStart := tick + ticksPerArray

	arrays := []*domain.TickArray{
		{StartTickIndex: lowerStart},
		{StartTickIndex: tick - tick%ticksPerArray},
		{StartTickIndex: upperStart},
	}
	// Pin liquidity in scope across the whole window by initialising the
	// boundary ticks with zero net change, so the swap never runs dry.
	for _, a := range arrays {
		idx, ok := a.TickSlotIndex(a.StartTickIndex, spacing)
		if ok {
			a.Ticks[idx] = domain.TickArraySlot{Initialized: true, LiquidityNet: big.NewInt(0)}
		}
	}
	return pool, arrays
}

// TestComputeFeeGrossUp seeds S4: a step that exactly reaches its target
// charges fee = ceil(amountIn * 3000 / 997000); for amountIn = 1,000,000
// that is ceil(3,000,000,000 / 997,000) = 3010.
func TestComputeFeeGrossUp(t *testing.T) {
	fee, err := computeFee(big.NewInt(1_000_000), 3000, true, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := big.NewInt(3010)
	if fee.Cmp(want) != 0 {
		t.Errorf("fee = %s, want %s", fee, want)
	}
}

// TestSwapFeeReducesOutput exercises the full single-pool loop and
// confirms a nonzero fee rate lowers output relative to a zero fee,
// without depending on the exact tick-rounding path taken.
func TestSwapFeeReducesOutput(t *testing.T) {
	pool, arrays := flatPool(3000, 0, 1_000_000_000_000)
	quote, err := Compute(Params{
		Pool:                   pool,
		AmountSpecified:        1_000_000,
		AToB:                   true,
		AmountSpecifiedIsInput: true,
		TickArrays:             arrays,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.EstimatedFeeAmount.Sign() <= 0 {
		t.Error("expected a nonzero fee")
	}

	freePool, freeArrays := flatPool(0, 0, 1_000_000_000_000)
	freeQuote, err := Compute(Params{
		Pool:                   freePool,
		AmountSpecified:        1_000_000,
		AToB:                   true,
		AmountSpecifiedIsInput: true,
		TickArrays:             freeArrays,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.EstimatedAmountOut.Cmp(freeQuote.EstimatedAmountOut) >= 0 {
		t.Error("a fee-charging swap should yield less output than a fee-free swap")
	}
}

func TestSwapZeroAmount(t *testing.T) {
	pool, arrays := flatPool(3000, 0, 1_000_000_000_000)
	quote, err := Compute(Params{
		Pool:                   pool,
		AmountSpecified:        0,
		AToB:                   true,
		AmountSpecifiedIsInput: true,
		TickArrays:             arrays,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.EstimatedAmountIn.Sign() != 0 || quote.EstimatedAmountOut.Sign() != 0 {
		t.Error("zero-amount swap should produce zero-amount quote")
	}
}

func TestSwapNilPool(t *testing.T) {
	_, err := Compute(Params{AmountSpecified: 100})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestSwapExactOutAtoB(t *testing.T) {
	pool, arrays := flatPool(3000, 0, 1_000_000_000_000)
	quote, err := Compute(Params{
		Pool:                   pool,
		AmountSpecified:        500_000,
		AToB:                   true,
		AmountSpecifiedIsInput: false,
		TickArrays:             arrays,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.EstimatedAmountOut.Cmp(big.NewInt(500_000)) != 0 {
		t.Errorf("amountOut = %s, want 500000", quote.EstimatedAmountOut)
	}
	if quote.EstimatedAmountIn.Sign() <= 0 {
		t.Error("expected nonzero amount in")
	}
}

func TestSwapWithSlippageThreshold(t *testing.T) {
	pool, arrays := flatPool(3000, 0, 1_000_000_000_000)
	quote, err := Compute(Params{
		Pool:                   pool,
		AmountSpecified:        1_000_000,
		AToB:                   true,
		AmountSpecifiedIsInput: true,
		TickArrays:             arrays,
		Slippage:               fixedpoint.Slippage{Numerator: 1, Denominator: 100},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.OtherAmountThreshold.Cmp(quote.EstimatedAmountOut) >= 0 {
		t.Error("slippage threshold should be strictly less than the estimated output")
	}
}
