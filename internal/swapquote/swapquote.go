// Package swapquote simulates a single-pool swap by stepping across
// initialised ticks, accumulating input/output and fee, as an
// explicit imperative state machine (no recursion).
package swapquote

import (
	"math/big"

	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
	"github.com/hxuan190/clamm-core/internal/tickarray"
)

const feeRateDenominator = 1_000_000

// Params are the inputs to a single-pool swap simulation.
type Params struct {
	Pool                   *domain.Pool
	AmountSpecified        uint64
	AToB                   bool
	AmountSpecifiedIsInput bool
	SqrtPriceLimit         *big.Int // nil selects the directional MIN/MAX bound
	TickArrays             []*domain.TickArray
	Slippage               fixedpoint.Slippage
}

// swapState is the mutable state threaded through the step loop.
type swapState struct {
	sqrtPrice        *big.Int
	liquidity        *big.Int
	tickCurrent      int32
	amountRemaining  *big.Int
	amountCalculated *big.Int
	feeAccum         *big.Int
}

// Compute runs the swap-step loop described in spec §4.D and returns
// the resulting quote, or an error. InsufficientTickArrays and
// ZeroLiquidity are returned as *clammerr.CoreError with Fatal()==false;
// callers (the router) should drop the corresponding route rather than
// abort the whole search.
func Compute(p Params) (*domain.SwapQuote, error) {
	if p.Pool == nil {
		return nil, clammerr.New(clammerr.PoolNotFound, "nil pool")
	}
	if p.AmountSpecified == 0 {
		return &domain.SwapQuote{
			EstimatedAmountIn:    big.NewInt(0),
			EstimatedAmountOut:   big.NewInt(0),
			EstimatedFeeAmount:   big.NewInt(0),
			SqrtPriceEnd:         new(big.Int).Set(p.Pool.SqrtPrice),
			TickEnd:              p.Pool.TickCurrentIndex,
			OtherAmountThreshold: big.NewInt(0),
		}, nil
	}

	limit := p.SqrtPriceLimit
	if limit == nil {
		if p.AToB {
			limit = fixedpoint.MinSqrtPrice()
		} else {
			limit = fixedpoint.MaxSqrtPrice()
		}
	}

	st := &swapState{
		sqrtPrice:        new(big.Int).Set(p.Pool.SqrtPrice),
		liquidity:        new(big.Int).Set(p.Pool.Liquidity),
		tickCurrent:      p.Pool.TickCurrentIndex,
		amountRemaining:  new(big.Int).SetUint64(p.AmountSpecified),
		amountCalculated: big.NewInt(0),
		feeAccum:         big.NewInt(0),
	}

	for st.amountRemaining.Sign() > 0 && !priceAtLimit(st.sqrtPrice, limit, p.AToB) {
		stepped, err := step(st, p, limit)
		if err != nil {
			return nil, err
		}
		if !stepped {
			break
		}
	}

	if st.amountRemaining.Sign() > 0 {
		return nil, clammerr.New(clammerr.InsufficientTickArrays,
			"swap unfilled: %s remaining of %d", st.amountRemaining, p.AmountSpecified)
	}

	return buildQuote(p, st)
}

// step performs exactly one initialised-tick crossing (or partial
// move), per spec §4.D steps 1-5. When the provided tick arrays hold no
// further initialised tick, it stops at the current price and lets the
// caller's amountRemaining check surface InsufficientTickArrays; it
// errors directly on a zero-liquidity dead end.
func step(st *swapState, p Params, limit *big.Int) (bool, error) {
	nextTick, liquidityNet, found := tickarray.NextInitializedTick(p.TickArrays, st.tickCurrent, p.Pool.TickSpacing, p.AToB)

	var target *big.Int
	crossesTick := false
	if found {
		sqrtPNext, err := fixedpoint.TickIndexToSqrtPriceX64(nextTick)
		if err != nil {
			return false, err
		}
		target = clampTarget(sqrtPNext, limit, p.AToB)
		crossesTick = target.Cmp(sqrtPNext) == 0
	} else {
		if st.liquidity.Sign() == 0 {
			return false, clammerr.New(clammerr.ZeroLiquidity, "no liquidity and no further initialised ticks")
		}
		return false, nil
	}

	if st.liquidity.Sign() == 0 {
		// Nothing to trade against until the next tick's liquidityNet
		// is picked up; jump there for free.
		if !found || !crossesTick {
			return false, clammerr.New(clammerr.ZeroLiquidity, "zero liquidity with remaining amount")
		}
		st.sqrtPrice = target
		st.tickCurrent = nextTick
		st.liquidity = applyLiquidityNet(st.liquidity, liquidityNet, p.AToB)
		return true, nil
	}

	amountIn, amountOut, reachedTarget, newSqrtPrice, err := computeStep(st.sqrtPrice, target, st.liquidity, st.amountRemaining, p.AToB, p.AmountSpecifiedIsInput, p.Pool.FeeRate)
	if err != nil {
		return false, err
	}

	fee, err := computeFee(amountIn, p.Pool.FeeRate, p.AmountSpecifiedIsInput, reachedTarget, st.amountRemaining)
	if err != nil {
		return false, err
	}
	st.feeAccum.Add(st.feeAccum, fee)

	if p.AmountSpecifiedIsInput {
		consumed := new(big.Int).Add(amountIn, fee)
		if consumed.Cmp(st.amountRemaining) > 0 {
			consumed = st.amountRemaining
		}
		st.amountRemaining.Sub(st.amountRemaining, consumed)
		st.amountCalculated.Add(st.amountCalculated, amountOut)
	} else {
		if amountOut.Cmp(st.amountRemaining) > 0 {
			amountOut = st.amountRemaining
		}
		st.amountRemaining.Sub(st.amountRemaining, amountOut)
		st.amountCalculated.Add(st.amountCalculated, new(big.Int).Add(amountIn, fee))
	}

	st.sqrtPrice = newSqrtPrice

	if reachedTarget && crossesTick {
		st.tickCurrent = nextTick
		st.liquidity = applyLiquidityNet(st.liquidity, liquidityNet, p.AToB)
	}

	return true, nil
}

func applyLiquidityNet(liquidity, net *big.Int, aToB bool) *big.Int {
	if net == nil {
		return liquidity
	}
	if aToB {
		return new(big.Int).Sub(liquidity, net)
	}
	return new(big.Int).Add(liquidity, net)
}

func clampTarget(sqrtPNext, limit *big.Int, aToB bool) *big.Int {
	if aToB {
		if sqrtPNext.Cmp(limit) < 0 {
			return new(big.Int).Set(limit)
		}
		return sqrtPNext
	}
	if sqrtPNext.Cmp(limit) > 0 {
		return new(big.Int).Set(limit)
	}
	return sqrtPNext
}

func priceAtLimit(sqrtPrice, limit *big.Int, aToB bool) bool {
	if aToB {
		return sqrtPrice.Cmp(limit) <= 0
	}
	return sqrtPrice.Cmp(limit) >= 0
}

// computeStep computes the (amountIn, amountOut) to move from sqrtPrice
// toward target, and reports whether the full distance to target was
// covered by amountRemaining (reachedTarget) along with the resulting
// sqrt price.
func computeStep(sqrtPrice, target, liquidity, amountRemaining *big.Int, aToB, exactIn bool, feeRatePpm uint16) (amountIn, amountOut *big.Int, reachedTarget bool, newSqrtPrice *big.Int, err error) {
	var maxIn, maxOut uint64
	if aToB {
		maxIn, err = fixedpoint.GetAmountADelta(target, sqrtPrice, liquidity, true)
	} else {
		maxIn, err = fixedpoint.GetAmountBDelta(sqrtPrice, target, liquidity, true)
	}
	if err != nil {
		return nil, nil, false, nil, err
	}

	if exactIn {
		// The fee is deducted before the post-fee remainder is used to
		// move the price, so a partial (non-target-reaching) step never
		// counts fee toward the price delta.
		amountRemainingLessFee := new(big.Int).Mul(amountRemaining, big.NewInt(feeRateDenominator-int64(feeRatePpm)))
		amountRemainingLessFee.Div(amountRemainingLessFee, big.NewInt(feeRateDenominator))

		if amountRemainingLessFee.Cmp(new(big.Int).SetUint64(maxIn)) >= 0 {
			if aToB {
				maxOut, err = fixedpoint.GetAmountBDelta(target, sqrtPrice, liquidity, false)
			} else {
				maxOut, err = fixedpoint.GetAmountADelta(sqrtPrice, target, liquidity, false)
			}
			if err != nil {
				return nil, nil, false, nil, err
			}
			return new(big.Int).SetUint64(maxIn), new(big.Int).SetUint64(maxOut), true, new(big.Int).Set(target), nil
		}
		partialIn := amountRemainingLessFee.Uint64()
		next, err := fixedpoint.GetNextSqrtPriceFromAmountIn(sqrtPrice, liquidity, partialIn, aToB)
		if err != nil {
			return nil, nil, false, nil, err
		}
		var in, out uint64
		if aToB {
			in, err = fixedpoint.GetAmountADelta(next, sqrtPrice, liquidity, true)
			if err != nil {
				return nil, nil, false, nil, err
			}
			out, err = fixedpoint.GetAmountBDelta(next, sqrtPrice, liquidity, false)
		} else {
			in, err = fixedpoint.GetAmountBDelta(sqrtPrice, next, liquidity, true)
			if err != nil {
				return nil, nil, false, nil, err
			}
			out, err = fixedpoint.GetAmountADelta(sqrtPrice, next, liquidity, false)
		}
		if err != nil {
			return nil, nil, false, nil, err
		}
		return new(big.Int).SetUint64(in), new(big.Int).SetUint64(out), false, next, nil
	}

	// exact-out
	if aToB {
		maxOut, err = fixedpoint.GetAmountBDelta(target, sqrtPrice, liquidity, false)
	} else {
		maxOut, err = fixedpoint.GetAmountADelta(sqrtPrice, target, liquidity, false)
	}
	if err != nil {
		return nil, nil, false, nil, err
	}
	if amountRemaining.Cmp(new(big.Int).SetUint64(maxOut)) >= 0 {
		return new(big.Int).SetUint64(maxIn), new(big.Int).SetUint64(maxOut), true, new(big.Int).Set(target), nil
	}
	partialOut := amountRemaining.Uint64()
	next, err := fixedpoint.GetNextSqrtPriceFromAmountOut(sqrtPrice, liquidity, partialOut, aToB)
	if err != nil {
		return nil, nil, false, nil, err
	}
	var in uint64
	if aToB {
		in, err = fixedpoint.GetAmountADelta(next, sqrtPrice, liquidity, true)
	} else {
		in, err = fixedpoint.GetAmountBDelta(sqrtPrice, next, liquidity, true)
	}
	if err != nil {
		return nil, nil, false, nil, err
	}
	return new(big.Int).SetUint64(in), new(big.Int).Set(amountRemaining), false, next, nil
}

// computeFee implements spec §4.D step 3.
func computeFee(amountIn *big.Int, feeRatePpm uint16, exactIn, reachedTarget bool, amountRemaining *big.Int) (*big.Int, error) {
	rate := new(big.Int).SetUint64(uint64(feeRatePpm))
	denom := big.NewInt(feeRateDenominator)

	if exactIn {
		if !reachedTarget {
			// whatever of amountRemaining wasn't consumed as amountIn
			// is the fee for this (final, partial) step.
			fee := new(big.Int).Sub(amountRemaining, amountIn)
			if fee.Sign() < 0 {
				fee = big.NewInt(0)
			}
			return fee, nil
		}
		// ceil(amountIn * feeRate / (1_000_000 - feeRate))
		denominator := new(big.Int).Sub(denom, rate)
		if denominator.Sign() <= 0 {
			return nil, clammerr.New(clammerr.DivideByZero, "fee rate >= 100%%")
		}
		numerator := new(big.Int).Mul(amountIn, rate)
		return ceilDiv(numerator, denominator), nil
	}

	// output-specified: ceil(amountIn * feeRate / 1_000_000)
	numerator := new(big.Int).Mul(amountIn, rate)
	return ceilDiv(numerator, denom), nil
}

func ceilDiv(numerator, denominator *big.Int) *big.Int {
	rem := new(big.Int)
	quotient := new(big.Int).DivMod(numerator, denominator, rem)
	if rem.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return quotient
}

func buildQuote(p Params, st *swapState) (*domain.SwapQuote, error) {
	var estIn, estOut *big.Int
	if p.AmountSpecifiedIsInput {
		estIn = new(big.Int).SetUint64(p.AmountSpecified)
		estOut = st.amountCalculated
	} else {
		estIn = st.amountCalculated
		estOut = new(big.Int).SetUint64(p.AmountSpecified)
	}

	threshold, err := otherAmountThreshold(estIn, estOut, p.AmountSpecifiedIsInput, p.Slippage)
	if err != nil {
		return nil, err
	}

	return &domain.SwapQuote{
		EstimatedAmountIn:    estIn,
		EstimatedAmountOut:   estOut,
		EstimatedFeeAmount:   st.feeAccum,
		SqrtPriceEnd:         st.sqrtPrice,
		TickEnd:              st.tickCurrent,
		OtherAmountThreshold: threshold,
	}, nil
}

func otherAmountThreshold(estIn, estOut *big.Int, amountSpecifiedIsInput bool, slippage fixedpoint.Slippage) (*big.Int, error) {
	if slippage.Denominator == 0 {
		if amountSpecifiedIsInput {
			return new(big.Int).Set(estOut), nil
		}
		return new(big.Int).Set(estIn), nil
	}
	den := new(big.Int).SetUint64(slippage.Denominator)
	num := new(big.Int).SetUint64(slippage.Numerator)

	if amountSpecifiedIsInput {
		// floor(estOut * (1 - s))
		factor := new(big.Int).Sub(den, num)
		result := new(big.Int).Mul(estOut, factor)
		result.Div(result, den)
		return result, nil
	}
	// ceil(estIn * (1 + s))
	factor := new(big.Int).Add(den, num)
	numerator := new(big.Int).Mul(estIn, factor)
	return ceilDiv(numerator, den), nil
}
