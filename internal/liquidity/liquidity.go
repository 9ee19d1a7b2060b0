// Package liquidity quotes add-liquidity deposits: the liquidity value
// and token amounts required to open or extend a position over a tick
// range, with price-based (not token-percentage) slippage bounds.
package liquidity

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
	"github.com/hxuan190/clamm-core/internal/position"
)

// ByInputTokenParams is the input to IncreaseLiquidityQuoteByInputToken.
type ByInputTokenParams struct {
	Pool                 *domain.Pool
	TickLower, TickUpper int32
	InputMint            solana.PublicKey
	InputAmount          uint64
	Slippage             fixedpoint.Slippage
}

// ByLiquidityParams is the input to IncreaseLiquidityQuoteByLiquidity.
type ByLiquidityParams struct {
	Pool                 *domain.Pool
	TickLower, TickUpper int32
	Liquidity            *big.Int
	Slippage             fixedpoint.Slippage
}

// IncreaseLiquidityQuoteByInputToken validates the range and input
// mint, snaps the range to the pool's tickSpacing, derives the
// liquidity value from the deposited amount (4.B), then delegates to
// IncreaseLiquidityQuoteByLiquidity for the slippage-bound token
// amounts.
func IncreaseLiquidityQuoteByInputToken(p ByInputTokenParams) (*domain.LiquidityQuote, error) {
	if p.Pool == nil {
		return nil, clammerr.New(clammerr.PoolNotFound, "nil pool")
	}
	if !p.Pool.HasMint(p.InputMint) {
		return nil, clammerr.New(clammerr.InputMintMismatch, "input mint %s not in pool", p.InputMint)
	}

	tickLower, tickUpper, err := snapToInterior(p.TickLower, p.TickUpper, p.Pool.TickSpacing)
	if err != nil {
		return nil, err
	}

	if p.InputAmount == 0 {
		return zeroQuote(), nil
	}

	sqrtPLo, sqrtPHi, err := boundSqrtPrices(tickLower, tickUpper)
	if err != nil {
		return nil, err
	}

	class, err := position.Classify(p.Pool.TickCurrentIndex, tickLower, tickUpper)
	if err != nil {
		return nil, err
	}

	inputIsA := p.Pool.TokenMintA.Equals(p.InputMint)
	liquidity, _, _, err := position.AmountsByInputToken(class, inputIsA, p.InputAmount, p.Pool.SqrtPrice, sqrtPLo, sqrtPHi)
	if err != nil {
		return nil, err
	}

	return IncreaseLiquidityQuoteByLiquidity(ByLiquidityParams{
		Pool:      p.Pool,
		TickLower: tickLower,
		TickUpper: tickUpper,
		Liquidity: liquidity,
		Slippage:  p.Slippage,
	})
}

// IncreaseLiquidityQuoteByLiquidity computes the unslipped token
// estimate at the pool's current price, the token amounts at both
// price-based slippage bounds (4.A), and the component-wise maximum of
// the three as the deposit-safe tokenMax.
func IncreaseLiquidityQuoteByLiquidity(p ByLiquidityParams) (*domain.LiquidityQuote, error) {
	if p.Pool == nil {
		return nil, clammerr.New(clammerr.PoolNotFound, "nil pool")
	}
	tickLower, tickUpper, err := snapToInterior(p.TickLower, p.TickUpper, p.Pool.TickSpacing)
	if err != nil {
		return nil, err
	}
	if p.Liquidity == nil || p.Liquidity.Sign() == 0 {
		return zeroQuote(), nil
	}

	sqrtPLo, sqrtPHi, err := boundSqrtPrices(tickLower, tickUpper)
	if err != nil {
		return nil, err
	}

	estClass, err := position.Classify(p.Pool.TickCurrentIndex, tickLower, tickUpper)
	if err != nil {
		return nil, err
	}
	estA, estB, err := position.AmountsByLiquidity(estClass, p.Liquidity, p.Pool.SqrtPrice, sqrtPLo, sqrtPHi, true)
	if err != nil {
		return nil, err
	}

	boundA, boundB, err := slippageBoundAmounts(p.Pool, tickLower, tickUpper, p.Liquidity, sqrtPLo, sqrtPHi, p.Slippage)
	if err != nil {
		return nil, err
	}

	maxA := maxU64(estA, boundA.lo, boundA.hi)
	maxB := maxU64(estB, boundB.lo, boundB.hi)

	return &domain.LiquidityQuote{
		TokenMaxA:       new(big.Int).SetUint64(maxA),
		TokenMaxB:       new(big.Int).SetUint64(maxB),
		LiquidityAmount: new(big.Int).Set(p.Liquidity),
		TokenEstA:       new(big.Int).SetUint64(estA),
		TokenEstB:       new(big.Int).SetUint64(estB),
	}, nil
}

type boundPair struct{ lo, hi uint64 }

// slippageBoundAmounts computes the token amounts at the low and high
// price-based slippage bounds, each classified against the bound's own
// resolved tick (the position's relation to the range can change
// across the slippage envelope).
func slippageBoundAmounts(pool *domain.Pool, tickLower, tickUpper int32, liquidity *big.Int, sqrtPLo, sqrtPHi *big.Int, slippage fixedpoint.Slippage) (a, b boundPair, err error) {
	if slippage.Denominator == 0 {
		return boundPair{}, boundPair{}, nil
	}
	low, high, err := fixedpoint.GetSlippageBoundForSqrtPrice(pool.SqrtPrice, slippage)
	if err != nil {
		return boundPair{}, boundPair{}, err
	}

	loClass, err := position.Classify(low.Tick, tickLower, tickUpper)
	if err != nil {
		return boundPair{}, boundPair{}, err
	}
	aLo, bLo, err := position.AmountsByLiquidity(loClass, liquidity, low.SqrtPrice, sqrtPLo, sqrtPHi, true)
	if err != nil {
		return boundPair{}, boundPair{}, err
	}

	hiClass, err := position.Classify(high.Tick, tickLower, tickUpper)
	if err != nil {
		return boundPair{}, boundPair{}, err
	}
	aHi, bHi, err := position.AmountsByLiquidity(hiClass, liquidity, high.SqrtPrice, sqrtPLo, sqrtPHi, true)
	if err != nil {
		return boundPair{}, boundPair{}, err
	}

	return boundPair{lo: aLo, hi: aHi}, boundPair{lo: bLo, hi: bHi}, nil
}

func maxU64(vs ...uint64) uint64 {
	m := uint64(0)
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

func boundSqrtPrices(tickLower, tickUpper int32) (*big.Int, *big.Int, error) {
	sqrtPLo, err := fixedpoint.TickIndexToSqrtPriceX64(tickLower)
	if err != nil {
		return nil, nil, err
	}
	sqrtPHi, err := fixedpoint.TickIndexToSqrtPriceX64(tickUpper)
	if err != nil {
		return nil, nil, err
	}
	return sqrtPLo, sqrtPHi, nil
}

// snapToInterior validates the range and rounds each bound to the
// nearest tickSpacing multiple toward the interior of the range
// (tickLower rounds up, tickUpper rounds down), so a caller-supplied
// arbitrary range never claims liquidity outside an initialisable
// boundary.
func snapToInterior(tickLower, tickUpper int32, tickSpacing uint16) (int32, int32, error) {
	if tickSpacing == 0 {
		return 0, 0, clammerr.New(clammerr.InvalidTickRange, "zero tick spacing")
	}
	if tickLower < fixedpoint.MinTick || tickUpper > fixedpoint.MaxTick {
		return 0, 0, clammerr.New(clammerr.TickOutOfBounds, "range [%d, %d] exceeds [%d, %d]", tickLower, tickUpper, fixedpoint.MinTick, fixedpoint.MaxTick)
	}
	if tickLower >= tickUpper {
		return 0, 0, clammerr.New(clammerr.InvalidTickRange, "tickLower %d >= tickUpper %d", tickLower, tickUpper)
	}

	spacing := int32(tickSpacing)
	lower := ceilToMultiple(tickLower, spacing)
	upper := floorToMultiple(tickUpper, spacing)
	if lower >= upper {
		return 0, 0, clammerr.New(clammerr.InvalidTickRange, "range collapses after snapping to tickSpacing %d", tickSpacing)
	}
	return lower, upper, nil
}

func floorToMultiple(tick, spacing int32) int32 {
	q := tick / spacing
	if tick%spacing != 0 && tick < 0 {
		q--
	}
	return q * spacing
}

func ceilToMultiple(tick, spacing int32) int32 {
	q := tick / spacing
	if tick%spacing != 0 && tick > 0 {
		q++
	}
	return q * spacing
}

func zeroQuote() *domain.LiquidityQuote {
	return &domain.LiquidityQuote{
		TokenMaxA:       big.NewInt(0),
		TokenMaxB:       big.NewInt(0),
		LiquidityAmount: big.NewInt(0),
		TokenEstA:       big.NewInt(0),
		TokenEstB:       big.NewInt(0),
	}
}
