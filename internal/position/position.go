// Package position implements CLAMM position classification and the
// liquidity <-> token amount conversions for a given tick range.
package position

import (
	"math/big"

	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
)

// Classify reports a position's relation to the pool's current tick.
func Classify(tickCurrent, tickLower, tickUpper int32) (domain.Classification, error) {
	if tickLower >= tickUpper {
		return 0, clammerr.New(clammerr.InvalidTickRange, "tickLower %d >= tickUpper %d", tickLower, tickUpper)
	}
	switch {
	case tickCurrent < tickLower:
		return domain.Below, nil
	case tickCurrent < tickUpper:
		return domain.In, nil
	default:
		return domain.Above, nil
	}
}

// GetLiquidityFromTokenA inverts GetTokenAFromLiquidity: the liquidity
// that amount of token A buys between sqrtPLo and sqrtPHi.
//
// L = amount * sqrtPLo * sqrtPHi / (2^64 * (sqrtPHi - sqrtPLo))
func GetLiquidityFromTokenA(amount uint64, sqrtPLo, sqrtPHi *big.Int, roundUp bool) (*big.Int, error) {
	lo, hi := orderSqrtPrices(sqrtPLo, sqrtPHi)
	if lo.Sign() == 0 || hi.Sign() == 0 {
		return nil, clammerr.New(clammerr.DivideByZero, "zero sqrt price bound")
	}
	diff := new(big.Int).Sub(hi, lo)
	if diff.Sign() == 0 {
		return nil, clammerr.New(clammerr.DivideByZero, "zero-width tick range")
	}

	numerator := new(big.Int).Mul(new(big.Int).SetUint64(amount), lo)
	numerator.Mul(numerator, hi)
	q64 := new(big.Int).Lsh(big.NewInt(1), 64)
	denominator := new(big.Int).Mul(q64, diff)

	rem := new(big.Int)
	result := new(big.Int).DivMod(numerator, denominator, rem)
	if roundUp && rem.Sign() != 0 {
		result.Add(result, big.NewInt(1))
	}
	return result, nil
}

// GetLiquidityFromTokenB inverts GetTokenBFromLiquidity: the liquidity
// that amount of token B buys between sqrtPLo and sqrtPHi.
func GetLiquidityFromTokenB(amount uint64, sqrtPLo, sqrtPHi *big.Int, roundUp bool) (*big.Int, error) {
	lo, hi := orderSqrtPrices(sqrtPLo, sqrtPHi)
	diff := new(big.Int).Sub(hi, lo)
	if diff.Sign() == 0 {
		return nil, clammerr.New(clammerr.DivideByZero, "zero-width tick range")
	}
	q64 := new(big.Int).Lsh(big.NewInt(1), 64)
	numerator := new(big.Int).Mul(new(big.Int).SetUint64(amount), q64)

	rem := new(big.Int)
	result := new(big.Int).DivMod(numerator, diff, rem)
	if roundUp && rem.Sign() != 0 {
		result.Add(result, big.NewInt(1))
	}
	return result, nil
}

// GetTokenAFromLiquidity is GetAmountADelta under a friendlier name for
// the position-quoting call sites.
func GetTokenAFromLiquidity(liquidity *big.Int, sqrtPLo, sqrtPHi *big.Int, roundUp bool) (uint64, error) {
	return fixedpoint.GetAmountADelta(sqrtPLo, sqrtPHi, liquidity, roundUp)
}

// GetTokenBFromLiquidity is GetAmountBDelta under a friendlier name.
func GetTokenBFromLiquidity(liquidity *big.Int, sqrtPLo, sqrtPHi *big.Int, roundUp bool) (uint64, error) {
	return fixedpoint.GetAmountBDelta(sqrtPLo, sqrtPHi, liquidity, roundUp)
}

func orderSqrtPrices(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}
