package position

import (
	"math/big"

	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
)

// AmountsByInputToken implements the per-classification table in
// spec §4.B: given the position's classification, the sqrt-price
// bounds of the range and the current sqrt price, compute the
// liquidity and both token amounts resulting from depositing amount of
// the input token.
func AmountsByInputToken(
	class domain.Classification,
	inputIsA bool,
	amount uint64,
	sqrtP, sqrtPLo, sqrtPHi *big.Int,
) (liquidity *big.Int, tokenA, tokenB uint64, err error) {
	if amount == 0 {
		return new(big.Int), 0, 0, nil
	}

	switch class {
	case domain.Below:
		if !inputIsA {
			return new(big.Int), 0, 0, nil
		}
		liquidity, err = GetLiquidityFromTokenA(amount, sqrtPLo, sqrtPHi, false)
		if err != nil {
			return nil, 0, 0, err
		}
		tokenA, err = GetTokenAFromLiquidity(liquidity, sqrtPLo, sqrtPHi, true)
		if err != nil {
			return nil, 0, 0, err
		}
		return liquidity, tokenA, 0, nil

	case domain.Above:
		if inputIsA {
			return new(big.Int), 0, 0, nil
		}
		liquidity, err = GetLiquidityFromTokenB(amount, sqrtPLo, sqrtPHi, false)
		if err != nil {
			return nil, 0, 0, err
		}
		tokenB, err = GetTokenBFromLiquidity(liquidity, sqrtPLo, sqrtPHi, true)
		if err != nil {
			return nil, 0, 0, err
		}
		return liquidity, 0, tokenB, nil

	case domain.In:
		if inputIsA {
			liquidity, err = GetLiquidityFromTokenA(amount, sqrtP, sqrtPHi, false)
			if err != nil {
				return nil, 0, 0, err
			}
			tokenA, err = GetTokenAFromLiquidity(liquidity, sqrtP, sqrtPHi, true)
			if err != nil {
				return nil, 0, 0, err
			}
			tokenB, err = GetTokenBFromLiquidity(liquidity, sqrtPLo, sqrtP, true)
			if err != nil {
				return nil, 0, 0, err
			}
			return liquidity, tokenA, tokenB, nil
		}
		liquidity, err = GetLiquidityFromTokenB(amount, sqrtPLo, sqrtP, false)
		if err != nil {
			return nil, 0, 0, err
		}
		tokenB, err = GetTokenBFromLiquidity(liquidity, sqrtPLo, sqrtP, true)
		if err != nil {
			return nil, 0, 0, err
		}
		tokenA, err = GetTokenAFromLiquidity(liquidity, sqrtP, sqrtPHi, true)
		if err != nil {
			return nil, 0, 0, err
		}
		return liquidity, tokenA, tokenB, nil

	default:
		return nil, 0, 0, clammerr.New(clammerr.InvalidTickRange, "unknown classification %v", class)
	}
}

// AmountsByLiquidity computes the unslipped token amounts for a given
// liquidity value at sqrtP, using the same per-classification shape as
// AmountsByInputToken but driven by an already-known liquidity.
func AmountsByLiquidity(
	class domain.Classification,
	liquidity *big.Int,
	sqrtP, sqrtPLo, sqrtPHi *big.Int,
	roundUp bool,
) (tokenA, tokenB uint64, err error) {
	if liquidity.Sign() == 0 {
		return 0, 0, nil
	}
	switch class {
	case domain.Below:
		tokenA, err = GetTokenAFromLiquidity(liquidity, sqrtPLo, sqrtPHi, roundUp)
		return tokenA, 0, err
	case domain.Above:
		tokenB, err = GetTokenBFromLiquidity(liquidity, sqrtPLo, sqrtPHi, roundUp)
		return 0, tokenB, err
	case domain.In:
		tokenA, err = GetTokenAFromLiquidity(liquidity, sqrtP, sqrtPHi, roundUp)
		if err != nil {
			return 0, 0, err
		}
		tokenB, err = GetTokenBFromLiquidity(liquidity, sqrtPLo, sqrtP, roundUp)
		if err != nil {
			return 0, 0, err
		}
		return tokenA, tokenB, nil
	default:
		return 0, 0, clammerr.New(clammerr.InvalidTickRange, "unknown classification %v", class)
	}
}
