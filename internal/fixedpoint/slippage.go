package fixedpoint

import (
	"math/big"

	"github.com/hxuan190/clamm-core/internal/clammerr"
)

// Slippage is a non-negative rational percentage, numerator over
// denominator (e.g. 50/10000 for 0.5%).
type Slippage struct {
	Numerator   uint64
	Denominator uint64
}

// SlippageBound is one side (low or high) of a price-based slippage
// envelope: the bounding sqrt price and the tick it resolves to.
type SlippageBound struct {
	SqrtPrice *big.Int
	Tick      int32
}

// GetSlippageBoundForSqrtPrice scales the *price* (sqrtPrice^2, not the
// sqrt price itself) by (1-s) and (1+s), takes the square root of each,
// and resolves the corresponding tick (floor for the low bound, ceil
// for the high bound). This is the authoritative, price-faithful
// slippage method; it must be used in preference to token-percentage
// slippage on amount estimates, which under- or over-protects
// depending on which side of the range the price sits in.
func GetSlippageBoundForSqrtPrice(sqrtPrice *big.Int, slippage Slippage) (low, high SlippageBound, err error) {
	if slippage.Denominator == 0 {
		return low, high, clammerr.New(clammerr.DivideByZero, "zero slippage denominator")
	}
	if slippage.Numerator > slippage.Denominator {
		return low, high, clammerr.New(clammerr.InvalidTickRange, "slippage above 100%%")
	}

	den := new(big.Int).SetUint64(slippage.Denominator)
	num := new(big.Int).SetUint64(slippage.Numerator)

	price := new(big.Int).Mul(sqrtPrice, sqrtPrice) // Q128.128

	lowFactor := new(big.Int).Sub(den, num)
	lowPriceScaled := new(big.Int).Mul(price, lowFactor)
	lowPriceScaled.Div(lowPriceScaled, den)
	lowSqrt := new(big.Int).Sqrt(lowPriceScaled)

	highFactor := new(big.Int).Add(den, num)
	highPriceScaled := new(big.Int).Mul(price, highFactor)
	highPriceScaled.Div(highPriceScaled, den)
	highSqrt := new(big.Int).Sqrt(highPriceScaled)
	// ceil the sqrt itself, so the high bound never understates price.
	check := new(big.Int).Mul(highSqrt, highSqrt)
	if check.Cmp(highPriceScaled) < 0 {
		highSqrt.Add(highSqrt, big.NewInt(1))
	}

	lowTick, err := SqrtPriceX64ToTickIndex(lowSqrt)
	if err != nil {
		return low, high, err
	}

	highFloorTick, err := SqrtPriceX64ToTickIndex(highSqrt)
	if err != nil {
		return low, high, err
	}
	highTick := highFloorTick
	atFloor, err := TickIndexToSqrtPriceX64(highFloorTick)
	if err != nil {
		return low, high, err
	}
	if atFloor.Cmp(highSqrt) < 0 {
		highTick = highFloorTick + 1
		if highTick > MaxTick {
			return low, high, clammerr.New(clammerr.TickOutOfBounds, "high slippage bound tick exceeds MaxTick")
		}
	}

	low = SlippageBound{SqrtPrice: lowSqrt, Tick: lowTick}
	high = SlippageBound{SqrtPrice: highSqrt, Tick: highTick}
	return low, high, nil
}
