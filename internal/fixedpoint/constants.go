package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// MinTick and MaxTick bound the tick index range, symmetric around
	// zero, matching the on-chain CLAMM program's tick bounds.
	MinTick int32 = -443636
	MaxTick int32 = 443636

	// tickArrayBitWidth is the highest bit of |t| the precomputed
	// product-of-powers table below needs to cover; 0x80000 (bit 19)
	// comfortably covers |MaxTick| = 443636 < 524288.
	tickArrayBitWidth = 0x80000
)

// q64One is Q64.64's fixed-point one: 2^64.
var q64One = new(uint256.Int).Lsh(uint256.NewInt(1), 64)

// Q64One returns Q64.64's representation of 1.0 as a *uint256.Int
// snapshot; callers must not mutate the returned value.
func Q64One() *uint256.Int {
	return q64One
}

// MinSqrtPrice and MaxSqrtPrice are the sqrt-price bounds corresponding
// to MinTick/MaxTick, computed once at package init.
var (
	minSqrtPrice = tickIndexToSqrtPriceX64U256(MinTick)
	maxSqrtPrice = tickIndexToSqrtPriceX64U256(MaxTick)
)

// MinSqrtPrice returns the sqrt-price bound corresponding to MinTick.
func MinSqrtPrice() *big.Int { return minSqrtPrice.ToBig() }

// MaxSqrtPrice returns the sqrt-price bound corresponding to MaxTick.
func MaxSqrtPrice() *big.Int { return maxSqrtPrice.ToBig() }
