package fixedpoint

import (
	"math/big"

	"github.com/hxuan190/clamm-core/internal/clammerr"

	"github.com/holiman/uint256"
)

// Precomputed per-bit ratio constants for the product-of-powers
// algorithm: ratio(|t|) = product over set bits b of |t| of
// sqrt(1.0001)^(-b), each factor expressed in Q128 fixed point. Tick
// bit 0 is folded into the seed value below. These are the standard
// constants used by every CLAMM implementation derived from the
// Uniswap V3 tick-math reference; they are format-independent (Q128
// intermediate precision), so the same table serves Q64.64 output as
// it would Q64.96.
var tickRatioConstants = []struct {
	bit   int32
	value *uint256.Int
}{
	{0x2, uint256.MustFromHex("0xfff97272373d413259a46990580e213a")},
	{0x4, uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc")},
	{0x8, uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0")},
	{0x10, uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644")},
	{0x20, uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0")},
	{0x40, uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861")},
	{0x80, uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053")},
	{0x100, uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4")},
	{0x200, uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54")},
	{0x400, uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3")},
	{0x800, uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9")},
	{0x1000, uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825")},
	{0x2000, uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5")},
	{0x4000, uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7")},
	{0x8000, uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6")},
	{0x10000, uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9")},
	{0x20000, uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604")},
	{0x40000, uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98")},
	{0x80000, uint256.MustFromHex("0x48a170391f7dc42444e8fa2")},
}

var (
	tickRatioSeedOdd  = uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	tickRatioSeedEven = uint256.MustFromHex("0x100000000000000000000000000000000")
	maxUint256        = new(uint256.Int).Not(uint256.NewInt(0))
)

// TickIndexToSqrtPriceX64 computes sqrt(1.0001^t) in Q64.64, exact via
// the product-of-powers bit-decomposition algorithm. Monotonically
// non-decreasing in t.
func TickIndexToSqrtPriceX64(t int32) (*big.Int, error) {
	if t < MinTick || t > MaxTick {
		return nil, clammerr.New(clammerr.TickOutOfBounds, "tick %d out of [%d, %d]", t, MinTick, MaxTick)
	}
	return tickIndexToSqrtPriceX64U256(t).ToBig(), nil
}

// tickIndexToSqrtPriceX64U256 is the unchecked, allocation-light core
// used both by the public entry point and by package-internal callers
// (e.g. precomputing MinSqrtPrice/MaxSqrtPrice at init, before error
// plumbing is useful).
func tickIndexToSqrtPriceX64U256(t int32) *uint256.Int {
	absTick := t
	if absTick < 0 {
		absTick = -absTick
	}

	var ratio *uint256.Int
	if absTick&0x1 != 0 {
		ratio = new(uint256.Int).Set(tickRatioSeedOdd)
	} else {
		ratio = new(uint256.Int).Set(tickRatioSeedEven)
	}

	for _, c := range tickRatioConstants {
		if absTick&c.bit != 0 {
			ratio = mulShift128(ratio, c.value)
		}
	}

	if t > 0 {
		ratio = new(uint256.Int).Div(maxUint256, ratio)
	}

	// ratio is Q128; truncate down to Q64.64, rounding up on any
	// nonzero remainder so the result never understates the price.
	rem := new(uint256.Int).Mod(ratio, q64One)
	out := new(uint256.Int).Div(ratio, q64One)
	if !rem.IsZero() {
		out = new(uint256.Int).Add(out, uint256.NewInt(1))
	}
	return out
}

// SqrtPriceX64ToTickIndex returns the greatest tick t such that
// TickIndexToSqrtPriceX64(t) <= p.
func SqrtPriceX64ToTickIndex(p *big.Int) (int32, error) {
	if p.Sign() < 0 {
		return 0, clammerr.New(clammerr.TickOutOfBounds, "negative sqrt price")
	}
	pu, overflow := uint256.FromBig(p)
	if overflow {
		return 0, clammerr.New(clammerr.ArithmeticOverflow, "sqrt price exceeds 256 bits")
	}
	if pu.Cmp(minSqrtPrice) < 0 || pu.Cmp(maxSqrtPrice) > 0 {
		return 0, clammerr.New(clammerr.TickOutOfBounds, "sqrt price out of range")
	}
	return sqrtPriceX64ToTickIndexU256(pu), nil
}

func sqrtPriceX64ToTickIndexU256(sqrtPriceX64 *uint256.Int) int32 {
	// Lift Q64.64 to the Q128 intermediate precision the bit-decomposition
	// table operates in (mirrors the Q64.96 reference's Lsh-by-32; here
	// we still land on Q128 since the input is already 64 fractional
	// bits shy of it).
	x128 := new(uint256.Int).Lsh(sqrtPriceX64, 64)

	msb := mostSignificantBit(x128)

	var r *uint256.Int
	if msb >= 128 {
		r = new(uint256.Int).Rsh(x128, uint(msb-127))
	} else {
		r = new(uint256.Int).Lsh(x128, uint(127-msb))
	}

	log2 := new(uint256.Int).Lsh(i32ToU256(int32(msb)-128), 64)

	for i := 0; i < 14; i++ {
		sq := getU256()
		sq.Mul(r, r)
		r = new(uint256.Int).Rsh(sq, 127)
		putU256(sq)
		f := new(uint256.Int).Rsh(r, 128)
		log2 = new(uint256.Int).Or(log2, new(uint256.Int).Lsh(f, uint(63-i)))
		r = new(uint256.Int).Rsh(r, uint(f.Uint64()))
	}

	magicSqrt10001 := uint256.MustFromHex("0x3627A301D71055774C85")
	logSqrt10001 := new(uint256.Int).Mul(log2, magicSqrt10001)

	magicTickLow := uint256.MustFromHex("0x28F6481AB7F045A5AF012A19D003AAA")
	magicTickHigh := uint256.MustFromHex("0xDB2DF09E81959A81455E260799A0632F")

	tickLow := int32(new(uint256.Int).Rsh(u256Sub(logSqrt10001, magicTickLow), 128).Uint64())
	tickHigh := int32(new(uint256.Int).Rsh(new(uint256.Int).Add(logSqrt10001, magicTickHigh), 128).Uint64())

	if tickLow == tickHigh {
		return tickLow
	}
	if tickIndexToSqrtPriceX64U256(tickHigh).Cmp(sqrtPriceX64) <= 0 {
		return tickHigh
	}
	return tickLow
}

// u256Sub handles the log2 calculation's one genuinely signed step:
// logSqrt10001 can be smaller than magicTickLow, and the reference
// algorithm relies on two's-complement wraparound (the same trick the
// Solidity/Rust originals use) rather than true signed arithmetic,
// since the subsequent Rsh-by-128 and cast back to int32 recovers the
// intended (possibly negative) tick.
func u256Sub(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sub(a, b)
}

func i32ToU256(v int32) *uint256.Int {
	if v >= 0 {
		return uint256.NewInt(uint64(v))
	}
	// Two's complement over 256 bits, matching the reference's signed
	// shift-then-mask behaviour for a negative (msb-128) term.
	u := uint256.NewInt(uint64(-v))
	return new(uint256.Int).Sub(uint256.NewInt(0), u)
}

func mostSignificantBit(x *uint256.Int) int {
	msb := 0
	for _, power := range []uint{128, 64, 32, 16, 8, 4, 2, 1} {
		min := new(uint256.Int).Lsh(uint256.NewInt(1), power)
		if x.Cmp(min) >= 0 {
			x = new(uint256.Int).Rsh(x, power)
			msb += int(power)
		}
	}
	return msb
}

func mulShift128(val, mulBy *uint256.Int) *uint256.Int {
	tmp := getU256()
	defer putU256(tmp)
	tmp.Mul(val, mulBy)
	return new(uint256.Int).Rsh(tmp, 128)
}
