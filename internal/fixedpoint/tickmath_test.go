package fixedpoint

import (
	"math/big"
	"testing"
)

// TestTickIndexToSqrtPriceX64Zero seeds S1: tick 0 maps to exactly 2^64.
func TestTickIndexToSqrtPriceX64Zero(t *testing.T) {
	got, err := TickIndexToSqrtPriceX64(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 64)
	if got.Cmp(want) != 0 {
		t.Errorf("TickIndexToSqrtPriceX64(0) = %s, want %s", got, want)
	}
}

// TestSqrtPriceX64ToTickIndexZero seeds S1's inverse.
func TestSqrtPriceX64ToTickIndexZero(t *testing.T) {
	p := new(big.Int).Lsh(big.NewInt(1), 64)
	got, err := SqrtPriceX64ToTickIndex(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("SqrtPriceX64ToTickIndex(2^64) = %d, want 0", got)
	}
}

// TestTickRoundTrip checks invariant 1 (round-trip) across a sample of
// ticks spanning the valid range, not every tick (a mechanical grid
// adds no coverage beyond a representative sample).
func TestTickRoundTrip(t *testing.T) {
	ticks := []int32{
		0, 1, -1, 64, -64, 128, -128, 1000, -1000,
		22222, -22222, 100000, -100000, 300000, -300000,
		MinTick, MaxTick, MinTick + 1, MaxTick - 1,
	}
	for _, tick := range ticks {
		t.Run("", func(t *testing.T) {
			sqrtPrice, err := TickIndexToSqrtPriceX64(tick)
			if err != nil {
				t.Fatalf("TickIndexToSqrtPriceX64(%d): %v", tick, err)
			}
			got, err := SqrtPriceX64ToTickIndex(sqrtPrice)
			if err != nil {
				t.Fatalf("SqrtPriceX64ToTickIndex round trip for tick %d: %v", tick, err)
			}
			if got != tick {
				t.Errorf("round trip for tick %d produced %d", tick, got)
			}
		})
	}
}

// TestTickMonotonicity checks invariant 2.
func TestTickMonotonicity(t *testing.T) {
	ticks := []int32{-300000, -1000, -1, 0, 1, 1000, 300000}
	var prev *big.Int
	for _, tick := range ticks {
		sqrtPrice, err := TickIndexToSqrtPriceX64(tick)
		if err != nil {
			t.Fatalf("TickIndexToSqrtPriceX64(%d): %v", tick, err)
		}
		if prev != nil && prev.Cmp(sqrtPrice) >= 0 {
			t.Errorf("sqrt price not strictly increasing at tick %d", tick)
		}
		prev = sqrtPrice
	}
}

func TestTickIndexToSqrtPriceX64OutOfBounds(t *testing.T) {
	if _, err := TickIndexToSqrtPriceX64(MaxTick + 1); err == nil {
		t.Error("expected error for tick beyond MaxTick")
	}
	if _, err := TickIndexToSqrtPriceX64(MinTick - 1); err == nil {
		t.Error("expected error for tick beyond MinTick")
	}
}
