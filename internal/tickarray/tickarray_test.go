package tickarray

import (
	"math/big"
	"testing"

	"github.com/hxuan190/clamm-core/internal/domain"
)

func buildArray(start int32, spacing uint16, initTicks ...int32) *domain.TickArray {
	arr := &domain.TickArray{StartTickIndex: start}
	set := make(map[int32]bool, len(initTicks))
	for _, t := range initTicks {
		set[t] = true
	}
	for i := 0; i < domain.TickArraySize; i++ {
		tick := start + int32(i)*int32(spacing)
		if set[tick] {
			arr.Ticks[i] = domain.TickArraySlot{Initialized: true, LiquidityNet: big.NewInt(int64(i + 1))}
		}
	}
	return arr
}

func TestNextInitializedTickAscending(t *testing.T) {
	spacing := uint16(8)
	arr := buildArray(0, spacing, 40, 88)
	tick, net, found := NextInitializedTick([]*domain.TickArray{arr}, 0, spacing, false)
	if !found {
		t.Fatal("expected a tick to be found")
	}
	if tick != 40 {
		t.Errorf("tick = %d, want 40", tick)
	}
	if net.Sign() == 0 {
		t.Error("liquidityNet should be nonzero")
	}
}

func TestNextInitializedTickDescending(t *testing.T) {
	spacing := uint16(8)
	arr := buildArray(0, spacing, 40, 88)
	tick, _, found := NextInitializedTick([]*domain.TickArray{arr}, 100, spacing, true)
	if !found {
		t.Fatal("expected a tick to be found")
	}
	if tick != 88 {
		t.Errorf("tick = %d, want 88", tick)
	}
}

func TestNextInitializedTickExhausted(t *testing.T) {
	spacing := uint16(8)
	arr := buildArray(0, spacing)
	_, _, found := NextInitializedTick([]*domain.TickArray{arr}, 0, spacing, false)
	if found {
		t.Error("expected no tick found in an array with no initialised slots")
	}
}

func TestNextInitializedTickSpansArrays(t *testing.T) {
	spacing := uint16(8)
	ticksPerArray := int32(spacing) * domain.TickArraySize
	first := buildArray(0, spacing)
	second := buildArray(ticksPerArray, spacing, ticksPerArray+16)
	tick, _, found := NextInitializedTick([]*domain.TickArray{first, second}, 0, spacing, false)
	if !found {
		t.Fatal("expected a tick in the second array")
	}
	if tick != ticksPerArray+16 {
		t.Errorf("tick = %d, want %d", tick, ticksPerArray+16)
	}
}

func TestStartTickIndexForTick(t *testing.T) {
	spacing := uint16(8)
	ticksPerArray := int32(spacing) * domain.TickArraySize
	tests := []struct {
		tick int32
		want int32
	}{
		{0, 0},
		{ticksPerArray - 1, 0},
		{ticksPerArray, ticksPerArray},
		{-1, -ticksPerArray},
		{-ticksPerArray, -ticksPerArray},
	}
	for _, tt := range tests {
		got := StartTickIndexForTick(tt.tick, spacing)
		if got != tt.want {
			t.Errorf("StartTickIndexForTick(%d) = %d, want %d", tt.tick, got, tt.want)
		}
	}
}
