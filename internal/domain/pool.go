// Package domain holds the wire-compatible types shared by the
// fixed-point, quoting and routing packages: pools, tick arrays, hops
// and route/split results.
package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// TickArraySize is the number of tick slots in a single TickArray
// account, matching the on-chain Whirlpool layout.
const TickArraySize = 88

// Pool is a CLAMM pool's off-chain-relevant state.
type Pool struct {
	Address     solana.PublicKey
	TokenMintA  solana.PublicKey
	TokenMintB  solana.PublicKey
	TokenVaultA solana.PublicKey
	TokenVaultB solana.PublicKey

	TickSpacing      uint16
	FeeRate          uint16 // ppm, numerator over 1_000_000
	SqrtPrice        *big.Int
	TickCurrentIndex int32
	Liquidity        *big.Int
}

// HasMint reports whether mint is one of the pool's two token mints.
func (p *Pool) HasMint(mint solana.PublicKey) bool {
	return p.TokenMintA.Equals(mint) || p.TokenMintB.Equals(mint)
}

// OtherMint returns the pool's mint that isn't mint. Callers must have
// already checked HasMint.
func (p *Pool) OtherMint(mint solana.PublicKey) solana.PublicKey {
	if p.TokenMintA.Equals(mint) {
		return p.TokenMintB
	}
	return p.TokenMintA
}

// AToB reports the swap direction implied by trading tradeMint in.
func (p *Pool) AToB(tradeMint solana.PublicKey) bool {
	return p.TokenMintA.Equals(tradeMint)
}

// TickArraySlot is a single initialisable tick within a TickArray.
type TickArraySlot struct {
	Initialized  bool
	LiquidityNet *big.Int // i128, signed
}

// TickArray is a dense, contiguous slab of TickArraySize tick slots.
type TickArray struct {
	PoolAddress    solana.PublicKey
	StartTickIndex int32
	Ticks          [TickArraySize]TickArraySlot
}

// TickSlotIndex returns the slot offset of tick within this array,
// given the pool's tickSpacing, or false if tick doesn't fall in the
// array's range.
func (a *TickArray) TickSlotIndex(tick int32, tickSpacing uint16) (int, bool) {
	if tickSpacing == 0 {
		return 0, false
	}
	offset := tick - a.StartTickIndex
	if offset < 0 {
		return 0, false
	}
	idx := int(offset) / int(tickSpacing)
	if idx >= TickArraySize {
		return 0, false
	}
	if offset%int32(tickSpacing) != 0 {
		return 0, false
	}
	return idx, true
}

// EndTickIndex returns the exclusive upper tick bound covered by this
// array given the pool's tickSpacing.
func (a *TickArray) EndTickIndex(tickSpacing uint16) int32 {
	return a.StartTickIndex + int32(tickSpacing)*TickArraySize
}

// PositionRange is a liquidity position's tick bounds.
type PositionRange struct {
	TickLower int32
	TickUpper int32
}
