package fetcher

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
)

// accountPool mirrors the on-chain layout of a CLAMM pool account,
// discriminator stripped by the caller. Field order and widths follow
// the Whirlpool-style account format (Q64.64 sqrt price, u128
// liquidity, u16 fee rate).
type accountPool struct {
	TokenMintA  solana.PublicKey
	TokenMintB  solana.PublicKey
	TokenVaultA solana.PublicKey
	TokenVaultB solana.PublicKey

	TickSpacing      uint16
	FeeRate          uint16
	TickCurrentIndex int32
	SqrtPrice        [16]uint8 // u128 LE
	Liquidity        [16]uint8 // u128 LE
}

// accountTickSlot mirrors one slot of a tick-array account.
type accountTickSlot struct {
	Initialized  bool
	LiquidityNet [16]uint8 // i128 LE, two's complement
}

// accountTickArray mirrors the on-chain layout of a tick-array
// account, discriminator stripped by the caller.
type accountTickArray struct {
	StartTickIndex int32
	Ticks          [domain.TickArraySize]accountTickSlot
}

// Encoded sizes of the layouts above, discriminator excluded.
const (
	poolAccountSize      = 4*32 + 2 + 2 + 4 + 16 + 16
	tickArrayAccountSize = 4 + domain.TickArraySize*(1+16)
)

// DecodePool parses raw pool account data (including the 8-byte Anchor
// discriminator, if present) into a domain.Pool.
func DecodePool(address solana.PublicKey, data []byte) (*domain.Pool, error) {
	data = stripDiscriminator(data, poolAccountSize)
	var acc accountPool
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, err
	}
	return &domain.Pool{
		Address:          address,
		TokenMintA:       acc.TokenMintA,
		TokenMintB:       acc.TokenMintB,
		TokenVaultA:      acc.TokenVaultA,
		TokenVaultB:      acc.TokenVaultB,
		TickSpacing:      acc.TickSpacing,
		FeeRate:          acc.FeeRate,
		SqrtPrice:        leUnsigned(acc.SqrtPrice[:]),
		TickCurrentIndex: acc.TickCurrentIndex,
		Liquidity:        leUnsigned(acc.Liquidity[:]),
	}, nil
}

// DecodeTickArray parses raw tick-array account data (including the
// 8-byte Anchor discriminator, if present) into a domain.TickArray.
func DecodeTickArray(poolAddress solana.PublicKey, data []byte) (*domain.TickArray, error) {
	data = stripDiscriminator(data, tickArrayAccountSize)
	var acc accountTickArray
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, err
	}
	out := &domain.TickArray{
		PoolAddress:    poolAddress,
		StartTickIndex: acc.StartTickIndex,
	}
	for i, slot := range acc.Ticks {
		out.Ticks[i] = domain.TickArraySlot{
			Initialized:  slot.Initialized,
			LiquidityNet: leSigned(slot.LiquidityNet[:]),
		}
	}
	return out, nil
}

// stripDiscriminator drops the leading 8 bytes when data is long enough
// to hold a discriminator in front of a layoutSize-byte account body.
func stripDiscriminator(data []byte, layoutSize int) []byte {
	if len(data) >= layoutSize+8 {
		return data[8:]
	}
	return data
}

// leUnsigned interprets b as an unsigned little-endian integer.
func leUnsigned(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// leSigned interprets b as a two's-complement little-endian signed
// integer.
func leSigned(b []byte) *big.Int {
	v := leUnsigned(b)
	if len(b) == 0 || b[len(b)-1]&0x80 == 0 {
		return v
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
	return v.Sub(v, mod)
}
