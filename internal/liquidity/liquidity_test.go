package liquidity

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
)

func testPool(tick int32) *domain.Pool {
	sqrtP, _ := fixedpoint.TickIndexToSqrtPriceX64(tick)
	return &domain.Pool{
		TokenMintA:       solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		TokenMintB:       solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		TickSpacing:      8,
		FeeRate:          3000,
		SqrtPrice:        sqrtP,
		TickCurrentIndex: tick,
		Liquidity:        big.NewInt(0),
	}
}

func TestIncreaseLiquidityQuoteByInputTokenIn(t *testing.T) {
	pool := testPool(0)
	quote, err := IncreaseLiquidityQuoteByInputToken(ByInputTokenParams{
		Pool:        pool,
		TickLower:   -64,
		TickUpper:   64,
		InputMint:   pool.TokenMintA,
		InputAmount: 1_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.LiquidityAmount.Sign() <= 0 {
		t.Error("expected nonzero liquidity")
	}
	if quote.TokenEstA.Sign() <= 0 || quote.TokenEstB.Sign() <= 0 {
		t.Error("in-range deposit should require both tokens")
	}
	if quote.TokenMaxA.Cmp(quote.TokenEstA) < 0 {
		t.Error("tokenMaxA should be >= tokenEstA")
	}
}

func TestIncreaseLiquidityQuoteByInputTokenMintMismatch(t *testing.T) {
	pool := testPool(0)
	other := solana.NewWallet().PublicKey()
	_, err := IncreaseLiquidityQuoteByInputToken(ByInputTokenParams{
		Pool:        pool,
		TickLower:   -64,
		TickUpper:   64,
		InputMint:   other,
		InputAmount: 1000,
	})
	if err == nil {
		t.Fatal("expected error for mint not in pool")
	}
}

func TestIncreaseLiquidityQuoteByInputTokenZero(t *testing.T) {
	pool := testPool(0)
	quote, err := IncreaseLiquidityQuoteByInputToken(ByInputTokenParams{
		Pool:        pool,
		TickLower:   -64,
		TickUpper:   64,
		InputMint:   pool.TokenMintA,
		InputAmount: 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if quote.LiquidityAmount.Sign() != 0 {
		t.Error("zero input should yield zero liquidity")
	}
}

func TestIncreaseLiquidityQuoteByLiquidityWithSlippage(t *testing.T) {
	pool := testPool(0)
	quote, err := IncreaseLiquidityQuoteByLiquidity(ByLiquidityParams{
		Pool:      pool,
		TickLower: -64,
		TickUpper: 64,
		Liquidity: big.NewInt(1_000_000_000),
		Slippage:  fixedpoint.Slippage{Numerator: 1, Denominator: 100},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TokenMaxA.Cmp(quote.TokenEstA) < 0 || quote.TokenMaxB.Cmp(quote.TokenEstB) < 0 {
		t.Error("slippage-bound max should be >= the unslipped estimate")
	}
}

func TestSnapToInteriorCollapses(t *testing.T) {
	_, _, err := snapToInterior(1, 7, 8)
	if err == nil {
		t.Fatal("expected collapse error when the range is narrower than one tickSpacing")
	}
}

func TestSnapToInteriorRounds(t *testing.T) {
	lower, upper, err := snapToInterior(3, 61, 8)
	if err != nil {
		t.Fatal(err)
	}
	if lower != 8 {
		t.Errorf("lower = %d, want 8", lower)
	}
	if upper != 56 {
		t.Errorf("upper = %d, want 56", upper)
	}
}
