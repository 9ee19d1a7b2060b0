package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// Classification is a position's relation to the pool's current tick.
type Classification int

const (
	Below Classification = iota
	In
	Above
)

func (c Classification) String() string {
	switch c {
	case Below:
		return "Below"
	case In:
		return "In"
	case Above:
		return "Above"
	default:
		return "Unknown"
	}
}

// SwapQuote is the result of simulating a single-pool swap.
type SwapQuote struct {
	EstimatedAmountIn    *big.Int
	EstimatedAmountOut   *big.Int
	EstimatedFeeAmount   *big.Int
	SqrtPriceEnd         *big.Int
	TickEnd              int32
	OtherAmountThreshold *big.Int
}

// LiquidityQuote is the result of an add-liquidity quote, either by
// input token or by liquidity.
type LiquidityQuote struct {
	TokenMaxA       *big.Int
	TokenMaxB       *big.Int
	LiquidityAmount *big.Int
	TokenEstA       *big.Int
	TokenEstB       *big.Int
}

// Hop is one single-pool swap within a multi-pool route.
type Hop struct {
	Pool       solana.PublicKey
	AToB       bool
	InputMint  solana.PublicKey
	OutputMint solana.PublicKey
	AmountIn   *big.Int
	AmountOut  *big.Int
	FeeAmount  *big.Int
}

// RouteQuote is a single route's quote at a given percent of the trade.
type RouteQuote struct {
	Route     []solana.PublicKey
	Percent   uint8
	AmountIn  *big.Int
	AmountOut *big.Int
	Hops      []Hop
}

// SplitResult is a ranked combination of RouteQuotes whose percents sum
// to 100.
type SplitResult struct {
	Quotes   []RouteQuote
	TotalIn  *big.Int
	TotalOut *big.Int
}

// Percent returns the sum of the member RouteQuotes' percents, which
// must equal 100 for any result returned from the router.
func (s SplitResult) Percent() int {
	total := 0
	for _, q := range s.Quotes {
		total += int(q.Percent)
	}
	return total
}
