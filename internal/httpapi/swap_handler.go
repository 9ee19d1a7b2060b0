package httpapi

import (
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fetcher"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
	"github.com/hxuan190/clamm-core/internal/metrics"
	"github.com/hxuan190/clamm-core/internal/swapquote"
)

// SwapHandler serves spec §6's swapQuote entry point.
type SwapHandler struct {
	fetcher fetcher.Fetcher
}

func NewSwapHandler(f fetcher.Fetcher) *SwapHandler {
	return &SwapHandler{fetcher: f}
}

func (h *SwapHandler) Root() string {
	return "/quote/swap"
}

func (h *SwapHandler) SetRoutes(group *gin.RouterGroup) {
	group.POST("", h.quote)
}

// SwapQuoteRequest is the body for a single-pool swap quote.
type SwapQuoteRequest struct {
	// Pool address to quote against.
	PoolAddress string `json:"poolAddress" binding:"required" example:"HJPjoWUrhoZzkNfRpHuieeFk9WcZWjwy6PBjZ81ngndJ"`

	// Addresses of the (up to three) tick arrays the pool's current
	// tick bucket falls within, in either swap direction.
	TickArrayAddresses []string `json:"tickArrayAddresses" binding:"required"`

	// Amount specified in smallest token units — the exact input when
	// amountSpecifiedIsInput is true, otherwise the exact output.
	AmountSpecified string `json:"amountSpecified" binding:"required" example:"1000000000"`

	// Swap direction: true swaps token A for token B.
	AToB bool `json:"aToB"`

	// Whether AmountSpecified is the input (true) or output (false).
	AmountSpecifiedIsInput bool `json:"amountSpecifiedIsInput"`

	// Slippage tolerance in basis points (1 bps = 0.01%). Default 50.
	SlippageBps uint16 `json:"slippageBps" example:"50"`
}

// SwapQuoteResponse mirrors domain.SwapQuote in wire-friendly form.
type SwapQuoteResponse struct {
	EstimatedAmountIn    string `json:"estimatedAmountIn"`
	EstimatedAmountOut   string `json:"estimatedAmountOut"`
	EstimatedFeeAmount   string `json:"estimatedFeeAmount"`
	TickEnd              int32  `json:"tickEnd"`
	OtherAmountThreshold string `json:"otherAmountThreshold"`
}

func (h *SwapHandler) quote(c *gin.Context) {
	start := time.Now()
	swapMode := "ExactIn"

	var req SwapQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !req.AmountSpecifiedIsInput {
		swapMode = "ExactOut"
	}
	status := "ok"
	defer func() {
		metrics.SwapQuoteRequests.WithLabelValues(swapMode, status).Inc()
		metrics.SwapQuoteDuration.WithLabelValues(swapMode).Observe(time.Since(start).Seconds())
	}()

	poolAddr, err := solana.PublicKeyFromBase58(req.PoolAddress)
	if err != nil {
		status = "error"
		badRequest(c, "invalid poolAddress")
		return
	}
	amount, ok := new(big.Int).SetString(req.AmountSpecified, 10)
	if !ok || amount.Sign() <= 0 || !amount.IsUint64() {
		status = "error"
		badRequest(c, "amountSpecified must be a positive integer that fits in u64")
		return
	}

	pool, err := h.fetcher.GetPool(c.Request.Context(), poolAddr, fetcher.PreferCache)
	if err != nil {
		status = "error"
		internalError(c, err.Error())
		return
	}
	if pool == nil {
		status = "error"
		notFound(c, "pool not found")
		return
	}

	tickArrayAddrs := make([]solana.PublicKey, len(req.TickArrayAddresses))
	for i, raw := range req.TickArrayAddresses {
		addr, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			status = "error"
			badRequest(c, "invalid tickArrayAddresses entry")
			return
		}
		tickArrayAddrs[i] = addr
	}
	tickArrays, err := h.fetcher.ListTickArrays(c.Request.Context(), tickArrayAddrs, fetcher.PreferCache)
	if err != nil {
		status = "error"
		internalError(c, err.Error())
		return
	}
	present := make([]*domain.TickArray, 0, len(tickArrays))
	for _, a := range tickArrays {
		if a != nil {
			present = append(present, a)
		}
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = 50
	}

	quote, err := swapquote.Compute(swapquote.Params{
		Pool:                   pool,
		AmountSpecified:        amount.Uint64(),
		AToB:                   req.AToB,
		AmountSpecifiedIsInput: req.AmountSpecifiedIsInput,
		TickArrays:             present,
		Slippage:               fixedpoint.Slippage{Numerator: uint64(slippageBps), Denominator: 10000},
	})
	if err != nil {
		status = "error"
		st, msg := errStatus(err)
		fail(c, st, msg)
		return
	}

	success(c, SwapQuoteResponse{
		EstimatedAmountIn:    quote.EstimatedAmountIn.String(),
		EstimatedAmountOut:   quote.EstimatedAmountOut.String(),
		EstimatedFeeAmount:   quote.EstimatedFeeAmount.String(),
		TickEnd:              quote.TickEnd,
		OtherAmountThreshold: quote.OtherAmountThreshold.String(),
	})
}
