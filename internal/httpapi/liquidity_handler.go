package httpapi

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fetcher"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
	"github.com/hxuan190/clamm-core/internal/liquidity"
	"github.com/hxuan190/clamm-core/internal/metrics"
)

// LiquidityHandler serves spec §6's increaseLiquidityQuoteByInputToken
// and increaseLiquidityQuoteByLiquidity entry points.
type LiquidityHandler struct {
	fetcher fetcher.Fetcher
}

func NewLiquidityHandler(f fetcher.Fetcher) *LiquidityHandler {
	return &LiquidityHandler{fetcher: f}
}

func (h *LiquidityHandler) Root() string {
	return "/quote/liquidity"
}

func (h *LiquidityHandler) SetRoutes(group *gin.RouterGroup) {
	group.POST("/by-input-token", h.byInputToken)
	group.POST("/by-liquidity", h.byLiquidity)
}

// LiquidityQuoteResponse mirrors domain.LiquidityQuote in wire-friendly
// form.
type LiquidityQuoteResponse struct {
	TokenMaxA       string `json:"tokenMaxA"`
	TokenMaxB       string `json:"tokenMaxB"`
	LiquidityAmount string `json:"liquidityAmount"`
	TokenEstA       string `json:"tokenEstA"`
	TokenEstB       string `json:"tokenEstB"`
}

// ByInputTokenRequest is the body for increaseLiquidityQuoteByInputToken.
type ByInputTokenRequest struct {
	PoolAddress string `json:"poolAddress" binding:"required"`
	TickLower   int32  `json:"tickLower"`
	TickUpper   int32  `json:"tickUpper"`
	InputMint   string `json:"inputMint" binding:"required"`
	InputAmount string `json:"inputAmount" binding:"required"`
	SlippageBps uint16 `json:"slippageBps" example:"50"`
}

func (h *LiquidityHandler) byInputToken(c *gin.Context) {
	status := "ok"
	defer func() {
		metrics.LiquidityQuoteRequests.WithLabelValues("input-token", status).Inc()
	}()

	var req ByInputTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status = "error"
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	poolAddr, err := solana.PublicKeyFromBase58(req.PoolAddress)
	if err != nil {
		status = "error"
		badRequest(c, "invalid poolAddress")
		return
	}
	inputMint, err := solana.PublicKeyFromBase58(req.InputMint)
	if err != nil {
		status = "error"
		badRequest(c, "invalid inputMint")
		return
	}
	amount, ok := new(big.Int).SetString(req.InputAmount, 10)
	if !ok || amount.Sign() < 0 || !amount.IsUint64() {
		status = "error"
		badRequest(c, "inputAmount must be a non-negative integer that fits in u64")
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

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = 50
	}

	quote, err := liquidity.IncreaseLiquidityQuoteByInputToken(liquidity.ByInputTokenParams{
		Pool:        pool,
		TickLower:   req.TickLower,
		TickUpper:   req.TickUpper,
		InputMint:   inputMint,
		InputAmount: amount.Uint64(),
		Slippage:    fixedpoint.Slippage{Numerator: uint64(slippageBps), Denominator: 10000},
	})
	if err != nil {
		status = "error"
		st, msg := errStatus(err)
		fail(c, st, msg)
		return
	}
	success(c, toLiquidityQuoteResponse(quote))
}

// ByLiquidityRequest is the body for increaseLiquidityQuoteByLiquidity.
type ByLiquidityRequest struct {
	PoolAddress string `json:"poolAddress" binding:"required"`
	TickLower   int32  `json:"tickLower"`
	TickUpper   int32  `json:"tickUpper"`
	Liquidity   string `json:"liquidity" binding:"required"`
	SlippageBps uint16 `json:"slippageBps" example:"50"`
}

func (h *LiquidityHandler) byLiquidity(c *gin.Context) {
	status := "ok"
	defer func() {
		metrics.LiquidityQuoteRequests.WithLabelValues("liquidity", status).Inc()
	}()

	var req ByLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status = "error"
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	poolAddr, err := solana.PublicKeyFromBase58(req.PoolAddress)
	if err != nil {
		status = "error"
		badRequest(c, "invalid poolAddress")
		return
	}
	liq, ok := new(big.Int).SetString(req.Liquidity, 10)
	if !ok || liq.Sign() < 0 {
		status = "error"
		badRequest(c, "liquidity must be a non-negative integer")
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

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = 50
	}

	quote, err := liquidity.IncreaseLiquidityQuoteByLiquidity(liquidity.ByLiquidityParams{
		Pool:      pool,
		TickLower: req.TickLower,
		TickUpper: req.TickUpper,
		Liquidity: liq,
		Slippage:  fixedpoint.Slippage{Numerator: uint64(slippageBps), Denominator: 10000},
	})
	if err != nil {
		status = "error"
		st, msg := errStatus(err)
		fail(c, st, msg)
		return
	}
	success(c, toLiquidityQuoteResponse(quote))
}

func toLiquidityQuoteResponse(q *domain.LiquidityQuote) LiquidityQuoteResponse {
	return LiquidityQuoteResponse{
		TokenMaxA:       q.TokenMaxA.String(),
		TokenMaxB:       q.TokenMaxB.String(),
		LiquidityAmount: q.LiquidityAmount.String(),
		TokenEstA:       q.TokenEstA.String(),
		TokenEstB:       q.TokenEstB.String(),
	}
}
