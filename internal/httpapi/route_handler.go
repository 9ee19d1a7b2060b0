package httpapi

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/hxuan190/clamm-core/internal/clammerr"
	"github.com/hxuan190/clamm-core/internal/domain"
	"github.com/hxuan190/clamm-core/internal/fetcher"
	"github.com/hxuan190/clamm-core/internal/fixedpoint"
	"github.com/hxuan190/clamm-core/internal/router"
	"github.com/hxuan190/clamm-core/internal/swapquote"
)

// RouteHandler serves spec §6's findBestRoutes entry point. Candidate
// routes and each pool's tick-array addresses are supplied by the
// caller: discovering them from a pool graph and a pool's current tick
// bucket is an external collaborator's job, not this module's.
type RouteHandler struct {
	fetcher fetcher.Fetcher
	opts    router.Options
}

func NewRouteHandler(f fetcher.Fetcher, opts router.Options) *RouteHandler {
	return &RouteHandler{fetcher: f, opts: opts}
}

func (h *RouteHandler) Root() string {
	return "/quote/routes"
}

func (h *RouteHandler) SetRoutes(group *gin.RouterGroup) {
	group.POST("", h.findBestRoutes)
}

// FindBestRoutesRequest is the body for findBestRoutes.
type FindBestRoutesRequest struct {
	InputMint  string `json:"inputMint" binding:"required"`
	OutputMint string `json:"outputMint" binding:"required"`

	// Amount specified in smallest token units.
	Amount string `json:"amount" binding:"required"`

	// Whether Amount is the input (true) or output (false).
	AmountSpecifiedIsInput bool `json:"amountSpecifiedIsInput"`

	// Candidate routes, each a sequence of pool addresses, in either
	// orientation; the router reorients them to the trade's input mint.
	Routes [][]string `json:"routes" binding:"required"`

	// TickArrays maps a pool address to the tick-array addresses its
	// current tick bucket falls within.
	TickArrays map[string][]string `json:"tickArrays" binding:"required"`

	SlippageBps uint16 `json:"slippageBps" example:"50"`
}

// RouteQuoteResponse mirrors domain.RouteQuote in wire-friendly form.
type RouteQuoteResponse struct {
	Route     []string `json:"route"`
	Percent   uint8    `json:"percent"`
	AmountIn  string   `json:"amountIn"`
	AmountOut string   `json:"amountOut"`
}

// SplitResultResponse mirrors domain.SplitResult in wire-friendly form.
type SplitResultResponse struct {
	Quotes   []RouteQuoteResponse `json:"quotes"`
	TotalIn  string               `json:"totalIn"`
	TotalOut string               `json:"totalOut"`
}

func (h *RouteHandler) findBestRoutes(c *gin.Context) {
	var req FindBestRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	inputMint, err := solana.PublicKeyFromBase58(req.InputMint)
	if err != nil {
		badRequest(c, "invalid inputMint")
		return
	}
	outputMint, err := solana.PublicKeyFromBase58(req.OutputMint)
	if err != nil {
		badRequest(c, "invalid outputMint")
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 || !amount.IsUint64() {
		badRequest(c, "amount must be a positive integer that fits in u64")
		return
	}

	routes := make([][]solana.PublicKey, len(req.Routes))
	tickArraysByPool := make(map[solana.PublicKey][]solana.PublicKey)
	poolSet := make(map[solana.PublicKey]struct{})
	for i, route := range req.Routes {
		parsed := make([]solana.PublicKey, len(route))
		for j, raw := range route {
			addr, err := solana.PublicKeyFromBase58(raw)
			if err != nil {
				badRequest(c, "invalid pool address in routes")
				return
			}
			parsed[j] = addr
			poolSet[addr] = struct{}{}
		}
		routes[i] = parsed
	}
	for rawPool, rawTickArrays := range req.TickArrays {
		poolAddr, err := solana.PublicKeyFromBase58(rawPool)
		if err != nil {
			badRequest(c, "invalid pool address in tickArrays")
			return
		}
		addrs := make([]solana.PublicKey, len(rawTickArrays))
		for j, raw := range rawTickArrays {
			addr, err := solana.PublicKeyFromBase58(raw)
			if err != nil {
				badRequest(c, "invalid tick array address in tickArrays")
				return
			}
			addrs[j] = addr
		}
		tickArraysByPool[poolAddr] = addrs
	}

	poolAddrs := make([]solana.PublicKey, 0, len(poolSet))
	for addr := range poolSet {
		poolAddrs = append(poolAddrs, addr)
	}
	pools, err := h.fetcher.ListPools(c.Request.Context(), poolAddrs, fetcher.PreferCache)
	if err != nil {
		internalError(c, err.Error())
		return
	}
	poolsByAddr := make(map[solana.PublicKey]*domain.Pool, len(pools))
	poolMints := make(map[solana.PublicKey]router.PoolMints, len(pools))
	for i, addr := range poolAddrs {
		pool := pools[i]
		if pool == nil {
			continue
		}
		poolsByAddr[addr] = pool
		poolMints[addr] = router.PoolMints{MintA: pool.TokenMintA, MintB: pool.TokenMintB}
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = 50
	}
	slippage := fixedpoint.Slippage{Numerator: uint64(slippageBps), Denominator: 10000}

	quoter := h.makeQuoter(poolsByAddr, tickArraysByPool, slippage)

	results, err := router.FindBestRoutes(c.Request.Context(), router.Params{
		InputMint:              inputMint,
		OutputMint:             outputMint,
		TradeAmount:            amount.Uint64(),
		AmountSpecifiedIsInput: req.AmountSpecifiedIsInput,
		Routes:                 routes,
		Pools:                  poolMints,
		Quoter:                 quoter,
		Options:                h.opts,
	})
	if err != nil {
		st, msg := errStatus(err)
		fail(c, st, msg)
		return
	}

	success(c, toSplitResultResponses(results))
}

// makeQuoter adapts swapquote.Compute to router.QuoterFunc, resolving
// each pool's tick arrays from the caller-supplied map.
func (h *RouteHandler) makeQuoter(pools map[solana.PublicKey]*domain.Pool, tickArraysByPool map[solana.PublicKey][]solana.PublicKey, slippage fixedpoint.Slippage) router.QuoterFunc {
	return func(ctx context.Context, poolAddr solana.PublicKey, amount *big.Int, aToB, exactIn bool) (*domain.SwapQuote, error) {
		pool, ok := pools[poolAddr]
		if !ok || pool == nil {
			return nil, clammerr.New(clammerr.PoolNotFound, "pool %s not resolved", poolAddr)
		}
		if !amount.IsUint64() {
			return nil, clammerr.New(clammerr.ArithmeticOverflow, "hop amount exceeds u64")
		}

		tickArrayAddrs := tickArraysByPool[poolAddr]
		tickArrays, err := h.fetcher.ListTickArrays(ctx, tickArrayAddrs, fetcher.PreferCache)
		if err != nil {
			return nil, err
		}
		present := make([]*domain.TickArray, 0, len(tickArrays))
		for _, a := range tickArrays {
			if a != nil {
				present = append(present, a)
			}
		}

		return swapquote.Compute(swapquote.Params{
			Pool:                   pool,
			AmountSpecified:        amount.Uint64(),
			AToB:                   aToB,
			AmountSpecifiedIsInput: exactIn,
			TickArrays:             present,
			Slippage:               slippage,
		})
	}
}

func toSplitResultResponses(results []domain.SplitResult) []SplitResultResponse {
	out := make([]SplitResultResponse, len(results))
	for i, r := range results {
		quotes := make([]RouteQuoteResponse, len(r.Quotes))
		for j, q := range r.Quotes {
			route := make([]string, len(q.Route))
			for k, addr := range q.Route {
				route[k] = addr.String()
			}
			quotes[j] = RouteQuoteResponse{
				Route:     route,
				Percent:   q.Percent,
				AmountIn:  q.AmountIn.String(),
				AmountOut: q.AmountOut.String(),
			}
		}
		out[i] = SplitResultResponse{
			Quotes:   quotes,
			TotalIn:  r.TotalIn.String(),
			TotalOut: r.TotalOut.String(),
		}
	}
	return out
}
