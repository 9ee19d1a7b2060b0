package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/clamm-core/internal/common"
	"github.com/hxuan190/clamm-core/internal/config"
	"github.com/hxuan190/clamm-core/internal/fetcher"
	"github.com/hxuan190/clamm-core/internal/httpapi"
)

// @title CLAMM Quoting API
// @version 1.0
// @description Off-chain quoting and routing SDK for concentrated-liquidity pools: single-pool swap
// @description quotes, add-liquidity quotes, and multi-route, multi-split best-execution search.
// @description
// @description Pool and tick-array state, and candidate routes, are supplied by the caller — this
// @description service computes quotes against whatever state it is given; it does not itself
// @description fetch accounts from chain or discover a pool graph.
// @BasePath /api/v1
func main() {
	common.InitRuntimeForHFT()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file found, continuing with process environment")
	}

	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.RouterConfig{},
	)

	dic, err := container.New(
		conf,

		&fetcher.Service{},
		&httpapi.Service{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("shutting down")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("shutdown complete")
}
