package httpapi

import (
	"context"
	gohttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/clamm-core/internal/config"
	"github.com/hxuan190/clamm-core/internal/fetcher"
	"github.com/hxuan190/clamm-core/internal/router"
)

const (
	API_VERSION  = "v1"
	HTTP_SERVICE = "http-service"
)

// Service is the DI-managed HTTP server exposing the quoting API
// described in spec §6: swapQuote, increaseLiquidityQuoteByInputToken,
// increaseLiquidityQuoteByLiquidity and findBestRoutes.
type Service struct {
	container.BaseDIInstance

	fetcherSvc *fetcher.Service
	server     *gohttp.Server
	conf       *config.GeneralConfig
	routerConf *config.RouterConfig

	handlers []IHttpHandler
}

func (svc *Service) ID() string {
	return HTTP_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.GENERAL_CONFIG_KEY).(*config.GeneralConfig)
	svc.routerConf = c.GetConfig(config.ROUTER_CONFIG_KEY).(*config.RouterConfig)
	svc.fetcherSvc = c.Instance(fetcher.FETCHER_SERVICE).(*fetcher.Service)

	opts := router.Options{
		PercentIncrement:    svc.routerConf.PercentIncrement,
		NumTopRoutes:        svc.routerConf.NumTopRoutes,
		NumTopPartialQuotes: svc.routerConf.NumTopPartialQuotes,
		MaxSplits:           svc.routerConf.MaxSplits,
	}

	svc.handlers = []IHttpHandler{
		NewSwapHandler(svc.fetcherSvc),
		NewLiquidityHandler(svc.fetcherSvc),
		NewRouteHandler(svc.fetcherSvc, opts),
	}
	return nil
}

func (svc *Service) Start() error {
	r := gin.Default()
	r.Use(gin.Recovery())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	r.Use(cors.New(corsConf))

	r.Use(MetricsMiddleware())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api").Group(API_VERSION)
	for _, h := range svc.handlers {
		h.SetRoutes(api.Group(h.Root()))
	}

	svc.server = &gohttp.Server{
		Addr:    svc.conf.HTTPHost + ":" + svc.conf.HTTPPort,
		Handler: r,
	}
	log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}
	return nil
}

func (svc *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	log.Info().Msg("http server stopped gracefully")
	return nil
}
