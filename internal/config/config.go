package config

import (
	"errors"
	"strconv"

	"github.com/andrew-solarstorm/go-packages/common"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY = "general-config"
	ROUTER_CONFIG_KEY  = "router-config"
)

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	gc.HTTPPort = common.GetEnvOrDefault("HTTP_PORT", "8080")
	gc.HTTPHost = common.GetEnvOrDefault("HTTP_HOST", "localhost")
	gc.Env = common.GetEnvOrDefault("ENV", "dev")
	gc.LogLevel = common.GetEnvOrDefault("LOG_LEVEL", "INFO")
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	return nil
}

// RouterConfig holds the router's tunable split-search defaults,
// mirroring router.Options.
type RouterConfig struct {
	PercentIncrement    int
	NumTopRoutes        int
	NumTopPartialQuotes int
	MaxSplits           int
}

func (rc *RouterConfig) Key() string {
	return ROUTER_CONFIG_KEY
}

func (rc *RouterConfig) Load() error {
	rc.PercentIncrement = envInt("ROUTER_PERCENT_INCREMENT", 20)
	rc.NumTopRoutes = envInt("ROUTER_NUM_TOP_ROUTES", 50)
	rc.NumTopPartialQuotes = envInt("ROUTER_NUM_TOP_PARTIAL_QUOTES", 10)
	rc.MaxSplits = envInt("ROUTER_MAX_SPLITS", 3)
	return rc.Validate()
}

func (rc *RouterConfig) Validate() error {
	if rc.PercentIncrement <= 0 || 100%rc.PercentIncrement != 0 {
		return errors.New("router percentIncrement must evenly divide 100")
	}
	if rc.NumTopRoutes <= 0 || rc.NumTopPartialQuotes <= 0 || rc.MaxSplits <= 0 {
		return errors.New("invalid router config")
	}
	return nil
}

func envInt(key string, fallback int) int {
	raw := common.GetEnvOrDefault(key, strconv.Itoa(fallback))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
