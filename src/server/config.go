package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             string `envconfig:"SERVER_PORT" default:"9898"`
	QuoteCacheTTLMin int    `envconfig:"QUOTE_CACHE_TTL_MINUTES" default:"15"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
