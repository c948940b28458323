package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	QuoteBaseURL  string `envconfig:"QUOTE_BASE_URL" default:"https://www.alphavantage.co/query"`
	QuoteAPIKey   string `envconfig:"QUOTE_API_KEY" default:"demo"`
	RetryCount    int    `envconfig:"QUOTE_RETRY_COUNT" default:"3"`
	TimeoutSecond int    `envconfig:"QUOTE_TIMEOUT_SECONDS" default:"10"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
