package connectors

// REST client for the Alpha Vantage quote API.
// RESTY ONLY + INTERNAL RETRY

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"bluetrade/src/model"
)

// GlobalQuoteResponse is the envelope returned by the GLOBAL_QUOTE function.
// Alpha Vantage keys fields with numbered labels.
type GlobalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note,omitempty"`
}

// SymbolSearchResponse is the envelope returned by SYMBOL_SEARCH.
type SymbolSearchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
}

// QuoteClient fetches current quotes for symbols. Implemented by the Alpha
// Vantage client below; faked in tests.
type QuoteClient interface {
	GetStockQuote(ctx context.Context, symbol string) (*model.Stock, error)
	SearchStock(ctx context.Context, keywords string) (*model.Stock, error)
}

// AlphaVantageClient talks to the Alpha Vantage REST API.
type AlphaVantageClient struct {
	http   *resty.Client
	apiKey string
}

// NewAlphaVantageClient builds a client from environment configuration.
func NewAlphaVantageClient() *AlphaVantageClient {
	config := GetConfig()

	httpClient := resty.New().
		SetBaseURL(config.QuoteBaseURL).
		SetTimeout(time.Duration(config.TimeoutSecond) * time.Second).
		SetRetryCount(config.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(8 * time.Second)

	return &AlphaVantageClient{
		http:   httpClient,
		apiKey: config.QuoteAPIKey,
	}
}

// WithBaseURL overrides the endpoint, used by tests against httptest servers.
func (c *AlphaVantageClient) WithBaseURL(baseURL string) *AlphaVantageClient {
	c.http.SetBaseURL(baseURL)
	return c
}

// GetStockQuote fetches the current quote for one symbol.
// Returns (nil, nil) when the provider has no quote for it.
func (c *AlphaVantageClient) GetStockQuote(ctx context.Context, symbol string) (*model.Stock, error) {
	var out GlobalQuoteResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   symbol,
			"apikey":   c.apiKey,
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"connector": "AlphaVantage",
			"op":        "GetStockQuote",
			"symbol":    symbol,
		}).WithError(err).Error("Quote request failed")

		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote provider returned status %d", resp.StatusCode())
	}

	if len(out.GlobalQuote) == 0 {
		logger.WithFields(map[string]interface{}{
			"connector": "AlphaVantage",
			"op":        "GetStockQuote",
			"symbol":    symbol,
		}).Info("No quote returned for symbol")

		return nil, nil
	}

	stock := &model.Stock{
		Symbol:        strings.ToUpper(symbol),
		Price:         parseQuoteFloat(out.GlobalQuote, "05. price"),
		Open:          parseQuoteFloat(out.GlobalQuote, "02. open"),
		High:          parseQuoteFloat(out.GlobalQuote, "03. high"),
		Low:           parseQuoteFloat(out.GlobalQuote, "04. low"),
		PreviousClose: parseQuoteFloat(out.GlobalQuote, "08. previous close"),
		Volume:        parseQuoteInt(out.GlobalQuote, "06. volume"),
		LastUpdated:   time.Now(),
	}
	stock.Change = stock.Price - stock.PreviousClose
	if stock.PreviousClose != 0 {
		stock.ChangePercent = stock.Change / stock.PreviousClose * 100
	}

	return stock, nil
}

// SearchStock returns the best match for free-text keywords.
// Returns (nil, nil) when nothing matches.
func (c *AlphaVantageClient) SearchStock(ctx context.Context, keywords string) (*model.Stock, error) {
	var out SymbolSearchResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "SYMBOL_SEARCH",
			"keywords": keywords,
			"apikey":   c.apiKey,
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote provider returned status %d", resp.StatusCode())
	}

	if len(out.BestMatches) == 0 {
		return nil, nil
	}

	best := out.BestMatches[0]
	return &model.Stock{
		Symbol:      strings.ToUpper(best["1. symbol"]),
		Name:        best["2. name"],
		LastUpdated: time.Now(),
	}, nil
}

func parseQuoteFloat(quote map[string]string, key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(quote[key]), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseQuoteInt(quote map[string]string, key string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(quote[key]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
