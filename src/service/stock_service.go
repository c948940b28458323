package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/connectors"
	"bluetrade/src/database"
	"bluetrade/src/model"
	"bluetrade/src/repository"
)

// StockService resolves symbols against the local quote cache, falling back
// to the external provider on a miss or a stale entry.
type StockService struct {
	db       *gorm.DB
	quotes   connectors.QuoteClient
	cacheTTL time.Duration
	log      *logrus.Entry
}

// NewStockService creates the service on the main database with the Alpha
// Vantage client.
func NewStockService(cacheTTL time.Duration) *StockService {
	return NewStockServiceWith(database.MainDB, connectors.NewAlphaVantageClient(), cacheTTL)
}

// NewStockServiceWith wires explicit dependencies, used by tests.
func NewStockServiceWith(db *gorm.DB, quotes connectors.QuoteClient, cacheTTL time.Duration) *StockService {
	return &StockService{
		db:       db,
		quotes:   quotes,
		cacheTTL: cacheTTL,
		log:      logrus.WithField("component", "StockService"),
	}
}

// GetStockBySymbol returns the cached stock, refreshing from the provider
// when the cache misses or the entry is older than the TTL.
func (s *StockService) GetStockBySymbol(ctx context.Context, symbol string) (*model.Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	stocks := repository.NewStockRepository().WithDB(s.db)

	stock, err := stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if stock != nil && (s.cacheTTL <= 0 || time.Since(stock.LastUpdated) < s.cacheTTL) {
		return stock, nil
	}

	fetched, err := s.quotes.GetStockQuote(ctx, symbol)
	if err != nil {
		// A stale cached quote still beats a hard failure.
		if stock != nil {
			s.log.WithField("symbol", symbol).WithError(err).
				Warn("Quote refresh failed, serving stale cache entry")
			return stock, nil
		}
		return nil, err
	}
	if fetched == nil {
		if stock != nil {
			return stock, nil
		}
		return nil, notFound("Stock not found with symbol: %s", symbol)
	}

	if stock != nil {
		fetched.ID = stock.ID
		fetched.Name = stock.Name
		fetched.Industry = stock.Industry
		fetched.MarketCap = stock.MarketCap
	}
	if err := stocks.Upsert(ctx, fetched); err != nil {
		return nil, err
	}

	return fetched, nil
}

// SearchStock resolves free-text keywords to the provider's best match and
// caches its quote.
func (s *StockService) SearchStock(ctx context.Context, keywords string) (*model.Stock, error) {
	match, err := s.quotes.SearchStock(ctx, keywords)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, notFound("No stock matched %q", keywords)
	}

	return s.GetStockBySymbol(ctx, match.Symbol)
}

// TopTraded returns the highest-volume cached stocks.
func (s *StockService) TopTraded(ctx context.Context, limit int) ([]model.Stock, error) {
	return repository.NewStockRepository().WithDB(s.db).TopTraded(ctx, limit)
}

// TopGainers returns the cached stocks with the best day change.
func (s *StockService) TopGainers(ctx context.Context, limit int) ([]model.Stock, error) {
	return repository.NewStockRepository().WithDB(s.db).TopGainers(ctx, limit)
}

// TopLosers returns the cached stocks with the worst day change.
func (s *StockService) TopLosers(ctx context.Context, limit int) ([]model.Stock, error) {
	return repository.NewStockRepository().WithDB(s.db).TopLosers(ctx, limit)
}

// GetMarketIndices returns every cached market benchmark.
func (s *StockService) GetMarketIndices(ctx context.Context) ([]model.MarketIndex, error) {
	return repository.NewMarketIndexRepository().WithDB(s.db).All(ctx)
}

// GetMarketIndexByCode returns one benchmark by its short code.
func (s *StockService) GetMarketIndexByCode(ctx context.Context, code string) (*model.MarketIndex, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	index, err := repository.NewMarketIndexRepository().WithDB(s.db).FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if index == nil {
		return nil, notFound("Market index not found with code: %s", code)
	}

	return index, nil
}

// MarketOverview bundles the ranked stock lists with the index values.
type MarketOverview struct {
	TopTraded     []model.Stock       `json:"topTraded"`
	TopGainers    []model.Stock       `json:"topGainers"`
	TopLosers     []model.Stock       `json:"topLosers"`
	MarketIndices []model.MarketIndex `json:"marketIndices"`
}

// GetMarketOverview aggregates the ranked lists and the cached indices into
// one dashboard payload.
func (s *StockService) GetMarketOverview(ctx context.Context, limit int) (*MarketOverview, error) {
	traded, err := s.TopTraded(ctx, limit)
	if err != nil {
		return nil, err
	}
	gainers, err := s.TopGainers(ctx, limit)
	if err != nil {
		return nil, err
	}
	losers, err := s.TopLosers(ctx, limit)
	if err != nil {
		return nil, err
	}
	indices, err := s.GetMarketIndices(ctx)
	if err != nil {
		return nil, err
	}

	return &MarketOverview{
		TopTraded:     traded,
		TopGainers:    gainers,
		TopLosers:     losers,
		MarketIndices: indices,
	}, nil
}

// RefreshAll re-fetches every cached symbol, used by the maintenance command.
func (s *StockService) RefreshAll(ctx context.Context) (int, error) {
	stocks := repository.NewStockRepository().WithDB(s.db)

	cached, err := stocks.All(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, stock := range cached {
		fetched, err := s.quotes.GetStockQuote(ctx, stock.Symbol)
		if err != nil || fetched == nil {
			s.log.WithField("symbol", stock.Symbol).WithError(err).
				Warn("Skipping symbol during refresh")
			continue
		}

		fetched.ID = stock.ID
		fetched.Name = stock.Name
		fetched.Industry = stock.Industry
		fetched.MarketCap = stock.MarketCap
		if err := stocks.Upsert(ctx, fetched); err != nil {
			return refreshed, err
		}
		refreshed++
	}

	return refreshed, nil
}
