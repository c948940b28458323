package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bluetrade/src/model"
	"bluetrade/src/service"
)

// fakeQuoteClient serves canned quotes and records provider calls.
type fakeQuoteClient struct {
	quotes  map[string]*model.Stock
	matches map[string]*model.Stock
	err     error
	calls   int
}

func (f *fakeQuoteClient) GetStockQuote(ctx context.Context, symbol string) (*model.Stock, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes[symbol], nil
}

func (f *fakeQuoteClient) SearchStock(ctx context.Context, keywords string) (*model.Stock, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches[keywords], nil
}

func TestGetStockBySymbolCacheMiss(t *testing.T) {
	db := newTestDB(t)
	quotes := &fakeQuoteClient{quotes: map[string]*model.Stock{
		"AAPL": {Symbol: "AAPL", Price: 187.5, LastUpdated: time.Now()},
	}}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	stock, err := svc.GetStockBySymbol(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", stock.Symbol)
	assert.Equal(t, 187.5, stock.Price)
	assert.Equal(t, 1, quotes.calls)

	// Cached record was persisted.
	var count int64
	require.NoError(t, db.Model(&model.Stock{}).Where("symbol = ?", "AAPL").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetStockBySymbolFreshCacheSkipsProvider(t *testing.T) {
	db := newTestDB(t)
	seedStock(t, db, "AAPL", 180)
	quotes := &fakeQuoteClient{}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	stock, err := svc.GetStockBySymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 180.0, stock.Price)
	assert.Zero(t, quotes.calls)
}

func TestGetStockBySymbolStaleCacheRefreshes(t *testing.T) {
	db := newTestDB(t)
	stale := seedStock(t, db, "AAPL", 180)
	require.NoError(t, db.Model(stale).
		Update("last_updated", time.Now().Add(-time.Hour)).Error)

	quotes := &fakeQuoteClient{quotes: map[string]*model.Stock{
		"AAPL": {Symbol: "AAPL", Price: 190, LastUpdated: time.Now()},
	}}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	stock, err := svc.GetStockBySymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 190.0, stock.Price)
	assert.Equal(t, 1, quotes.calls)
	// Cache metadata carried over onto the refreshed row.
	assert.Equal(t, stale.ID, stock.ID)
	assert.Equal(t, stale.Name, stock.Name)
}

func TestGetStockBySymbolServesStaleOnProviderFailure(t *testing.T) {
	db := newTestDB(t)
	stale := seedStock(t, db, "AAPL", 180)
	require.NoError(t, db.Model(stale).
		Update("last_updated", time.Now().Add(-time.Hour)).Error)

	quotes := &fakeQuoteClient{err: errors.New("provider down")}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	stock, err := svc.GetStockBySymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 180.0, stock.Price)
}

func TestGetStockBySymbolUnknownSymbol(t *testing.T) {
	db := newTestDB(t)
	quotes := &fakeQuoteClient{}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	_, err := svc.GetStockBySymbol(context.Background(), "NOPE")
	var notFoundErr *service.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestSearchStock(t *testing.T) {
	db := newTestDB(t)
	quotes := &fakeQuoteClient{
		matches: map[string]*model.Stock{
			"apple": {Symbol: "AAPL", Name: "Apple Inc."},
		},
		quotes: map[string]*model.Stock{
			"AAPL": {Symbol: "AAPL", Price: 187.5, LastUpdated: time.Now()},
		},
	}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	stock, err := svc.SearchStock(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", stock.Symbol)
	assert.Equal(t, 187.5, stock.Price)

	_, err = svc.SearchStock(context.Background(), "no such company")
	var notFoundErr *service.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestTopLists(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewStockServiceWith(db, &fakeQuoteClient{}, 15*time.Minute)
	ctx := context.Background()

	stocks := []*model.Stock{
		{Symbol: "AAA", Price: 10, Volume: 300, ChangePercent: -2, LastUpdated: time.Now()},
		{Symbol: "BBB", Price: 20, Volume: 100, ChangePercent: 5, LastUpdated: time.Now()},
		{Symbol: "CCC", Price: 30, Volume: 200, ChangePercent: 1, LastUpdated: time.Now()},
	}
	for _, s := range stocks {
		require.NoError(t, db.Create(s).Error)
	}

	traded, err := svc.TopTraded(ctx, 2)
	require.NoError(t, err)
	require.Len(t, traded, 2)
	assert.Equal(t, "AAA", traded[0].Symbol)
	assert.Equal(t, "CCC", traded[1].Symbol)

	gainers, err := svc.TopGainers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, gainers, 1)
	assert.Equal(t, "BBB", gainers[0].Symbol)

	losers, err := svc.TopLosers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, losers, 1)
	assert.Equal(t, "AAA", losers[0].Symbol)
}

func seedIndex(t *testing.T, db *gorm.DB, code string, value float64) *model.MarketIndex {
	t.Helper()

	index := &model.MarketIndex{
		Code:          code,
		Name:          code + " Index",
		Value:         value,
		Change:        12.5,
		ChangePercent: 0.25,
		Volume:        1000000,
		LastUpdated:   time.Now(),
	}
	require.NoError(t, db.Create(index).Error)
	return index
}

func TestMarketIndices(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewStockServiceWith(db, &fakeQuoteClient{}, 15*time.Minute)

	seedIndex(t, db, "SPX", 5600)
	seedIndex(t, db, "DJI", 41000)

	indices, err := svc.GetMarketIndices(ctx)
	require.NoError(t, err)
	require.Len(t, indices, 2)
	// Ordered by code.
	assert.Equal(t, "DJI", indices[0].Code)
	assert.Equal(t, "SPX", indices[1].Code)

	index, err := svc.GetMarketIndexByCode(ctx, "spx")
	require.NoError(t, err)
	assert.Equal(t, "SPX", index.Code)
	assert.Equal(t, 5600.0, index.Value)

	_, err = svc.GetMarketIndexByCode(ctx, "NOPE")
	var notFoundErr *service.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestMarketOverview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewStockServiceWith(db, &fakeQuoteClient{}, 15*time.Minute)

	seedStock(t, db, "AAPL", 180)
	seedStock(t, db, "MSFT", 400)
	seedIndex(t, db, "SPX", 5600)

	overview, err := svc.GetMarketOverview(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, overview.TopTraded, 2)
	assert.Len(t, overview.TopGainers, 2)
	assert.Len(t, overview.TopLosers, 2)
	require.Len(t, overview.MarketIndices, 1)
	assert.Equal(t, "SPX", overview.MarketIndices[0].Code)
}

func TestRefreshAll(t *testing.T) {
	db := newTestDB(t)
	seedStock(t, db, "AAPL", 180)
	seedStock(t, db, "MSFT", 400)

	quotes := &fakeQuoteClient{quotes: map[string]*model.Stock{
		"AAPL": {Symbol: "AAPL", Price: 190, LastUpdated: time.Now()},
		// MSFT missing from the provider: skipped, not fatal.
	}}
	svc := service.NewStockServiceWith(db, quotes, 15*time.Minute)

	refreshed, err := svc.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)

	var aapl model.Stock
	require.NoError(t, db.Where("symbol = ?", "AAPL").First(&aapl).Error)
	assert.Equal(t, 190.0, aapl.Price)
}
