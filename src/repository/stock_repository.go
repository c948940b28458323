package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// StockRepository handles the local quote cache.
type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new repository instance using the main
// read/write database.
func NewStockRepository() *StockRepository {
	return &StockRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *StockRepository) WithDB(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// FindBySymbol fetches a cached stock by symbol.
// Returns (nil, nil) if not cached yet.
func (r *StockRepository) FindBySymbol(ctx context.Context, symbol string) (*model.Stock, error) {
	var stock model.Stock

	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":   "StockRepository",
			"op":     "FindBySymbol",
			"symbol": symbol,
		}).WithError(err).Error("Failed to fetch stock")

		return nil, err
	}

	return &stock, nil
}

// FindByID fetches a cached stock by primary ID.
// Returns (nil, nil) if not found.
func (r *StockRepository) FindByID(ctx context.Context, id uint) (*model.Stock, error) {
	var stock model.Stock

	err := r.db.WithContext(ctx).First(&stock, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &stock, nil
}

// Upsert writes a quote into the cache keyed by symbol.
func (r *StockRepository) Upsert(ctx context.Context, stock *model.Stock) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price", "open", "high", "low", "previous_close",
				"volume", "change", "change_percent", "last_updated",
			}),
		}).
		Create(stock).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "StockRepository",
			"op":     "Upsert",
			"symbol": stock.Symbol,
		}).WithError(err).Error("Failed to upsert stock")
	}

	return err
}

// All returns every cached symbol, used by the quote refresh command.
func (r *StockRepository) All(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.WithContext(ctx).Order("symbol ASC").Find(&stocks).Error
	return stocks, err
}

// TopTraded returns the cached stocks with the highest volume.
func (r *StockRepository) TopTraded(ctx context.Context, limit int) ([]model.Stock, error) {
	return r.topBy(ctx, "volume DESC", limit)
}

// TopGainers returns the cached stocks with the highest positive change.
func (r *StockRepository) TopGainers(ctx context.Context, limit int) ([]model.Stock, error) {
	return r.topBy(ctx, "change_percent DESC", limit)
}

// TopLosers returns the cached stocks with the largest negative change.
func (r *StockRepository) TopLosers(ctx context.Context, limit int) ([]model.Stock, error) {
	return r.topBy(ctx, "change_percent ASC", limit)
}

func (r *StockRepository) topBy(ctx context.Context, order string, limit int) ([]model.Stock, error) {
	if limit <= 0 {
		limit = 10
	}

	var stocks []model.Stock
	err := r.db.WithContext(ctx).
		Order(order).
		Limit(limit).
		Find(&stocks).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":  "StockRepository",
			"op":    "topBy",
			"order": order,
		}).WithError(err).Error("Failed to fetch ranked stocks")

		return nil, err
	}

	return stocks, nil
}
