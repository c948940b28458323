package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// MarketIndexRepository handles the cached market benchmarks.
type MarketIndexRepository struct {
	db *gorm.DB
}

func NewMarketIndexRepository() *MarketIndexRepository {
	return &MarketIndexRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *MarketIndexRepository) WithDB(db *gorm.DB) *MarketIndexRepository {
	return &MarketIndexRepository{db: db}
}

// All returns every cached index ordered by code.
func (r *MarketIndexRepository) All(ctx context.Context) ([]model.MarketIndex, error) {
	var indices []model.MarketIndex
	err := r.db.WithContext(ctx).Order("code ASC").Find(&indices).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "MarketIndexRepository",
			"op":   "All",
		}).WithError(err).Error("Failed to fetch market indices")

		return nil, err
	}

	return indices, nil
}

// FindByCode fetches one index by its short code.
// Returns (nil, nil) if not cached.
func (r *MarketIndexRepository) FindByCode(ctx context.Context, code string) (*model.MarketIndex, error) {
	var index model.MarketIndex

	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&index).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &index, nil
}
