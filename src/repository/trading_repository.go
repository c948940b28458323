package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// TradingRepository handles the append-mostly trading ledger. Records are
// created by the order engine and only their status is ever updated.
type TradingRepository struct {
	db *gorm.DB
}

// NewTradingRepository creates a new repository instance using the main
// read/write database.
func NewTradingRepository() *TradingRepository {
	return &TradingRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *TradingRepository) WithDB(db *gorm.DB) *TradingRepository {
	return &TradingRepository{db: db}
}

// Create appends a ledger record.
func (r *TradingRepository) Create(ctx context.Context, trading *model.Trading) error {
	err := r.db.WithContext(ctx).Create(trading).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradingRepository",
			"op":       "Create",
			"order_id": trading.OrderID,
		}).WithError(err).Error("Failed to create trading record")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "TradingRepository",
		"op":         "Create",
		"trading_id": trading.ID,
		"order_id":   trading.OrderID,
	}).Info("Trading record created")

	return nil
}

// FindByOrderID returns the ledger records mirroring the given order.
func (r *TradingRepository) FindByOrderID(ctx context.Context, orderID string) ([]model.Trading, error) {
	var records []model.Trading
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&records).Error
	return records, err
}

// TradingFilter narrows ledger listings. Empty fields are ignored.
type TradingFilter struct {
	AccountID string
	Symbol    string
	OrderType string
	Status    string
}

// Find returns ledger records matching the filter, in insertion order.
func (r *TradingRepository) Find(ctx context.Context, filter TradingFilter) ([]model.Trading, error) {
	query := r.db.WithContext(ctx)
	if filter.AccountID != "" {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.Symbol != "" {
		query = query.Where("symbol = ?", filter.Symbol)
	}
	if filter.OrderType != "" {
		query = query.Where("order_type = ?", filter.OrderType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var records []model.Trading
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradingRepository",
			"op":   "Find",
		}).WithError(err).Error("Failed to fetch trading records")

		return nil, err
	}

	return records, nil
}

// UpdateStatusByOrderID syncs the ledger projection after a state change on
// the order. Matching no rows is not an error.
func (r *TradingRepository) UpdateStatusByOrderID(ctx context.Context, orderID string, status string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Trading{}).
		Where("order_id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradingRepository",
			"op":       "UpdateStatusByOrderID",
			"order_id": orderID,
			"status":   status,
		}).WithError(res.Error).Error("Failed to update trading record status")

		return res.Error
	}

	if res.RowsAffected == 0 {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradingRepository",
			"op":       "UpdateStatusByOrderID",
			"order_id": orderID,
		}).Debug("No trading record to update")
	}

	return nil
}
