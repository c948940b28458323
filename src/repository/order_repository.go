package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// OrderRepository handles read/write operations for orders.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new repository instance using the main
// read/write database.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *OrderRepository) WithDB(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order. The given order is updated with the generated
// ID and timestamps.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	logger.WithFields(map[string]interface{}{
		"repo":   "OrderRepository",
		"op":     "Create",
		"symbol": order.Symbol,
		"side":   order.OrderSide,
		"type":   order.OrderType,
		"qty":    order.Quantity,
	}).Debug("Creating new order")

	err := r.db.WithContext(ctx).Create(order).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "OrderRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create order")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "OrderRepository",
		"op":       "Create",
		"order_id": order.ID,
	}).Info("Order created successfully")

	return nil
}

// FindByID fetches a single order by its primary ID.
// Returns (nil, nil) if the order is not found.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo": "OrderRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch order by ID")

		return nil, err
	}

	return &order, nil
}

// OrderFilter narrows user-scoped order listings. Nil fields are ignored.
type OrderFilter struct {
	Status    *model.OrderStatus
	OrderType *model.OrderType
}

// FindByUser returns the user's orders in insertion order, optionally
// narrowed by status and/or type.
func (r *OrderRepository) FindByUser(ctx context.Context, userID uint, filter OrderFilter) ([]model.Order, error) {
	logger.WithFields(map[string]interface{}{
		"repo":    "OrderRepository",
		"op":      "FindByUser",
		"user_id": userID,
	}).Debug("Fetching orders for user")

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OrderType != nil {
		query = query.Where("order_type = ?", *filter.OrderType)
	}

	var orders []model.Order
	if err := query.Order("id ASC").Find(&orders).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "OrderRepository",
			"op":      "FindByUser",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch orders")

		return nil, err
	}

	return orders, nil
}

// UpdateStatusIf flips the order's status only while it still holds the
// expected current value:
//
//	UPDATE orders SET status = ? WHERE id = ? AND status = ?
//
// Returns false with no error when no row matched (the order is gone or was
// already transitioned). Concurrent cancellations of the same order serialize
// on this single conditional update, so only one of them ever wins the flip.
func (r *OrderRepository) UpdateStatusIf(ctx context.Context, id uint, from, to model.OrderStatus) (bool, error) {
	logger.WithFields(map[string]interface{}{
		"repo": "OrderRepository",
		"op":   "UpdateStatusIf",
		"id":   id,
		"from": from,
		"to":   to,
	}).Debug("Updating order status")

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "OrderRepository",
			"op":   "UpdateStatusIf",
			"id":   id,
			"to":   to,
		}).WithError(res.Error).Error("Failed to update order status")

		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}
