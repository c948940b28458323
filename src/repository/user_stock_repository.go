package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// UserStockRepository handles portfolio positions.
type UserStockRepository struct {
	db *gorm.DB
}

func NewUserStockRepository() *UserStockRepository {
	return &UserStockRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *UserStockRepository) WithDB(db *gorm.DB) *UserStockRepository {
	return &UserStockRepository{db: db}
}

// FindByUser returns every position the user holds.
func (r *UserStockRepository) FindByUser(ctx context.Context, userID uint) ([]model.UserStock, error) {
	var positions []model.UserStock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&positions).Error
	return positions, err
}

// FindByUserAndStock returns the user's position in one stock.
// Returns (nil, nil) if the user holds none.
func (r *UserStockRepository) FindByUserAndStock(ctx context.Context, userID, stockID uint) (*model.UserStock, error) {
	var position model.UserStock

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &position, nil
}

// Save inserts or updates a position.
func (r *UserStockRepository) Save(ctx context.Context, position *model.UserStock) error {
	return r.db.WithContext(ctx).Save(position).Error
}

// Delete removes a fully sold position.
func (r *UserStockRepository) Delete(ctx context.Context, position *model.UserStock) error {
	return r.db.WithContext(ctx).Delete(position).Error
}
