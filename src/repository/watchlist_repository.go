package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// WatchlistRepository handles per-user watchlists and their items.
type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository() *WatchlistRepository {
	return &WatchlistRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *WatchlistRepository) WithDB(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// FindByID fetches a watchlist with its items.
// Returns (nil, nil) if not found.
func (r *WatchlistRepository) FindByID(ctx context.Context, id uint) (*model.Watchlist, error) {
	var watchlist model.Watchlist

	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&watchlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &watchlist, nil
}

// FindByUser returns the user's watchlists with items preloaded.
func (r *WatchlistRepository) FindByUser(ctx context.Context, userID uint) ([]model.Watchlist, error) {
	var watchlists []model.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&watchlists).Error
	return watchlists, err
}

// ExistsByNameAndUser reports whether the user already has a watchlist with
// this name.
func (r *WatchlistRepository) ExistsByNameAndUser(ctx context.Context, name string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Watchlist{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new watchlist.
func (r *WatchlistRepository) Create(ctx context.Context, watchlist *model.Watchlist) error {
	return r.db.WithContext(ctx).Create(watchlist).Error
}

// Delete removes a watchlist; items go with it via the FK constraint.
func (r *WatchlistRepository) Delete(ctx context.Context, watchlist *model.Watchlist) error {
	return r.db.WithContext(ctx).Select("Items").Delete(watchlist).Error
}

// AddItem appends a symbol to a watchlist.
func (r *WatchlistRepository) AddItem(ctx context.Context, item *model.WatchlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// RemoveItem deletes one symbol from a watchlist. Returns the number of rows
// removed so the caller can 404 on a symbol that was never tracked.
func (r *WatchlistRepository) RemoveItem(ctx context.Context, watchlistID uint, symbol string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND symbol = ?", watchlistID, symbol).
		Delete(&model.WatchlistItem{})
	return res.RowsAffected, res.Error
}
