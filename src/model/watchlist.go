package model

import "time"

// Watchlist is a named per-user list of tracked symbols.
type Watchlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_watchlist_name,unique" json:"userId"`
	Name      string    `gorm:"size:120;not null;index:idx_watchlist_name,unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []WatchlistItem `gorm:"foreignKey:WatchlistID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Watchlist) TableName() string {
	return "watchlists"
}

type WatchlistItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WatchlistID uint      `gorm:"not null;index:idx_watchlist_symbol,unique" json:"watchlistId"`
	StockID     uint      `gorm:"not null" json:"stockId"`
	Symbol      string    `gorm:"size:20;not null;index:idx_watchlist_symbol,unique" json:"symbol"`
	AddedAt     time.Time `json:"addedAt"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
