package model

import "time"

// UserStock is a portfolio position bought at market through the
// account-balance flow. PurchasePrice is the volume-weighted average.
type UserStock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_user_stock,unique" json:"userId"`
	StockID       uint      `gorm:"not null;index:idx_user_stock,unique" json:"stockId"`
	Symbol        string    `gorm:"size:20" json:"symbol"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	PurchasePrice float64   `json:"purchasePrice"`
	PurchaseDate  time.Time `json:"purchaseDate"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (UserStock) TableName() string {
	return "user_stocks"
}
