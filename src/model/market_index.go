package model

import "time"

// MarketIndex is a cached market benchmark (S&P 500, NASDAQ, ...) keyed by
// its short code.
type MarketIndex struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"size:120" json:"name"`
	Value         float64   `json:"value"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (MarketIndex) TableName() string {
	return "market_indices"
}
