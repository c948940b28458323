package model

import "time"

// Stock is the cached view of a tradable instrument. Price is the
// authoritative current price used for all cost and proceeds math.
type Stock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"size:20;uniqueIndex;not null" json:"symbol"`
	Name          string    `gorm:"size:120" json:"name"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previousClose"`
	Volume        int64     `json:"volume"`
	Industry      string    `gorm:"size:120" json:"industry,omitempty"`
	MarketCap     float64   `json:"marketCap,omitempty"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (Stock) TableName() string {
	return "stocks"
}
