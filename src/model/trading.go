package model

import "time"

// Trading is the denormalized ledger projection of an order: one record per
// order, mirroring its economic fields at placement time. The order stays
// authoritative; only Status is updated afterwards (on cancel).
type Trading struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Symbol    string `gorm:"size:20;index" json:"symbol"`
	AccountID string `gorm:"size:40;index" json:"accountId"`
	OrderID   string `gorm:"size:40;index" json:"orderId"`

	Quantity        float64  `json:"quantity"`
	Price           *float64 `json:"price,omitempty"`
	TriggerPrice    *float64 `json:"triggerPrice,omitempty"`
	TrailingAmount  *float64 `json:"trailingAmount,omitempty"`
	TakeProfitPrice *float64 `json:"takeProfitPrice,omitempty"`
	CutLossPrice    *float64 `json:"cutLossPrice,omitempty"`
	Toler           *float64 `json:"toler,omitempty"`

	OrderType   string   `gorm:"size:30;index" json:"orderType"`
	Status      string   `gorm:"size:20;index" json:"status"`
	MarketPrice *float64 `json:"marketPrice,omitempty"`

	EffectiveDate *time.Time `json:"effectiveDate,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`

	BuyingPower float64 `json:"buyingPower"`
	MaxQuantity float64 `json:"maxQuantity"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Trading) TableName() string {
	return "tradings"
}

// TradingFromOrder builds the ledger mirror of a freshly persisted order.
func TradingFromOrder(order *Order) *Trading {
	return &Trading{
		Symbol:          order.Symbol,
		AccountID:       formatID(order.UserID),
		OrderID:         formatID(order.ID),
		Quantity:        float64(order.Quantity),
		Price:           order.Price,
		TriggerPrice:    order.TriggerPrice,
		TrailingAmount:  order.TrailingAmount,
		TakeProfitPrice: order.TakeProfitPrice,
		CutLossPrice:    order.CutLossPrice,
		Toler:           order.Toler,
		OrderType:       string(order.OrderType),
		Status:          string(order.Status),
		MarketPrice:     order.MarketPrice,
		EffectiveDate:   order.EffectiveDate,
		ExpiryDate:      order.ExpiryDate,
		BuyingPower:     order.BuyingPower,
		MaxQuantity:     order.MaxQuantity,
		CreatedAt:       order.CreatedAt,
	}
}
