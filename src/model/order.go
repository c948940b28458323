package model

import "time"

// OrderSide is the direction of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderStatus is the lifecycle state of an order. Orders are created PENDING
// and the only implemented transition is PENDING -> CANCELLED.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderType is the closed set of supported order variants.
type OrderType string

const (
	OrderTypeNormal             OrderType = "NORMAL"
	OrderTypeGTD                OrderType = "GTD"
	OrderTypeStop               OrderType = "STOP"
	OrderTypeStopLimit          OrderType = "STOP_LIMIT"
	OrderTypeTrailingStop       OrderType = "TRAILING_STOP"
	OrderTypeTrailingStopLimit  OrderType = "TRAILING_STOP_LIMIT"
	OrderTypeOCO                OrderType = "OCO"
	OrderTypeStopLossTakeProfit OrderType = "STOP_LOSS_TAKE_PROFIT"
)

// Order represents one placement attempt. Optional economic fields are
// pointers so "not supplied" is distinguishable from zero.
type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index;not null" json:"userId"`
	StockID uint   `gorm:"index;not null" json:"stockId"`
	Symbol  string `gorm:"size:20;index" json:"symbol"`

	Quantity int      `gorm:"not null" json:"quantity"`
	Price    *float64 `json:"price,omitempty"`

	TriggerPrice    *float64 `json:"triggerPrice,omitempty"`
	TrailingAmount  *float64 `json:"trailingAmount,omitempty"`
	TakeProfitPrice *float64 `json:"takeProfitPrice,omitempty"`
	CutLossPrice    *float64 `json:"cutLossPrice,omitempty"`
	Toler           *float64 `json:"toler,omitempty"`

	OrderType OrderType   `gorm:"size:30;not null;default:NORMAL" json:"orderType"`
	Status    OrderStatus `gorm:"size:20;not null;default:PENDING" json:"status"`
	OrderSide OrderSide   `gorm:"size:10" json:"orderSide"`

	MarketPrice *float64 `json:"marketPrice,omitempty"`

	EntryDate     time.Time  `gorm:"not null" json:"entryDate"`
	EffectiveDate *time.Time `json:"effectiveDate,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	EntryTime     string     `gorm:"size:12" json:"entryTime"`
	ExpiryTime    string     `gorm:"size:12" json:"expiryTime,omitempty"`

	// Snapshots taken at placement time for client display; never re-derived.
	BuyingPower float64 `json:"buyingPower"`
	MaxQuantity float64 `json:"maxQuantity"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedAtTime string    `gorm:"size:12" json:"createdAtTime"`
	UpdatedAt     time.Time `json:"-"`
}

// TableName allows you to control the exact table name for orders.
func (Order) TableName() string {
	return "orders"
}

// requiredField pairs a wire-level field name with a presence check.
type requiredField struct {
	name    string
	present func(*Order) bool
}

// requiredFieldsByType is the per-variant required-field contract. NORMAL has
// no entry because it requires nothing beyond price and quantity.
var requiredFieldsByType = map[OrderType][]requiredField{
	OrderTypeStop: {
		{"triggerPrice", func(o *Order) bool { return o.TriggerPrice != nil }},
	},
	OrderTypeStopLimit: {
		{"triggerPrice", func(o *Order) bool { return o.TriggerPrice != nil }},
		{"price", func(o *Order) bool { return o.Price != nil }},
	},
	OrderTypeTrailingStop: {
		{"trailingAmount", func(o *Order) bool { return o.TrailingAmount != nil }},
	},
	OrderTypeTrailingStopLimit: {
		{"trailingAmount", func(o *Order) bool { return o.TrailingAmount != nil }},
		{"price", func(o *Order) bool { return o.Price != nil }},
	},
	OrderTypeOCO: {
		{"takeProfitPrice", func(o *Order) bool { return o.TakeProfitPrice != nil }},
		{"cutLossPrice", func(o *Order) bool { return o.CutLossPrice != nil }},
	},
	OrderTypeStopLossTakeProfit: {
		{"takeProfitPrice", func(o *Order) bool { return o.TakeProfitPrice != nil }},
		{"cutLossPrice", func(o *Order) bool { return o.CutLossPrice != nil }},
	},
	OrderTypeGTD: {
		{"expiryDate", func(o *Order) bool { return o.ExpiryDate != nil }},
	},
}

// MissingFields returns the names of the type-required fields not set on the
// order, in contract order. Empty for a complete order.
func (o *Order) MissingFields() []string {
	var missing []string
	for _, f := range requiredFieldsByType[o.OrderType] {
		if !f.present(o) {
			missing = append(missing, f.name)
		}
	}
	return missing
}
