package model

import "time"

// User holds identity plus the two cash balances: BuyingPower is reserved
// against open BUY orders by the order engine, AccountBalance is settled cash
// moved only by the portfolio buy/sell flow.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:120" json:"fullName"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Mobile   string `gorm:"size:30" json:"mobile,omitempty"`
	Location string `gorm:"size:120" json:"location,omitempty"`

	BuyingPower    float64 `gorm:"not null;default:0" json:"buyingPower"`
	AccountBalance float64 `gorm:"not null;default:0" json:"accountBalance"`

	// Token is the active bearer token; empty when logged out.
	Token string `gorm:"size:64;index" json:"-"`

	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
