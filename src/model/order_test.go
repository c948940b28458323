package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestMissingFields(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name    string
		order   Order
		missing []string
	}{
		{
			name:    "normal requires nothing extra",
			order:   Order{OrderType: OrderTypeNormal},
			missing: nil,
		},
		{
			name:    "stop without trigger",
			order:   Order{OrderType: OrderTypeStop},
			missing: []string{"triggerPrice"},
		},
		{
			name:    "stop with trigger",
			order:   Order{OrderType: OrderTypeStop, TriggerPrice: fptr(45)},
			missing: nil,
		},
		{
			name:    "stop limit without anything",
			order:   Order{OrderType: OrderTypeStopLimit},
			missing: []string{"triggerPrice", "price"},
		},
		{
			name:    "trailing stop limit with half the fields",
			order:   Order{OrderType: OrderTypeTrailingStopLimit, TrailingAmount: fptr(2)},
			missing: []string{"price"},
		},
		{
			name:    "oco missing both legs",
			order:   Order{OrderType: OrderTypeOCO},
			missing: []string{"takeProfitPrice", "cutLossPrice"},
		},
		{
			name: "stop loss take profit complete",
			order: Order{
				OrderType:       OrderTypeStopLossTakeProfit,
				TakeProfitPrice: fptr(60),
				CutLossPrice:    fptr(40),
			},
			missing: nil,
		},
		{
			name:    "gtd without expiry",
			order:   Order{OrderType: OrderTypeGTD},
			missing: []string{"expiryDate"},
		},
		{
			name:    "gtd with expiry",
			order:   Order{OrderType: OrderTypeGTD, ExpiryDate: &now},
			missing: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.missing, tc.order.MissingFields())
		})
	}
}

func TestParseOrderType(t *testing.T) {
	cases := map[string]OrderType{
		"NORMAL":                "NORMAL",
		"normal":                "NORMAL",
		"stop-limit":            "STOP_LIMIT",
		"STOP_LIMIT":            "STOP_LIMIT",
		"trailing-stop-limit":   "TRAILING_STOP_LIMIT",
		"oco":                   "OCO",
		"stop-loss-take-profit": "STOP_LOSS_TAKE_PROFIT",
		" gtd ":                 "GTD",
	}
	for input, want := range cases {
		got, err := ParseOrderType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseOrderType("LIMIT_IF_TOUCHED")
	assert.Error(t, err)
	_, err = ParseOrderType("")
	assert.Error(t, err)
}

func TestParseOrderStatusAndSide(t *testing.T) {
	status, err := ParseOrderStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, status)

	_, err = ParseOrderStatus("FILLED")
	assert.Error(t, err)

	side, err := ParseOrderSide("buy")
	require.NoError(t, err)
	assert.Equal(t, OrderSideBuy, side)

	_, err = ParseOrderSide("SHORT")
	assert.Error(t, err)
}
