package model

import (
	"fmt"
	"strings"
)

// ParseOrderType maps a path or query string onto an OrderType. It accepts
// both the enum spelling and the dashed route spelling (stop-limit, oco, ...).
func ParseOrderType(s string) (OrderType, error) {
	normalized := OrderType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch normalized {
	case OrderTypeNormal, OrderTypeGTD, OrderTypeStop, OrderTypeStopLimit,
		OrderTypeTrailingStop, OrderTypeTrailingStopLimit,
		OrderTypeOCO, OrderTypeStopLossTakeProfit:
		return normalized, nil
	}
	return "", fmt.Errorf("unknown order type %q", s)
}

// ParseOrderStatus maps a string onto an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	normalized := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch normalized {
	case OrderStatusPending, OrderStatusCancelled:
		return normalized, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// ParseOrderSide maps a string onto an OrderSide.
func ParseOrderSide(s string) (OrderSide, error) {
	normalized := OrderSide(strings.ToUpper(strings.TrimSpace(s)))
	switch normalized {
	case OrderSideBuy, OrderSideSell:
		return normalized, nil
	}
	return "", fmt.Errorf("unknown order side %q", s)
}
