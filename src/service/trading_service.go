package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
	"bluetrade/src/pricing"
	"bluetrade/src/repository"
)

// TradingService is the order engine: it validates, prices and records
// orders, and keeps the user's buying power and the trading ledger in sync.
//
// Every placement and cancellation runs as one database transaction, so the
// balance mutation, the order row and the ledger record commit together or
// not at all. Buying power itself is only ever touched through a conditional
// UPDATE, which is what makes concurrent placements by the same user safe.
type TradingService struct {
	db  *gorm.DB
	log *logrus.Entry
	now func() time.Time
}

// NewTradingService creates the service on the main database.
func NewTradingService() *TradingService {
	return NewTradingServiceWithDB(database.MainDB)
}

// NewTradingServiceWithDB creates the service on a specific database,
// used by tests.
func NewTradingServiceWithDB(db *gorm.DB) *TradingService {
	return &TradingService{
		db:  db,
		log: logrus.WithField("component", "TradingService"),
		now: time.Now,
	}
}

// PlaceOrder validates and records an order for the given user. BUY orders
// reserve price*quantity of buying power; SELL orders leave it untouched.
// The persisted order carries a snapshot of the post-reservation buying power
// and the max quantity it could still afford.
func (s *TradingService) PlaceOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	var placed *model.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository().WithDB(tx)
		stocks := repository.NewStockRepository().WithDB(tx)
		orders := repository.NewOrderRepository().WithDB(tx)
		tradings := repository.NewTradingRepository().WithDB(tx)

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("User not found")
		}

		stock, err := stocks.FindBySymbol(ctx, order.Symbol)
		if err != nil {
			return err
		}
		if stock == nil {
			return notFound("Stock not found with symbol: %s", order.Symbol)
		}

		now := s.now()
		order.UserID = user.ID
		order.StockID = stock.ID
		order.Symbol = stock.Symbol
		order.EntryDate = now
		order.EntryTime = now.Format("15:04:05")
		order.CreatedAtTime = now.Format("15:04:05")
		if order.OrderType == "" {
			order.OrderType = model.OrderTypeNormal
		}

		if err := validateOrder(order); err != nil {
			return err
		}

		if order.OrderSide == model.OrderSideBuy {
			totalCost := pricing.TotalCost(*order.Price, order.Quantity)

			reserved, err := users.ReserveBuyingPower(ctx, userID, totalCost)
			if err != nil {
				return err
			}
			if !reserved {
				s.log.WithFields(map[string]interface{}{
					"user_id":    userID,
					"total_cost": totalCost,
				}).Info("Order rejected: insufficient buying power")

				return insufficientFunds("Insufficient buying power")
			}

			// Re-read for the post-reservation snapshot.
			user, err = users.FindByID(ctx, userID)
			if err != nil {
				return err
			}
		}

		order.BuyingPower = user.BuyingPower
		order.MaxQuantity = pricing.MaxQuantity(user.BuyingPower, order.Price)
		order.Status = model.OrderStatusPending

		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		if err := tradings.Create(ctx, model.TradingFromOrder(order)); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"order_id": placed.ID,
		"user_id":  userID,
		"symbol":   placed.Symbol,
		"type":     placed.OrderType,
		"side":     placed.OrderSide,
	}).Info("Order placed")

	return placed, nil
}

// validateOrder runs the shared placement checks: positive quantity, a price
// on BUY orders, a known side, and the per-type required-field contract.
func validateOrder(order *model.Order) error {
	if order.Quantity <= 0 {
		return invalid("Quantity must be greater than zero")
	}

	if order.OrderSide != model.OrderSideBuy && order.OrderSide != model.OrderSideSell {
		return invalid("Order side must be BUY or SELL")
	}

	if order.OrderSide == model.OrderSideBuy && order.Price == nil {
		return invalid("Price is required for BUY orders")
	}

	if missing := order.MissingFields(); len(missing) > 0 {
		return invalid("%s required for %s orders", strings.Join(missing, ", "), order.OrderType)
	}

	return nil
}

// CancelOrder cancels a PENDING order owned by the user, refunds the BUY
// reservation, and syncs the ledger record. Cancelling anything else fails
// without touching balance or ledger.
func (s *TradingService) CancelOrder(ctx context.Context, orderID, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository().WithDB(tx)
		orders := repository.NewOrderRepository().WithDB(tx)
		tradings := repository.NewTradingRepository().WithDB(tx)

		order, err := orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return notFound("Order not found")
		}

		if order.UserID != userID {
			return forbidden("Access to order denied")
		}

		if order.Status != model.OrderStatusPending {
			return invalid("Cannot cancel a %s order", order.Status)
		}

		// The flip goes first and is conditional on the status still being
		// PENDING, so a concurrent cancel that read the same stale row loses
		// here and never reaches the refund.
		flipped, err := orders.UpdateStatusIf(ctx, orderID, model.OrderStatusPending, model.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !flipped {
			return invalid("Cannot cancel a %s order", model.OrderStatusCancelled)
		}

		if order.OrderSide == model.OrderSideBuy && order.Price != nil {
			refund := pricing.TotalCost(*order.Price, order.Quantity)
			if err := users.ReleaseBuyingPower(ctx, userID, refund); err != nil {
				return err
			}
		}

		// Missing ledger record is a silent no-op, not an error.
		return tradings.UpdateStatusByOrderID(ctx,
			strconv.FormatUint(uint64(orderID), 10),
			string(model.OrderStatusCancelled))
	})
	if err != nil {
		return err
	}

	s.log.WithFields(map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	}).Info("Order cancelled")

	return nil
}

// GetUserOrders returns all orders for the user.
func (s *TradingService) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.findOrders(ctx, userID, repository.OrderFilter{})
}

// GetOpenOrders returns the user's PENDING orders.
func (s *TradingService) GetOpenOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	pending := model.OrderStatusPending
	return s.findOrders(ctx, userID, repository.OrderFilter{Status: &pending})
}

// GetOrdersByStatus returns the user's orders in the given status.
func (s *TradingService) GetOrdersByStatus(ctx context.Context, userID uint, status model.OrderStatus) ([]model.Order, error) {
	return s.findOrders(ctx, userID, repository.OrderFilter{Status: &status})
}

// GetOrdersByType returns the user's orders of the given type.
func (s *TradingService) GetOrdersByType(ctx context.Context, userID uint, orderType model.OrderType) ([]model.Order, error) {
	return s.findOrders(ctx, userID, repository.OrderFilter{OrderType: &orderType})
}

// GetOrdersByStatusAndType returns the user's orders matching both filters.
func (s *TradingService) GetOrdersByStatusAndType(ctx context.Context, userID uint, status model.OrderStatus, orderType model.OrderType) ([]model.Order, error) {
	return s.findOrders(ctx, userID, repository.OrderFilter{Status: &status, OrderType: &orderType})
}

// GetOrderByID returns one of the user's orders, or NotFound if it does not
// exist or belongs to someone else.
func (s *TradingService) GetOrderByID(ctx context.Context, orderID, userID uint) (*model.Order, error) {
	order, err := repository.NewOrderRepository().WithDB(s.db).FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, notFound("Order not found")
	}
	return order, nil
}

func (s *TradingService) findOrders(ctx context.Context, userID uint, filter repository.OrderFilter) ([]model.Order, error) {
	user, err := repository.NewUserRepository().WithDB(s.db).FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	return repository.NewOrderRepository().WithDB(s.db).FindByUser(ctx, userID, filter)
}

// ---------------------------------------------------
// Per-type placement entry points
// ---------------------------------------------------
//
// Each wrapper pins the type tag and delegates to the shared flow; the
// required-field contract for the pinned type is enforced there.

func (s *TradingService) PlaceNormalOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeNormal
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceGTDOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeGTD
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceStopOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeStop
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceStopLimitOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeStopLimit
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceTrailingStopOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeTrailingStop
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceTrailingStopLimitOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeTrailingStopLimit
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceOCOOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeOCO
	return s.PlaceOrder(ctx, order, userID)
}

func (s *TradingService) PlaceStopLossTakeProfitOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	order.OrderType = model.OrderTypeStopLossTakeProfit
	return s.PlaceOrder(ctx, order, userID)
}

// PlaceOrderByType dispatches to the wrapper matching the order's type tag,
// defaulting to NORMAL when none is set.
func (s *TradingService) PlaceOrderByType(ctx context.Context, order *model.Order, userID uint) (*model.Order, error) {
	switch order.OrderType {
	case model.OrderTypeGTD:
		return s.PlaceGTDOrder(ctx, order, userID)
	case model.OrderTypeStop:
		return s.PlaceStopOrder(ctx, order, userID)
	case model.OrderTypeStopLimit:
		return s.PlaceStopLimitOrder(ctx, order, userID)
	case model.OrderTypeTrailingStop:
		return s.PlaceTrailingStopOrder(ctx, order, userID)
	case model.OrderTypeTrailingStopLimit:
		return s.PlaceTrailingStopLimitOrder(ctx, order, userID)
	case model.OrderTypeOCO:
		return s.PlaceOCOOrder(ctx, order, userID)
	case model.OrderTypeStopLossTakeProfit:
		return s.PlaceStopLossTakeProfitOrder(ctx, order, userID)
	default:
		return s.PlaceNormalOrder(ctx, order, userID)
	}
}

// GetTradings lists ledger records matching the filter.
func (s *TradingService) GetTradings(ctx context.Context, filter repository.TradingFilter) ([]model.Trading, error) {
	return repository.NewTradingRepository().WithDB(s.db).Find(ctx, filter)
}
