package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
	"bluetrade/src/pricing"
	"bluetrade/src/repository"
)

// PortfolioService buys and sells positions at the current cached price
// against the user's settled account balance. This flow is independent of the
// order engine's buying power.
type PortfolioService struct {
	db  *gorm.DB
	log *logrus.Entry
	now func() time.Time
}

func NewPortfolioService() *PortfolioService {
	return NewPortfolioServiceWithDB(database.MainDB)
}

func NewPortfolioServiceWithDB(db *gorm.DB) *PortfolioService {
	return &PortfolioService{
		db:  db,
		log: logrus.WithField("component", "PortfolioService"),
		now: time.Now,
	}
}

// GetPositions returns every position the user holds.
func (s *PortfolioService) GetPositions(ctx context.Context, userID uint) ([]model.UserStock, error) {
	user, err := repository.NewUserRepository().WithDB(s.db).FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	return repository.NewUserStockRepository().WithDB(s.db).FindByUser(ctx, userID)
}

// BuyStock debits the account balance by price*quantity and opens or grows a
// position; a grown position keeps a volume-weighted average purchase price.
func (s *PortfolioService) BuyStock(ctx context.Context, userID uint, symbol string, quantity int) (*model.UserStock, error) {
	if quantity <= 0 {
		return nil, invalid("Quantity must be greater than zero")
	}

	var result *model.UserStock

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository().WithDB(tx)
		stocks := repository.NewStockRepository().WithDB(tx)
		positions := repository.NewUserStockRepository().WithDB(tx)

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("User not found")
		}

		stock, err := stocks.FindBySymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if stock == nil {
			return notFound("Stock not found with symbol: %s", symbol)
		}

		totalCost := pricing.TotalCost(stock.Price, quantity)

		debited, err := users.AdjustAccountBalance(ctx, userID, -totalCost)
		if err != nil {
			return err
		}
		if !debited {
			return insufficientFunds("Insufficient funds to buy stock")
		}

		position, err := positions.FindByUserAndStock(ctx, userID, stock.ID)
		if err != nil {
			return err
		}

		if position != nil {
			newQuantity := position.Quantity + quantity
			newCost := pricing.TotalCost(position.PurchasePrice, position.Quantity) + totalCost
			position.Quantity = newQuantity
			position.PurchasePrice = newCost / float64(newQuantity)
		} else {
			position = &model.UserStock{
				UserID:        userID,
				StockID:       stock.ID,
				Symbol:        stock.Symbol,
				Quantity:      quantity,
				PurchasePrice: stock.Price,
				PurchaseDate:  s.now(),
			}
		}

		if err := positions.Save(ctx, position); err != nil {
			return err
		}

		result = position
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"user_id": userID,
		"symbol":  symbol,
		"qty":     quantity,
	}).Info("Stock bought")

	return result, nil
}

// SellStock credits the proceeds at the current price and shrinks or closes
// the position. Returns nil when the position was fully sold.
func (s *PortfolioService) SellStock(ctx context.Context, userID uint, symbol string, quantity int) (*model.UserStock, error) {
	if quantity <= 0 {
		return nil, invalid("Quantity must be greater than zero")
	}

	var result *model.UserStock

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository().WithDB(tx)
		stocks := repository.NewStockRepository().WithDB(tx)
		positions := repository.NewUserStockRepository().WithDB(tx)

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("User not found")
		}

		stock, err := stocks.FindBySymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if stock == nil {
			return notFound("Stock not found with symbol: %s", symbol)
		}

		position, err := positions.FindByUserAndStock(ctx, userID, stock.ID)
		if err != nil {
			return err
		}
		if position == nil || position.Quantity < quantity {
			return invalid("Insufficient shares to sell")
		}

		proceeds := pricing.TotalCost(stock.Price, quantity)
		if _, err := users.AdjustAccountBalance(ctx, userID, proceeds); err != nil {
			return err
		}

		if position.Quantity == quantity {
			if err := positions.Delete(ctx, position); err != nil {
				return err
			}
			result = nil
			return nil
		}

		position.Quantity -= quantity
		if err := positions.Save(ctx, position); err != nil {
			return err
		}

		result = position
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"user_id": userID,
		"symbol":  symbol,
		"qty":     quantity,
	}).Info("Stock sold")

	return result, nil
}
