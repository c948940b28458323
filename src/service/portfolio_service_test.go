package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bluetrade/src/model"
	"bluetrade/src/service"
)

func fundAccount(t *testing.T, db *gorm.DB, userID uint, balance float64) {
	t.Helper()
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("account_balance", balance).Error)
}

func TestBuyStockOpensPosition(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewPortfolioServiceWithDB(db)

	user := seedUser(t, db, 0)
	fundAccount(t, db, user.ID, 1000)
	seedStock(t, db, "AAPL", 50)

	position, err := svc.BuyStock(ctx, user.ID, "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, position.Quantity)
	assert.Equal(t, 50.0, position.PurchasePrice)

	assert.Equal(t, 500.0, reloadUser(t, db, user.ID).AccountBalance)

	positions, err := svc.GetPositions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "AAPL", positions[0].Symbol)
}

func TestBuyStockAveragesPurchasePrice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewPortfolioServiceWithDB(db)

	user := seedUser(t, db, 0)
	fundAccount(t, db, user.ID, 10000)
	stock := seedStock(t, db, "AAPL", 50)

	_, err := svc.BuyStock(ctx, user.ID, "AAPL", 10)
	require.NoError(t, err)

	// Price moves, second lot at 100: 10@50 + 10@100 => 20@75.
	require.NoError(t, db.Model(stock).Update("price", 100.0).Error)

	position, err := svc.BuyStock(ctx, user.ID, "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, 20, position.Quantity)
	assert.Equal(t, 75.0, position.PurchasePrice)

	assert.Equal(t, 8500.0, reloadUser(t, db, user.ID).AccountBalance)
}

func TestBuyStockInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewPortfolioServiceWithDB(db)

	user := seedUser(t, db, 0)
	fundAccount(t, db, user.ID, 100)
	seedStock(t, db, "AAPL", 50)

	_, err := svc.BuyStock(ctx, user.ID, "AAPL", 10)
	var fundsErr *service.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)

	assert.Equal(t, 100.0, reloadUser(t, db, user.ID).AccountBalance)

	positions, err := svc.GetPositions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestSellStockPartialAndFull(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewPortfolioServiceWithDB(db)

	user := seedUser(t, db, 0)
	fundAccount(t, db, user.ID, 1000)
	seedStock(t, db, "AAPL", 50)

	_, err := svc.BuyStock(ctx, user.ID, "AAPL", 10)
	require.NoError(t, err)

	position, err := svc.SellStock(ctx, user.ID, "AAPL", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, position.Quantity)
	assert.Equal(t, 700.0, reloadUser(t, db, user.ID).AccountBalance)

	// Selling the remainder closes the position.
	position, err = svc.SellStock(ctx, user.ID, "AAPL", 6)
	require.NoError(t, err)
	assert.Nil(t, position)
	assert.Equal(t, 1000.0, reloadUser(t, db, user.ID).AccountBalance)

	positions, err := svc.GetPositions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestSellStockInsufficientShares(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewPortfolioServiceWithDB(db)

	user := seedUser(t, db, 0)
	fundAccount(t, db, user.ID, 1000)
	seedStock(t, db, "AAPL", 50)

	_, err := svc.BuyStock(ctx, user.ID, "AAPL", 5)
	require.NoError(t, err)

	var validationErr *service.ValidationError

	_, err = svc.SellStock(ctx, user.ID, "AAPL", 6)
	require.ErrorAs(t, err, &validationErr)

	// No position at all behaves the same way.
	seedStock(t, db, "MSFT", 400)
	_, err = svc.SellStock(ctx, user.ID, "MSFT", 1)
	require.ErrorAs(t, err, &validationErr)

	assert.Equal(t, 750.0, reloadUser(t, db, user.ID).AccountBalance)
}

func TestPortfolioUnknownUserOrStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewPortfolioServiceWithDB(db)

	user := seedUser(t, db, 0)

	var notFoundErr *service.NotFoundError

	_, err := svc.BuyStock(ctx, 99999, "AAPL", 1)
	require.ErrorAs(t, err, &notFoundErr)

	_, err = svc.BuyStock(ctx, user.ID, "NOPE", 1)
	require.ErrorAs(t, err, &notFoundErr)

	_, err = svc.GetPositions(ctx, 99999)
	require.ErrorAs(t, err, &notFoundErr)
}
