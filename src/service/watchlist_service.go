package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
	"bluetrade/src/repository"
)

// WatchlistService manages named per-user symbol lists.
type WatchlistService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWatchlistService() *WatchlistService {
	return NewWatchlistServiceWithDB(database.MainDB)
}

func NewWatchlistServiceWithDB(db *gorm.DB) *WatchlistService {
	return &WatchlistService{db: db, now: time.Now}
}

// CreateWatchlist creates a new empty watchlist; names are unique per user.
func (s *WatchlistService) CreateWatchlist(ctx context.Context, userID uint, name string) (*model.Watchlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Watchlist name is required")
	}

	users := repository.NewUserRepository().WithDB(s.db)
	watchlists := repository.NewWatchlistRepository().WithDB(s.db)

	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	exists, err := watchlists.ExistsByNameAndUser(ctx, name, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("Watchlist with name %q already exists", name)
	}

	watchlist := &model.Watchlist{UserID: userID, Name: name}
	if err := watchlists.Create(ctx, watchlist); err != nil {
		return nil, err
	}

	return watchlist, nil
}

// GetUserWatchlists returns all of the user's watchlists.
func (s *WatchlistService) GetUserWatchlists(ctx context.Context, userID uint) ([]model.Watchlist, error) {
	user, err := repository.NewUserRepository().WithDB(s.db).FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	return repository.NewWatchlistRepository().WithDB(s.db).FindByUser(ctx, userID)
}

// GetWatchlist returns one watchlist after an ownership check.
func (s *WatchlistService) GetWatchlist(ctx context.Context, id, userID uint) (*model.Watchlist, error) {
	watchlist, err := repository.NewWatchlistRepository().WithDB(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if watchlist == nil {
		return nil, notFound("Watchlist not found")
	}
	if watchlist.UserID != userID {
		return nil, forbidden("Access to watchlist denied")
	}

	return watchlist, nil
}

// DeleteWatchlist removes a watchlist and its items.
func (s *WatchlistService) DeleteWatchlist(ctx context.Context, id, userID uint) error {
	watchlist, err := s.GetWatchlist(ctx, id, userID)
	if err != nil {
		return err
	}

	return repository.NewWatchlistRepository().WithDB(s.db).Delete(ctx, watchlist)
}

// AddSymbol tracks a stock on the watchlist. The symbol must resolve in the
// local cache.
func (s *WatchlistService) AddSymbol(ctx context.Context, id, userID uint, symbol string) (*model.Watchlist, error) {
	watchlist, err := s.GetWatchlist(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	stock, err := repository.NewStockRepository().WithDB(s.db).FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, notFound("Stock not found with symbol: %s", symbol)
	}

	for _, item := range watchlist.Items {
		if item.Symbol == symbol {
			return nil, invalid("Symbol %s is already on the watchlist", symbol)
		}
	}

	item := &model.WatchlistItem{
		WatchlistID: watchlist.ID,
		StockID:     stock.ID,
		Symbol:      symbol,
		AddedAt:     s.now(),
	}
	if err := repository.NewWatchlistRepository().WithDB(s.db).AddItem(ctx, item); err != nil {
		return nil, err
	}

	watchlist.Items = append(watchlist.Items, *item)
	return watchlist, nil
}

// RemoveSymbol untracks one symbol.
func (s *WatchlistService) RemoveSymbol(ctx context.Context, id, userID uint, symbol string) error {
	watchlist, err := s.GetWatchlist(ctx, id, userID)
	if err != nil {
		return err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	removed, err := repository.NewWatchlistRepository().WithDB(s.db).RemoveItem(ctx, watchlist.ID, symbol)
	if err != nil {
		return err
	}
	if removed == 0 {
		return notFound("Symbol %s is not on the watchlist", symbol)
	}

	return nil
}
