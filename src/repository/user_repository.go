package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
)

// UserRepository handles read/write operations for users, including the
// atomic buying-power reserve/release used by the order engine.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository instance using the main
// read/write database.
func NewUserRepository() *UserRepository {
	return &UserRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *UserRepository) WithDB(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID fetches a single user by primary ID.
// Returns (nil, nil) if the user is not found.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo": "UserRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch user by ID")

		return nil, err
	}

	return &user, nil
}

// FindByEmail fetches a single user by email.
// Returns (nil, nil) if the user is not found.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// FindByToken fetches the user holding the given bearer token.
// Returns (nil, nil) if no user holds it.
func (r *UserRepository) FindByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	var user model.User

	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":  "UserRepository",
			"op":    "Create",
			"email": user.Email,
		}).WithError(err).Error("Failed to create user")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "UserRepository",
		"op":      "Create",
		"user_id": user.ID,
	}).Info("User created successfully")

	return nil
}

// Update persists the full user record.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ReserveBuyingPower atomically debits the user's buying power if and only if
// the remaining balance stays non-negative:
//
//	UPDATE users SET buying_power = buying_power - ? WHERE id = ? AND buying_power >= ?
//
// Returns false with no error when the balance was insufficient (zero rows
// affected). Concurrent reservations against the same user serialize on this
// single conditional update, so two jointly unaffordable reservations can
// never both succeed.
func (r *UserRepository) ReserveBuyingPower(ctx context.Context, userID uint, amount float64) (bool, error) {
	logger.WithFields(map[string]interface{}{
		"repo":    "UserRepository",
		"op":      "ReserveBuyingPower",
		"user_id": userID,
		"amount":  amount,
	}).Debug("Reserving buying power")

	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND buying_power >= ?", userID, amount).
		Update("buying_power", gorm.Expr("buying_power - ?", amount))

	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "UserRepository",
			"op":      "ReserveBuyingPower",
			"user_id": userID,
		}).WithError(res.Error).Error("Failed to reserve buying power")

		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

// ReleaseBuyingPower credits a previously reserved amount back to the user.
func (r *UserRepository) ReleaseBuyingPower(ctx context.Context, userID uint, amount float64) error {
	logger.WithFields(map[string]interface{}{
		"repo":    "UserRepository",
		"op":      "ReleaseBuyingPower",
		"user_id": userID,
		"amount":  amount,
	}).Debug("Releasing buying power")

	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("buying_power", gorm.Expr("buying_power + ?", amount)).Error
}

// AdjustAccountBalance atomically moves settled cash for the portfolio
// buy/sell flow. A negative delta is applied only when the balance covers it.
func (r *UserRepository) AdjustAccountBalance(ctx context.Context, userID uint, delta float64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{})

	if delta < 0 {
		tx = tx.Where("id = ? AND account_balance >= ?", userID, -delta)
	} else {
		tx = tx.Where("id = ?", userID)
	}

	res := tx.Update("account_balance", gorm.Expr("account_balance + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}
