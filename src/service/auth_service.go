package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bluetrade/src/database"
	"bluetrade/src/model"
	"bluetrade/src/repository"
)

// AuthService registers users and issues bearer tokens.
type AuthService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewAuthService() *AuthService {
	return NewAuthServiceWithDB(database.MainDB)
}

func NewAuthServiceWithDB(db *gorm.DB) *AuthService {
	return &AuthService{
		db:  db,
		log: logrus.WithField("component", "AuthService"),
	}
}

// Register creates a user with a bcrypt-hashed password and an opening
// buying power / account balance.
func (s *AuthService) Register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	users := repository.NewUserRepository().WithDB(s.db)

	existing, err := users.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("Email %s is already registered", user.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashed)

	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and rotates the user's bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	users := repository.NewUserRepository().WithDB(s.db)

	user, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", forbidden("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Password mismatch on login")
		return nil, "", forbidden("Invalid credentials")
	}

	token := uuid.NewString()
	user.Token = token
	if err := users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
// Returns (nil, nil) for an unknown token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	return repository.NewUserRepository().WithDB(s.db).FindByToken(ctx, token)
}
