package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bluetrade/src/model"
	"bluetrade/src/service"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewAuthServiceWithDB(db)

	registered, err := svc.Register(ctx, &model.User{
		FullName:    "Test Trader",
		Email:       "Trader@Example.com",
		BuyingPower: 1000,
	}, "s3cret")
	require.NoError(t, err)
	require.NotZero(t, registered.ID)

	// Email normalized, password stored hashed.
	assert.Equal(t, "trader@example.com", registered.Email)
	assert.NotEqual(t, "s3cret", registered.Password)

	user, token, err := svc.Login(ctx, "trader@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, registered.ID, resolved.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewAuthServiceWithDB(db)

	_, err := svc.Register(ctx, &model.User{Email: "trader@example.com"}, "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.User{Email: "TRADER@example.com"}, "other")
	var validationErr *service.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewAuthServiceWithDB(db)

	var validationErr *service.ValidationError

	_, err := svc.Register(ctx, &model.User{}, "s3cret")
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Register(ctx, &model.User{Email: "trader@example.com"}, "")
	require.ErrorAs(t, err, &validationErr)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewAuthServiceWithDB(db)

	_, err := svc.Register(ctx, &model.User{Email: "trader@example.com"}, "s3cret")
	require.NoError(t, err)

	var forbiddenErr *service.ForbiddenError

	_, _, err = svc.Login(ctx, "trader@example.com", "wrong")
	require.ErrorAs(t, err, &forbiddenErr)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	require.ErrorAs(t, err, &forbiddenErr)
}

func TestLoginRotatesToken(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := service.NewAuthServiceWithDB(db)

	_, err := svc.Register(ctx, &model.User{Email: "trader@example.com"}, "s3cret")
	require.NoError(t, err)

	_, first, err := svc.Login(ctx, "trader@example.com", "s3cret")
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, "trader@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// The old token no longer resolves.
	stale, err := svc.Authenticate(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, stale)

	current, err := svc.Authenticate(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, current)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAuthServiceWithDB(db)

	user, err := svc.Authenticate(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Authenticate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
}
