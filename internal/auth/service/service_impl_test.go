package service

import (
	"context"
	"testing"
	"time"

	"github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/auth/repository"
	"github.com/brandkit/brandkit/internal/auth/token"
	"github.com/brandkit/brandkit/internal/clock"
	"github.com/brandkit/brandkit/internal/seed"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, seed.EnsureSchema(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	// The service and the issuer share one fake clock so token expiry
	// is checked against the issuance instant, not the wall clock.
	clk := clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))

	return &Service{
		db:     db,
		log:    zaptest.NewLogger(t),
		genID:  node,
		clock:  clk,
		repo:   repository.Provide(),
		issuer: token.NewIssuer("test-secret", time.Hour, clk),
	}
}

func TestSignUpAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, domain.SignUpRequest{
		Email:       "Shopper@Example.com",
		Password:    "correct horse",
		DisplayName: "Shopper",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "shopper@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleCustomer, resp.User.Role)

	login, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "shopper@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID.String())
}

func TestSignUpValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpRequest{Email: "no-at-sign", Password: "long enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.SignUp(ctx, domain.SignUpRequest{Email: "a@b.co", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.SignUp(ctx, domain.SignUpRequest{Email: "a@b.co", Password: "long enough", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	req := domain.SignUpRequest{Email: "a@b.co", Password: "long enough"}
	_, err := svc.SignUp(ctx, req)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpRequest{Email: "a@b.co", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "a@b.co", Password: "wrong password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@b.co", Password: "long enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
