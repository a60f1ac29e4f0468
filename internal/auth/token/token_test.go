package token

import (
	"testing"
	"time"

	"github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/clock"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	// An instant far in the past: verification only succeeds because
	// expiry is checked against the injected clock, not the wall clock.
	clk := clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewIssuer("test-secret", time.Hour, clk)

	user := &domain.User{
		ID:    snowflake.ID(42),
		Email: "shopper@example.com",
		Role:  domain.RoleCustomer,
	}

	signed, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(time.Hour), expiresAt)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewIssuer("test-secret", time.Hour, clk)
	other := NewIssuer("other-secret", time.Hour, clk)

	signed, _, err := issuer.Issue(&domain.User{ID: snowflake.ID(42)})
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewIssuer("test-secret", time.Minute, clk)

	signed, _, err := issuer.Issue(&domain.User{ID: snowflake.ID(42)})
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsNotYetValidToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewIssuer("test-secret", time.Hour, clk)

	clk.Advance(time.Hour)
	signed, _, err := issuer.Issue(&domain.User{ID: snowflake.ID(42)})
	require.NoError(t, err)

	// Rewind below the token's nbf.
	early := NewIssuer("test-secret", time.Hour, clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)))
	_, err = early.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewIssuer("test-secret", time.Hour, clk)

	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
