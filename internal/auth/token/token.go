package token

import (
	"fmt"
	"time"

	"github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/clock"
	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies the bearer tokens handlers rely on. Expiry
// checks run against the injected clock so they stay deterministic in
// tests.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(secret string, ttl time.Duration, clk clock.Clock) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token carrying the user's id, email and role.
func (i *Issuer) Issue(user *domain.User) (string, time.Time, error) {
	now := i.clock.Now()
	expiresAt := now.Add(i.ttl)
	c := &claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning the decoded identity.
func (i *Issuer) Verify(tokenString string) (domain.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.clock.Now))
	if err != nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(c.Subject)
	if err != nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	return domain.Claims{
		UserID: userID,
		Email:  c.Email,
		Role:   c.Role,
	}, nil
}
