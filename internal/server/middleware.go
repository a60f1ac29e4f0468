package server

import (
	"strings"

	authdomain "github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const claimsContextKey = "auth.claims"

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// AuthRequired rejects requests that do not carry a valid bearer token.
func AuthRequired(svc authdomain.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		claims, err := svc.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// AuthOptional attaches claims when a valid bearer token is present,
// but lets anonymous requests through. An invalid token is still an error.
func AuthOptional(svc authdomain.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := svc.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole guards a route behind one of the given roles.
// It must run after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func claimsFrom(c *gin.Context) (authdomain.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return authdomain.Claims{}, false
	}
	claims, ok := v.(authdomain.Claims)
	return claims, ok
}
