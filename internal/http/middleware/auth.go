// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements optional bearer-token authentication. Tokens are the
// HS256 JWTs minted by the Supabase auth layer in front of this service; when
// no secret is configured the middleware is a no-op and requests proceed
// anonymously (chat and payments do not require an identity, cards do).
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ctxKeyUserID is the Gin context key holding the authenticated user id.
const ctxKeyUserID = "userID"

// authClaims is the subset of Supabase JWT claims this service reads.
type authClaims struct {
	jwt.RegisteredClaims
}

// UserIDFrom returns the authenticated user id, or "" for anonymous requests.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// BearerAuth returns a middleware validating Authorization: Bearer tokens
// against secret. An empty secret disables validation entirely. A present
// but invalid token is rejected with 401; a missing token passes through
// anonymously (handlers that need identity check UserIDFrom themselves).
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "malformed Authorization header")
			return
		}

		claims := &authClaims{}
		_, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token has expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		if claims.Subject != "" {
			c.Set(ctxKeyUserID, claims.Subject)
		}
		c.Next()
	}
}

// RequireUser aborts with 401 unless an authenticated user id is present.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFrom(c) == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
