package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the resolved identity: the user id as subject
// plus the nickname the leaderboard matches against.
type SessionClaims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireIdentity aborts with 401 when no valid session token is present.
// Handlers downstream read "user_id" and "nickname" from the context.
func (m *AuthMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.parseToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session identity required, restart onboarding"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("nickname", claims.Nickname)
		c.Next()
	}
}

// OptionalIdentity populates the identity when a valid token is present
// and lets the request through either way. Used by the leaderboard so
// anonymous fetches still render.
func (m *AuthMiddleware) OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := m.parseToken(c); err == nil {
			c.Set("user_id", claims.Subject)
			c.Set("nickname", claims.Nickname)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) parseToken(c *gin.Context) (*SessionClaims, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" {
		return nil, fmt.Errorf("no token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
