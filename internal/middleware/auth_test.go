package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, secret, userID, nickname string) string {
	t.Helper()
	claims := SessionClaims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(m *AuthMiddleware, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		nickname, _ := c.Get("nickname")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "nickname": nickname})
	}

	if required {
		router.GET("/ping", m.RequireIdentity(), handler)
	} else {
		router.GET("/ping", m.OptionalIdentity(), handler)
	}
	return router
}

func TestRequireIdentityAcceptsValidToken(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	router := newTestRouter(m, true)

	token := issueToken(t, "test-secret", "user-123", "Ana")
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-123")
	assert.Contains(t, rec.Body.String(), "Ana")
}

func TestRequireIdentityRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	router := newTestRouter(m, true)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentityRejectsWrongSecret(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	router := newTestRouter(m, true)

	token := issueToken(t, "other-secret", "user-123", "Ana")
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalIdentityAllowsAnonymous(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	router := newTestRouter(m, false)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalIdentityPopulatesClaims(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	router := newTestRouter(m, false)

	token := issueToken(t, "test-secret", "user-123", "Ana")
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana")
}
