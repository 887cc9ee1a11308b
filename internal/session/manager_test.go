package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecurity = config.Security{JWTKey: "test-secret-key-123456789012345", JWTExpiryHours: 1}

func requestWithCookie(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	return req
}

func TestManager_IssueAndParse(t *testing.T) {
	// Arrange
	manager := session.NewManager(testSecurity)
	claims := &models.Claims{SessionID: uuid.New(), UserID: 7, Username: "alice"}

	// Act
	cookie, err := manager.Issue(claims)
	require.NoError(t, err)

	parsed, err := manager.Parse(requestWithCookie(cookie))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, session.CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, time.Hour, manager.TTL())
	assert.Equal(t, claims.SessionID, parsed.SessionID)
	assert.Equal(t, int64(7), parsed.UserID)
	assert.Equal(t, "alice", parsed.Username)
	assert.True(t, parsed.IsAuthenticated())
}

func TestManager_AnonymousSession(t *testing.T) {
	manager := session.NewManager(testSecurity)

	cookie, err := manager.Issue(session.Anonymous())
	require.NoError(t, err)

	parsed, err := manager.Parse(requestWithCookie(cookie))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, parsed.SessionID)
	assert.False(t, parsed.IsAuthenticated())
}

func TestManager_ParseRejects(t *testing.T) {
	manager := session.NewManager(testSecurity)

	t.Run("Missing Cookie", func(t *testing.T) {
		_, err := manager.Parse(requestWithCookie(nil))
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("Wrong Key", func(t *testing.T) {
		other := session.NewManager(config.Security{JWTKey: "another-secret-key-1234567890123", JWTExpiryHours: 1})
		cookie, err := other.Issue(session.Anonymous())
		require.NoError(t, err)

		_, err = manager.Parse(requestWithCookie(cookie))
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := &models.Claims{
			SessionID: uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecurity.JWTKey))
		require.NoError(t, err)

		_, err = manager.Parse(requestWithCookie(&http.Cookie{Name: session.CookieName, Value: token}))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Unsigned Token", func(t *testing.T) {
		claims := &models.Claims{
			SessionID: uuid.New(),
			UserID:    1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Parse(requestWithCookie(&http.Cookie{Name: session.CookieName, Value: token}))
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := manager.Parse(requestWithCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-token"}))
		assert.Error(t, err)
	})
}
