package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecurity = config.Security{JWTKey: "test-secret-key-123456789012345", JWTExpiryHours: 1}

func TestLogging(t *testing.T) {
	handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, middleware.LoggerFromContext(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("Generates Correlation Id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("Echoes Correlation Id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	})
}

func TestRecover(t *testing.T) {
	var recovered error

	handler := middleware.Recover(func(w http.ResponseWriter, r *http.Request, err error) {
		recovered = err
		w.WriteHeader(http.StatusInternalServerError)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Error(t, recovered)
	assert.Contains(t, recovered.Error(), "kaboom")
}

func TestSessions_Load(t *testing.T) {
	manager := session.NewManager(testSecurity)

	t.Run("Starts Anonymous Session", func(t *testing.T) {
		// Arrange
		sessions := middleware.NewSessions(manager, testutils.NewMemoryStore())

		var state *session.State
		handler := sessions.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state = session.FromContext(r.Context())
		}))

		rr := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		require.NotNil(t, state)
		assert.False(t, state.IsAuthenticated())

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
	})

	t.Run("Restores Existing Session", func(t *testing.T) {
		// Arrange
		store := testutils.NewMemoryStore()
		sessions := middleware.NewSessions(manager, store)

		claims := &models.Claims{SessionID: uuid.New(), UserID: 7, Username: "alice"}
		saved := models.NewSession(claims.SessionID)
		require.NoError(t, saved.Cart.Add(1, 3))
		require.NoError(t, store.Save(context.Background(), saved))

		cookie, err := manager.Issue(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)

		var state *session.State
		handler := sessions.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state = session.FromContext(r.Context())
		}))

		rr := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rr, req)

		// Assert
		require.NotNil(t, state)
		assert.True(t, state.IsAuthenticated())
		assert.Equal(t, int64(7), state.UserID())
		assert.Equal(t, 3, state.Cart().Quantity(1))
		assert.Empty(t, rr.Result().Cookies(), "valid cookie is not reissued")
	})

	t.Run("Tampered Cookie Becomes Anonymous", func(t *testing.T) {
		sessions := middleware.NewSessions(manager, testutils.NewMemoryStore())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})

		var state *session.State
		handler := sessions.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state = session.FromContext(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, state)
		assert.False(t, state.IsAuthenticated())
	})

	t.Run("Store Failure", func(t *testing.T) {
		store := testutils.NewMemoryStore()
		store.Err = errors.New("redis down")
		sessions := middleware.NewSessions(manager, store)

		called := false
		handler := sessions.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	manager := session.NewManager(testSecurity)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Anonymous Is Redirected With Flash", func(t *testing.T) {
		// Arrange
		store := testutils.NewMemoryStore()
		claims := session.Anonymous()
		state := session.NewState(claims, models.NewSession(claims.SessionID), manager, store)

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req = req.WithContext(session.NewContext(req.Context(), state))
		rr := httptest.NewRecorder()

		// Act
		middleware.RequireAuth(next).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login?next=%2Fcart", rr.Header().Get("Location"))
		assert.Equal(t, []string{middleware.LoginRequiredMessage}, store.Sessions[claims.SessionID].Flashes)
	})

	t.Run("Authenticated Passes Through", func(t *testing.T) {
		claims := &models.Claims{SessionID: uuid.New(), UserID: 7}
		state := session.NewState(claims, models.NewSession(claims.SessionID), manager, testutils.NewMemoryStore())

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req = req.WithContext(session.NewContext(req.Context(), state))
		rr := httptest.NewRecorder()

		middleware.RequireAuth(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
