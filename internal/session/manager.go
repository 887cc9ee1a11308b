package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "storefront_session"

var ErrNoSession = errors.New("no session cookie")

// Manager signs and verifies the session cookie. The cookie only carries the
// session id and the logged in identity; cart and flashes stay in the Store.
type Manager struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(cfg config.Security) *Manager {
	return &Manager{
		key:    []byte(cfg.JWTKey),
		ttl:    cfg.SessionTTL(),
		secure: cfg.SecureCookies,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Anonymous starts a session with a new id and no user.
func Anonymous() *models.Claims {
	return &models.Claims{SessionID: uuid.New()}
}

// Issue signs claims into a cookie. Expiry is reset on every call.
func (m *Manager) Issue(claims *models.Claims) (*http.Cookie, error) {

	now := m.now()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        claims.SessionID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Parse reads and verifies the session cookie of r.
func (m *Manager) Parse(r *http.Request) (*models.Claims, error) {

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return m.key, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}

	if !token.Valid || claims.SessionID == uuid.Nil {
		return nil, errors.New("invalid session token")
	}

	return claims, nil
}
