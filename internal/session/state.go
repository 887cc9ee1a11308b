package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

// State is the session of the current request: the verified cookie claims
// and the stored session they point to.
type State struct {
	Claims  *models.Claims
	Session *models.Session

	manager *Manager
	store   Store
}

func NewState(claims *models.Claims, sess *models.Session, manager *Manager, store Store) *State {
	return &State{Claims: claims, Session: sess, manager: manager, store: store}
}

func (s *State) IsAuthenticated() bool {
	return s != nil && s.Claims.IsAuthenticated()
}

func (s *State) UserID() int64 {
	if s == nil || s.Claims == nil {
		return 0
	}

	return s.Claims.UserID
}

func (s *State) Cart() *models.Cart {
	return &s.Session.Cart
}

func (s *State) Flash(message string) {
	s.Session.AddFlash(message)
}

// Save writes the session back. Call it before the response is sent so the
// next request sees the change.
func (s *State) Save(ctx context.Context) error {
	return s.store.Save(ctx, s.Session)
}

// Login binds user to a new session id. The cart and pending flashes move
// over; the old id stops resolving.
func (s *State) Login(ctx context.Context, w http.ResponseWriter, user *models.User) error {

	claims := &models.Claims{SessionID: uuid.New(), UserID: user.ID, Username: user.Username}

	return s.rotate(ctx, w, claims, s.Session)
}

// Logout forgets the identity and the cart.
func (s *State) Logout(ctx context.Context, w http.ResponseWriter) error {

	claims := Anonymous()

	return s.rotate(ctx, w, claims, models.NewSession(claims.SessionID))
}

func (s *State) rotate(ctx context.Context, w http.ResponseWriter, claims *models.Claims, next *models.Session) error {

	cookie, err := s.manager.Issue(claims)
	if err != nil {
		return err
	}

	oldID := s.Claims.SessionID
	next.ID = claims.SessionID

	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("rotating session: %w", err)
	}

	if err := s.store.Destroy(ctx, oldID); err != nil {
		slog.WarnContext(ctx, "Failed to destroy previous session", slog.String("sessionId", oldID.String()), slog.Any("error", err))
	}

	http.SetCookie(w, cookie)

	s.Claims = claims
	s.Session = next

	return nil
}

type stateKey struct{}

func NewContext(ctx context.Context, state *State) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

// FromContext returns nil outside of the session middleware.
func FromContext(ctx context.Context) *State {
	state, _ := ctx.Value(stateKey{}).(*State)
	return state
}
