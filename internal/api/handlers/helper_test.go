package handlers_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/aaravmahajanofficial/storefront/internal/view"
	"github.com/stretchr/testify/require"
)

var testSecurity = config.Security{JWTKey: "test-secret-key-123456789012345", JWTExpiryHours: 1}

type fixture struct {
	store    *testutils.MemoryStore
	manager  *session.Manager
	renderer *view.Renderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	renderer, err := view.New()
	require.NoError(t, err)

	return &fixture{
		store:    testutils.NewMemoryStore(),
		manager:  session.NewManager(testSecurity),
		renderer: renderer,
	}
}

// state returns a session for userID; zero is an anonymous visitor.
func (f *fixture) state(userID int64) *session.State {
	return testutils.NewState(f.manager, f.store, userID)
}

// savedFlashes reads what the handler persisted for the next request.
func (f *fixture) savedFlashes(t *testing.T, state *session.State) []string {
	t.Helper()

	sess, ok := f.store.Sessions[state.Session.ID]
	require.True(t, ok, "session was not saved")

	return sess.Flashes
}

func location(rr *httptest.ResponseRecorder) string {
	return rr.Header().Get("Location")
}

// failingStore loads fine but cannot persist.
type failingStore struct {
	*testutils.MemoryStore
}

func (s *failingStore) Save(context.Context, *models.Session) error {
	return errors.New("redis down")
}
