package testutils

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/google/uuid"
)

// MemoryStore keeps sessions in a map. Like the redis store it serializes on
// save, so later changes to a session are invisible until saved again. Load
// fails with Err when it is set; both fail once ctx is done.
type MemoryStore struct {
	Sessions map[uuid.UUID]*models.Session
	Err      error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Sessions: make(map[uuid.UUID]*models.Session)}
}

func (m *MemoryStore) Load(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sess, ok := m.Sessions[id]; ok {
		return copySession(sess)
	}

	return models.NewSession(id), nil
}

func (m *MemoryStore) Save(ctx context.Context, sess *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored, err := copySession(sess)
	if err != nil {
		return err
	}

	m.Sessions[sess.ID] = stored

	return nil
}

func (m *MemoryStore) Destroy(_ context.Context, id uuid.UUID) error {
	delete(m.Sessions, id)
	return nil
}

func copySession(sess *models.Session) (*models.Session, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}

	var out models.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// NewState builds a session state for userID; zero means anonymous.
func NewState(manager *session.Manager, store session.Store, userID int64) *session.State {
	claims := session.Anonymous()
	if userID != 0 {
		claims.UserID = userID
		claims.Username = "tester"
	}

	return session.NewState(claims, models.NewSession(claims.SessionID), manager, store)
}

func CreateTestRequest(method, target string, body io.Reader, state *session.State, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	ctx := middleware.WithLogger(req.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if state != nil {
		ctx = session.NewContext(ctx, state)
	}

	return req.WithContext(ctx)
}

func CreateFormRequest(target string, form url.Values, state *session.State) *http.Request {
	req := CreateTestRequest(http.MethodPost, target, strings.NewReader(form.Encode()), state, nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}
