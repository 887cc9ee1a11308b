package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/storefront/internal/session"
)

const LoginRequiredMessage = "Please log in to access this page."

type Sessions struct {
	manager *session.Manager
	store   session.Store
}

func NewSessions(manager *session.Manager, store session.Store) *Sessions {
	return &Sessions{manager: manager, store: store}
}

// Load attaches the session of the request to its context, starting an
// anonymous one when the cookie is missing or does not verify.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()
		logger := LoggerFromContext(ctx)

		claims, err := s.manager.Parse(r)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				logger.Warn("Discarding invalid session cookie", slog.String("error", err.Error()))
			}

			claims = session.Anonymous()

			cookie, err := s.manager.Issue(claims)
			if err != nil {
				logger.Error("Failed to issue session cookie", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, cookie)
		}

		sess, err := s.store.Load(ctx, claims.SessionID)
		if err != nil {
			logger.Error("Failed to load session", slog.Any("error", err))
			http.Error(w, "Session storage unavailable", http.StatusServiceUnavailable)
			return
		}

		logger = logger.With(slog.String("sessionId", claims.SessionID.String()))
		if claims.IsAuthenticated() {
			logger = logger.With(slog.Int64("userId", claims.UserID))
		}

		ctx = WithLogger(ctx, logger)
		ctx = session.NewContext(ctx, session.NewState(claims, sess, s.manager, s.store))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		state := session.FromContext(r.Context())

		if !state.IsAuthenticated() {
			if state != nil {
				state.Flash(LoginRequiredMessage)
				if err := state.Save(r.Context()); err != nil {
					LoggerFromContext(r.Context()).Error("Failed to save session", slog.Any("error", err))
				}
			}

			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
