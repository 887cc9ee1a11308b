package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/view"
)

type UserHandler struct {
	userService service.UserService
	renderer    *view.Renderer
}

func NewUserHandler(userService service.UserService, renderer *view.Renderer) *UserHandler {
	return &UserHandler{userService: userService, renderer: renderer}
}

func (h *UserHandler) RegisterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, h.renderer, http.StatusOK, "register", "Register", nil)
	}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			redirectWithFlash(w, r, h.renderer, "/register", "Invalid registration form")
			return
		}

		req := &models.RegisterRequest{
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}

		user, err := h.userService.Register(r.Context(), req)
		if err != nil {
			if appErr, ok := appErrors.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
				logger.Warn("Registration rejected", slog.String("code", appErr.Code))
				redirectWithFlash(w, r, h.renderer, "/register", appErr.Message)
				return
			}

			renderError(w, r, h.renderer, err)
			return
		}

		logger.Info("User registered successfully", slog.Int64("userId", user.ID))
		redirectWithFlash(w, r, h.renderer, "/login", "Registration successful")
	}
}

func (h *UserHandler) LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if session.FromContext(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		render(w, r, h.renderer, http.StatusOK, "login", "Login", r.URL.Query().Get("next"))
	}
}

// Login re-renders the form with a generic message on failure and redirects
// to ?next (local paths only) on success.
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		state := session.FromContext(r.Context())
		next := r.URL.Query().Get("next")

		if err := r.ParseForm(); err != nil {
			state.Flash("Invalid login form")
			render(w, r, h.renderer, http.StatusBadRequest, "login", "Login", next)
			return
		}

		req := &models.LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}

		user, err := h.userService.Authenticate(r.Context(), req)
		if err != nil {
			if appErr, ok := appErrors.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
				state.Flash(appErr.Message)
				render(w, r, h.renderer, http.StatusOK, "login", "Login", next)
				return
			}

			renderError(w, r, h.renderer, err)
			return
		}

		if err := state.Login(r.Context(), w, user); err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		logger.Info("User logged in", slog.Int64("userId", user.ID))
		http.Redirect(w, r, safeRedirect(next), http.StatusSeeOther)
	}
}

func (h *UserHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		state := session.FromContext(r.Context())
		userID := state.UserID()

		if err := state.Logout(r.Context(), w); err != nil {
			renderError(w, r, h.renderer, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("User logged out", slog.Int64("userId", userID))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
