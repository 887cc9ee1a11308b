package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/view"
)

// newPage fills the layout fields from the session. Pending flashes are
// consumed, so the session is saved before anything is written.
func newPage(r *http.Request, title string, data any) *view.Page {

	page := &view.Page{Title: title, Data: data}

	state := session.FromContext(r.Context())
	if state == nil {
		return page
	}

	page.LoggedIn = state.IsAuthenticated()
	page.CartCount = state.Cart().Count()
	if page.LoggedIn {
		page.Username = state.Claims.Username
	}

	page.Flashes = state.Session.PopFlashes()
	if len(page.Flashes) > 0 {
		if err := state.Save(r.Context()); err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to save session after reading flashes", slog.Any("error", err))
		}
	}

	return page
}

func render(w http.ResponseWriter, r *http.Request, renderer *view.Renderer, status int, name, title string, data any) {

	if err := renderer.Render(w, status, name, newPage(r, title, data)); err != nil {
		middleware.LoggerFromContext(r.Context()).Error("Failed to render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError shows the error page. Only 404 and 403 keep their message;
// everything else is a generic 500.
func renderError(w http.ResponseWriter, r *http.Request, renderer *view.Renderer, err error) {

	status := http.StatusInternalServerError
	title := "Something went wrong"
	message := "An unexpected error occurred"

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.StatusCode {
		case http.StatusNotFound:
			status, title, message = http.StatusNotFound, "Not found", appErr.Message
		case http.StatusForbidden:
			status, title, message = http.StatusForbidden, "Forbidden", appErr.Message
		}
	}

	if status == http.StatusInternalServerError {
		middleware.LoggerFromContext(r.Context()).Error("Request failed", slog.Any("error", err))
	}

	render(w, r, renderer, status, "error", title, message)
}

// redirectWithFlash queues message for the next page and sends a 303.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, renderer *view.Renderer, target, message string) {

	state := session.FromContext(r.Context())
	if state == nil {
		renderError(w, r, renderer, fmt.Errorf("no session in request context"))
		return
	}

	if message != "" {
		state.Flash(message)
	}

	if err := state.Save(r.Context()); err != nil {
		renderError(w, r, renderer, fmt.Errorf("saving session: %w", err))
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// PanicPage is the Recover middleware callback.
func PanicPage(renderer *view.Renderer) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		render(w, r, renderer, http.StatusInternalServerError, "error", "Something went wrong", "An unexpected error occurred")
	}
}

// safeRedirect only follows local paths.
func safeRedirect(next string) string {

	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}

	return next
}
