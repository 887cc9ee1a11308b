package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover turns a panic in next into a 500 response rendered by onPanic.
func Recover(onPanic func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}

					LoggerFromContext(r.Context()).Error("Panic recovered",
						slog.Any("panic", p), slog.String("stack", string(debug.Stack())))

					onPanic(w, r, fmt.Errorf("panic: %v", p))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
