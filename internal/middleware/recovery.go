package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicResponder writes the response for a request whose handler panicked
type PanicResponder func(w http.ResponseWriter, r *http.Request)

// Recovery logs a panicking handler with its stack and request id, then
// lets respond write the error body
func Recovery(logger *slog.Logger, respond PanicResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.Error("handler panicked",
					slog.Any("panic", recovered),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", r.Header.Get(RequestIDHeader)),
					slog.String("stack", string(debug.Stack())),
				)
				respond(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
