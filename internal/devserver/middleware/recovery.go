package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/gamehub/internal/devserver/apierr"
	"github.com/mcoot/gamehub/internal/middleware"
)

// Recovery turns panics into JSON 500 responses
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
