package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"agri-advisor/internal/services/advisor"
)

// Recovery middleware to handle panics
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("url", r.URL.String()).
					Str("method", r.Method).
					Msg("Panic recovered")

				writeError(w, http.StatusInternalServerError, advisor.ErrCodeInternal, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
