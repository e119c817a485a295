package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/clientauth/clientauth/internal/apperr"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic with its stack and answers 500 with the generic message.
// http.ErrAbortHandler is re-panicked so the server can abort the connection.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				writeMessage(w, http.StatusInternalServerError, apperr.MsgInternalError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
