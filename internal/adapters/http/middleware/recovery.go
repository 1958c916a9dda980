package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/domain"
)

// Recovery returns middleware that recovers from panics that escape the route
// handlers, such as panics raised by other middleware. The panic is logged
// with its stack and answered with the standard 500 failure envelope. If the
// response headers have already been written, only the log entry is emitted.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recovery(logger *slog.Logger, devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := captureResponse(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				stack := string(debug.Stack())
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", stack),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				if rw.committed() {
					return
				}
				e := domain.Internal(dto.MsgInternal, fmt.Errorf("panic: %v", v))
				e.Stack = stack
				dto.WriteErrorResponse(rw, r, e, devMode)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
