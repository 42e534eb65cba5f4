package middlewares

import (
	"net/http"
	"runtime/debug"

	httputils "mcpguide/mcpguide/utils/http"
	"mcpguide/mcpguide/utils/logging"

	"go.uber.org/zap"
)

// Recoverer turns a panic into a generic JSON 500 and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.ErrorLogger.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.String("trace_id", logging.TraceID(r.Context())),
				zap.ByteString("stack", debug.Stack()),
			)
			httputils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
