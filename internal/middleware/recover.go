package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"adopta-api/internal/platform/logger"
	"adopta-api/internal/platform/respond"

	"go.uber.org/zap"
)

// Recover reemplaza a chimw.Recoverer: loguea con zap y responde con el
// mismo formato JSON de error que el resto de la API.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			respond.Error(w, r, fmt.Errorf("panic: %v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}
