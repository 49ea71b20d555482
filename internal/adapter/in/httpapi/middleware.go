package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"postsapi/pkg/logger"

	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger puts a request-scoped logger into the context and logs each
// finished request.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := base.With(slog.String("request_id", middleware.GetReqID(r.Context())))
			ctx := logger.WithLogger(r.Context(), log)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
