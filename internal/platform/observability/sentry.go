package observability

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// InitSentry configures the global Sentry hub. An empty DSN leaves Sentry
// disabled and every capture becomes a no-op.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports err with the request method and route attached.
func CaptureError(c *gin.Context, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Request.Method)
		scope.SetTag("route", c.FullPath())
		sentry.CaptureException(err)
	})
}

// RecoveryMiddleware turns panics into a 500 and reports them to Sentry.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				sentry.WithScope(func(scope *sentry.Scope) {
					scope.SetExtra("panic", rec)
					scope.SetExtra("stack", string(debug.Stack()))
					sentry.CaptureMessage("panic in request")
				})

				logger.Error("Panic recovered",
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
					slog.Any("panic", rec))

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()

		c.Next()
	}
}
