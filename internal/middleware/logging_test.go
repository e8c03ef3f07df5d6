package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStructuredLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(StructuredLoggingMiddleware(base))
	r.GET("/ping", func(c *gin.Context) {
		GetLoggerFromCtx(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"msg":"inside handler"`)
	assert.Contains(t, buf.String(), `"request_id":"`+w.Header().Get("X-Request-ID")+`"`)
	assert.Contains(t, buf.String(), `"msg":"Request completed"`)
}

func TestGetLoggerFromCtx_Fallback(t *testing.T) {
	assert.Equal(t, slog.Default(), GetLoggerFromCtx(context.Background()))
}
