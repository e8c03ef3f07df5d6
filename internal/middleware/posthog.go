package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/knowledge_hub/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked
var pathsToSkip = map[string]bool{
	"/":       true,
	"/health": true,
}

// AnalyticsMiddleware sends one event per successful request, named after the
// route ("/fileupload/" -> "fileupload"). Anonymous callers are keyed by IP.
func AnalyticsMiddleware(tracker utils.EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker == nil || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		eventName := EventNameForRoute(c.FullPath())
		if eventName == "" {
			return
		}

		distinctID, ok := GetSubjectFromContext(c)
		if !ok {
			distinctID = "anonymous:" + c.ClientIP()
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if bucket := c.Query("bucket_name"); bucket != "" {
			props["bucket_name"] = bucket
		}

		tracker.Enqueue(distinctID, eventName, props)
	}
}

// EventNameForRoute turns a route path into an analytics event name.
func EventNameForRoute(fullPath string) string {
	name := strings.Trim(fullPath, "/")
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, "-", "_")
}
