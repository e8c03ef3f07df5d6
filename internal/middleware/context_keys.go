package middleware

import "github.com/gin-gonic/gin"

// subjectKey is the key used to store the authenticated username in the Gin context.
// Using a custom type prevents collisions.
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the authenticated username from the Gin context.
// It returns the subject and a boolean indicating if it was found.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(subjectKey))
	if !exists {
		// check in the request context as well
		if v, ok := c.Request.Context().Value(subjectKey).(string); ok && v != "" {
			return v, true
		}
		return "", false
	}

	subject, ok := val.(string)
	if !ok || subject == "" {
		return "", false
	}

	return subject, true
}
