package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey  = "userID"
	isAdminKey = "isSystemAdmin"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetSystemAdmin records whether the authenticated user is a system admin.
// It is set by the admin-resolving middleware in the api package.
func SetSystemAdmin(c *gin.Context, isAdmin bool) {
	c.Set(isAdminKey, isAdmin)
}

// IsSystemAdmin reports the flag stored by SetSystemAdmin, false when unset.
func IsSystemAdmin(c *gin.Context) bool {
	return c.GetBool(isAdminKey)
}
