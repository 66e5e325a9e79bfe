package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/boat-rental-backend/internal/user"
)

// UserLookup is the part of user.Service the middleware needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// abortLookup answers 401 for a token whose user no longer exists and lets
// every other failure through as a server error.
func abortLookup(c *gin.Context, err error) {
	if errors.Is(err, user.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	response.Error(c, err)
	c.Abort()
}

// ResolveUser loads the authenticated user, rejects inactive accounts and
// records the admin flag for later handlers.
// It MUST be used after auth.AuthRequired middleware.
func ResolveUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortLookup(c, err)
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user is inactive"})
			return
		}

		auth.SetSystemAdmin(c, u.IsSystemAdmin)
		c.Next()
	}
}

// RequireSystemAdmin ensures the authenticated user is a system admin.
// It MUST be used after auth.AuthRequired middleware.
func RequireSystemAdmin(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Check permissions
		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortLookup(c, err)
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user is inactive"})
			return
		}

		if !u.IsSystemAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: system admin access required"})
			return
		}

		auth.SetSystemAdmin(c, true)
		c.Next()
	}
}
