package middleware

import (
	"github.com/gin-gonic/gin"
)

// Role constants to avoid string typos
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// AccessContext stores the caller's access information
type AccessContext struct {
	UserID         uint
	RoleName       string
	PermissionType string // "full" or "readonly"
}

// CanWrite returns true if the user has write permissions
func (ac *AccessContext) CanWrite() bool {
	return ac.PermissionType == "full"
}

// CanRead returns true if the user has read permissions
func (ac *AccessContext) CanRead() bool {
	return ac.PermissionType == "full" || ac.PermissionType == "readonly"
}

// GetAccessContext retrieves the access context set by AuthMiddleware
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	if val, exists := c.Get("access_context"); exists {
		if ctx, ok := val.(AccessContext); ok {
			return ctx, true
		}
	}
	return AccessContext{}, false
}

// GetUserIDFromContext returns the authenticated user's ID, if any
func GetUserIDFromContext(c *gin.Context) *uint {
	if val, exists := c.Get("user_id"); exists {
		if id, ok := val.(uint); ok {
			return &id
		}
	}
	return nil
}
