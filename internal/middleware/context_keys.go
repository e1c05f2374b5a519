package middleware

import (
	"context"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// tenantRolesKey is the key used to store the tenant roles granted by the user's token.
const tenantRolesKey = contextKey("tenantRoles")

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTenantRoles returns a copy of ctx carrying the user's roles keyed by tenant ID.
func WithTenantRoles(ctx context.Context, roles map[string]domain.TenantRole) context.Context {
	return context.WithValue(ctx, tenantRolesKey, roles)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok
	}
	// check in the request context as well
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetTenantRolesFromCtx returns the tenant roles stored by AuthMiddleware, or nil.
func GetTenantRolesFromCtx(ctx context.Context) map[string]domain.TenantRole {
	roles, _ := ctx.Value(tenantRolesKey).(map[string]domain.TenantRole)
	return roles
}
