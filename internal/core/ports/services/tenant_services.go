package services

import (
	"context"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
)

// TenantAuthorizerSvc checks a user's access to a tenant's jobs.
type TenantAuthorizerSvc interface {
	// AuthorizeUserAction returns apperrors.ErrForbidden if the user lacks requiredRole in the tenant.
	AuthorizeUserAction(ctx context.Context, userID string, tenantID string, requiredRole domain.TenantRole) error
}

// EventTracker receives product analytics events.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
