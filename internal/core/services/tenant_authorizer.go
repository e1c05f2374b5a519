package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/middleware"
)

// claimsTenantAuthorizer authorizes against the tenant roles carried by the caller's token.
type claimsTenantAuthorizer struct{}

// NewClaimsTenantAuthorizer returns an authorizer that reads the roles AuthMiddleware stored in the context.
func NewClaimsTenantAuthorizer() portssvc.TenantAuthorizerSvc {
	return claimsTenantAuthorizer{}
}

var _ portssvc.TenantAuthorizerSvc = claimsTenantAuthorizer{}

func (claimsTenantAuthorizer) AuthorizeUserAction(ctx context.Context, userID string, tenantID string, requiredRole domain.TenantRole) error {
	if userID == "" {
		return fmt.Errorf("%w: missing user", apperrors.ErrForbidden)
	}
	role, ok := middleware.GetTenantRolesFromCtx(ctx)[tenantID]
	if !ok {
		return fmt.Errorf("%w: user %s has no access to tenant %s", apperrors.ErrForbidden, userID, tenantID)
	}
	if !role.Satisfies(requiredRole) {
		return fmt.Errorf("%w: user %s has role %s in tenant %s, %s required", apperrors.ErrForbidden, userID, role, tenantID, requiredRole)
	}
	return nil
}
