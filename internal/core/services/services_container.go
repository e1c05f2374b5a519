package services

import (
	"github.com/SscSPs/job_closing_service/internal/core/closing"
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// events may be nil when analytics is disabled.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, events portssvc.EventTracker) *portssvc.ServiceContainer {
	authorizer := NewClaimsTenantAuthorizer()

	calc := closing.NewCalculator(closing.Options{
		Epsilon:                  cfg.ClosingEpsilon,
		ChargeExcludedPartsTwice: cfg.ClosingChargeExcludedPartsTwice,
	})

	closingOpts := []ClosingServiceOption{
		WithClosingTenantAuthorizer(authorizer),
		WithCalculator(calc),
	}
	if events != nil {
		closingOpts = append(closingOpts, WithEventTracker(events))
	}

	return &portssvc.ServiceContainer{
		Closing:   NewClosingService(repos.JobClosingRepo, closingOpts...),
		Reporting: NewReportingService(repos.ReportingRepo, WithReportingTenantAuthorizer(authorizer)),
	}
}
