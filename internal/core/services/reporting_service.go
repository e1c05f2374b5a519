package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingTenantAuthorizer sets the tenant authorizer for the reporting service.
func WithReportingTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.TenantAuthorizer = authorizer
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func validatePeriod(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: toDate %s is before fromDate %s", apperrors.ErrValidation, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return nil
}

// PartyTotals sums technician, lead source and company figures for a period.
func (s *reportingService) PartyTotals(ctx context.Context, tenantID string, from, to time.Time, userID string) (*domain.PartyTotals, error) {
	// ReadOnly is sufficient for viewing reports
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to view party totals",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.GetPartyTotals(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve party totals",
			slog.String("tenant_id", tenantID),
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve party totals: %w", err)
	}

	s.LogInfo(ctx, "Party totals report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.Int("job_count", totals.JobCount))
	return totals, nil
}

// TechnicianTotals sums the same figures per technician.
func (s *reportingService) TechnicianTotals(ctx context.Context, tenantID string, from, to time.Time, userID string) ([]domain.TechnicianTotals, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to view technician totals",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTechnicianTotals(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve technician totals", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve technician totals: %w", err)
	}

	s.LogInfo(ctx, "Technician totals report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

// ListClosings pages through a tenant's closing records, newest first.
func (s *reportingService) ListClosings(ctx context.Context, tenantID string, userID string, params dto.ListClosingsParams) (*dto.ListClosingsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to list closings",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	records, nextToken, err := s.reportingRepo.ListClosings(ctx, tenantID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list closings", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list closings: %w", err)
	}

	return &dto.ListClosingsResponse{
		Closings:  dto.ClosingToRecordResponses(records),
		NextToken: nextToken,
	}, nil
}
