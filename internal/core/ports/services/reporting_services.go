package services

import (
	"context"
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/dto"
)

// ReportingService aggregates closing records across jobs
type ReportingService interface {
	// PartyTotals sums technician, lead source and company figures for a period.
	PartyTotals(ctx context.Context, tenantID string, from, to time.Time, userID string) (*domain.PartyTotals, error)

	// TechnicianTotals sums the same figures per technician.
	TechnicianTotals(ctx context.Context, tenantID string, from, to time.Time, userID string) ([]domain.TechnicianTotals, error)

	// ListClosings pages through a tenant's closing records, newest first.
	ListClosings(ctx context.Context, tenantID string, userID string, params dto.ListClosingsParams) (*dto.ListClosingsResponse, error)
}
