package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
)

// ReportingRepository defines aggregate reads over closing records
type ReportingRepository interface {
	// GetPartyTotals sums the closing records of a tenant closed within [from, to].
	GetPartyTotals(ctx context.Context, tenantID string, from, to time.Time) (*domain.PartyTotals, error)

	// GetTechnicianTotals sums the closing records of a tenant per technician.
	GetTechnicianTotals(ctx context.Context, tenantID string, from, to time.Time) ([]domain.TechnicianTotals, error)

	// ListClosings retrieves closing records newest first using token-based pagination.
	ListClosings(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.ClosingRecord, *string, error)
}
