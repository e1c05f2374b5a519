package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	"github.com/SscSPs/job_closing_service/internal/models"
	"github.com/SscSPs/job_closing_service/internal/utils/mapping"
	"github.com/SscSPs/job_closing_service/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure reportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// Only closings of locked jobs count; a reopened job's record is about to be superseded.
const partyTotalsSelect = `
	COUNT(*),
	COALESCE(SUM(c.total_amount), 0),
	COALESCE(SUM(c.total_fees), 0),
	COALESCE(SUM(c.total_parts), 0),
	COALESCE(SUM(c.adjusted_total), 0),
	COALESCE(SUM(c.tech_profit), 0),
	COALESCE(SUM(c.lead_profit), 0),
	COALESCE(SUM(c.company_profit_base), 0),
	COALESCE(SUM(c.company_profit_display), 0),
	COALESCE(SUM(c.tech_balance), 0),
	COALESCE(SUM(c.lead_balance), 0),
	COALESCE(SUM(c.company_balance), 0)
`

const partyTotalsFrom = `
	FROM job_closings c
	JOIN jobs j ON j.job_id = c.job_id
	WHERE c.tenant_id = $1
		AND j.locked = true
		AND c.closed_at >= $2
		AND c.closed_at <= $3
`

func partyTotalsTargets(t *domain.PartyTotals) []any {
	return []any{
		&t.JobCount,
		&t.TotalAmount,
		&t.TotalFees,
		&t.TotalParts,
		&t.AdjustedTotal,
		&t.TechProfit,
		&t.LeadProfit,
		&t.CompanyProfitBase,
		&t.CompanyProfitDisplay,
		&t.TechBalance,
		&t.LeadBalance,
		&t.CompanyBalance,
	}
}

// GetPartyTotals sums the closing records of a tenant closed within [from, to].
func (r *reportingRepository) GetPartyTotals(ctx context.Context, tenantID string, from, to time.Time) (*domain.PartyTotals, error) {
	query := `SELECT ` + partyTotalsSelect + partyTotalsFrom + `;`

	var totals domain.PartyTotals
	if err := r.Pool.QueryRow(ctx, query, tenantID, from, to).Scan(partyTotalsTargets(&totals)...); err != nil {
		return nil, fmt.Errorf("error querying party totals: %w", err)
	}
	return &totals, nil
}

// GetTechnicianTotals sums the closing records of a tenant per technician.
func (r *reportingRepository) GetTechnicianTotals(ctx context.Context, tenantID string, from, to time.Time) ([]domain.TechnicianTotals, error) {
	query := `SELECT COALESCE(j.technician_id, ''), ` + partyTotalsSelect + partyTotalsFrom + `
		GROUP BY COALESCE(j.technician_id, '')
		ORDER BY COALESCE(j.technician_id, '');
	`

	rows, err := r.Pool.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying technician totals: %w", err)
	}
	defer rows.Close()

	result := []domain.TechnicianTotals{}
	for rows.Next() {
		var row domain.TechnicianTotals
		targets := append([]any{&row.TechnicianID}, partyTotalsTargets(&row.PartyTotals)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning technician totals row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating technician totals rows: %w", err)
	}
	return result, nil
}

// ListClosings retrieves closing records ordered by closed_at DESC, job_id.
func (r *reportingRepository) ListClosings(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.ClosingRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + closingColumnList + ` FROM job_closings WHERE tenant_id = $1`
	orderByClause := `ORDER BY closed_at DESC, job_id ASC`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		lastClosedAt, lastJobID, decodeErr := pagination.DecodeClosingToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr))
		}
		baseQuery += ` AND (closed_at < $2 OR (closed_at = $2 AND job_id > $3))`
		args = append(args, lastClosedAt, lastJobID)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query closings for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelClosings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JobClosing, error) {
		var m models.JobClosing
		err := row.Scan(m.ScanTargets()...)
		return m, err
	})
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan closings for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	results := modelClosings
	if len(modelClosings) > limit {
		last := modelClosings[limit-1]
		newToken := pagination.EncodeClosingToken(last.ClosedAt, last.JobID)
		nextTokenVal = &newToken
		results = modelClosings[:limit]
	}

	records := make([]domain.ClosingRecord, len(results))
	for i, m := range results {
		rec, err := mapping.ToDomainClosing(m)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to decode closing for job "+m.JobID, err)
		}
		records[i] = rec
	}
	return records, nextTokenVal, nil
}
