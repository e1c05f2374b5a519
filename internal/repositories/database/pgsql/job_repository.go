package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	"github.com/SscSPs/job_closing_service/internal/models"
	"github.com/SscSPs/job_closing_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJobClosingRepository struct {
	BaseRepository
}

// newPgxJobClosingRepository creates a new repository for jobs and their closing records.
func newPgxJobClosingRepository(pool *pgxpool.Pool) portsrepo.JobClosingRepositoryFacade {
	return &PgxJobClosingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJobClosingRepository implements portsrepo.JobClosingRepositoryFacade
var _ portsrepo.JobClosingRepositoryFacade = (*PgxJobClosingRepository)(nil)

var (
	closingColumnList = strings.Join(models.JobClosingColumns, ", ")

	// closingUpsertQuery replaces a superseded record but keeps the original creation audit.
	closingUpsertQuery = buildClosingUpsertQuery()
)

func buildClosingUpsertQuery() string {
	updates := make([]string, 0, len(models.JobClosingColumns))
	for _, col := range models.JobClosingColumns {
		switch col {
		case "job_id", "created_at", "created_by":
			continue
		}
		updates = append(updates, col+" = EXCLUDED."+col)
	}
	return fmt.Sprintf(`
		INSERT INTO job_closings (%s)
		VALUES (%s)
		ON CONFLICT (job_id) DO UPDATE SET %s;
	`, closingColumnList, placeholders(1, len(models.JobClosingColumns)), strings.Join(updates, ", "))
}

// FindJobByID retrieves a job of the tenant.
func (r *PgxJobClosingRepository) FindJobByID(ctx context.Context, tenantID string, jobID string) (*domain.Job, error) {
	query := `
		SELECT job_id, tenant_id, technician_id, lead_source_id, locked, closed_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM jobs
		WHERE job_id = $1 AND tenant_id = $2;
	`
	var m models.Job
	err := r.Pool.QueryRow(ctx, query, jobID, tenantID).Scan(
		&m.JobID,
		&m.TenantID,
		&m.TechnicianID,
		&m.LeadSourceID,
		&m.Locked,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find job "+jobID, err)
	}

	job := mapping.ToDomainJob(m)
	return &job, nil
}

// FindClosingByJobID retrieves the closing record of a job.
func (r *PgxJobClosingRepository) FindClosingByJobID(ctx context.Context, tenantID string, jobID string) (*domain.ClosingRecord, error) {
	query := `SELECT ` + closingColumnList + ` FROM job_closings WHERE job_id = $1 AND tenant_id = $2;`

	var m models.JobClosing
	if err := r.Pool.QueryRow(ctx, query, jobID, tenantID).Scan(m.ScanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find closing for job "+jobID, err)
	}

	rec, err := mapping.ToDomainClosing(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode closing for job "+jobID, err)
	}
	return &rec, nil
}

// SaveClosing locks the job and upserts its closing record within a DB transaction.
func (r *PgxJobClosingRepository) SaveClosing(ctx context.Context, record domain.ClosingRecord) error {
	m, err := mapping.ToModelClosing(record)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode closing for job "+record.JobID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	// 1. Compare-and-swap the lock flag
	lockQuery := `
		UPDATE jobs
		SET locked = true, closed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1 AND tenant_id = $2 AND locked = false;
	`
	tag, err := tx.Exec(ctx, lockQuery, record.JobID, record.TenantID, record.ClosedAt, record.ClosedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock job "+record.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.lockFailure(ctx, tx, record.TenantID, record.JobID, apperrors.ErrJobLocked)
	}

	// 2. Upsert the closing record
	if _, err := tx.Exec(ctx, closingUpsertQuery, m.Values()...); err != nil {
		return apperrors.NewAppError(500, "failed to save closing for job "+record.JobID, err)
	}

	return r.Commit(ctx, tx)
}

// UnlockJob clears the job's lock flag.
func (r *PgxJobClosingRepository) UnlockJob(ctx context.Context, tenantID string, jobID string, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE jobs
		SET locked = false, closed_at = NULL, last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1 AND tenant_id = $2 AND locked = true;
	`
	tag, err := tx.Exec(ctx, query, jobID, tenantID, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to unlock job "+jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.lockFailure(ctx, tx, tenantID, jobID, apperrors.ErrJobNotLocked)
	}

	return r.Commit(ctx, tx)
}

// lockFailure tells a missing job apart from one whose lock flag did not match.
func (r *PgxJobClosingRepository) lockFailure(ctx context.Context, tx pgx.Tx, tenantID, jobID string, mismatch error) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE job_id = $1 AND tenant_id = $2);`, jobID, tenantID).Scan(&exists)
	if err != nil {
		return apperrors.NewAppError(500, "failed to check job "+jobID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return mismatch
}
