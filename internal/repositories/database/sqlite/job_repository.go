package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	"github.com/SscSPs/job_closing_service/internal/models"
	"github.com/SscSPs/job_closing_service/internal/utils/mapping"
)

// JobClosingRepository stores jobs and closing records in SQLite.
type JobClosingRepository struct {
	db *sql.DB
}

func NewJobClosingRepository(db *sql.DB) *JobClosingRepository {
	return &JobClosingRepository{db: db}
}

var _ portsrepo.JobClosingRepositoryFacade = (*JobClosingRepository)(nil)

var (
	closingColumnList  = strings.Join(models.JobClosingColumns, ", ")
	closingUpsertQuery = buildClosingUpsertQuery()
)

func buildClosingUpsertQuery() string {
	marks := make([]string, len(models.JobClosingColumns))
	updates := make([]string, 0, len(models.JobClosingColumns))
	for i, col := range models.JobClosingColumns {
		marks[i] = "?"
		switch col {
		case "job_id", "created_at", "created_by":
			continue
		}
		updates = append(updates, col+" = excluded."+col)
	}
	return fmt.Sprintf(`INSERT INTO job_closings (%s) VALUES (%s)
		ON CONFLICT(job_id) DO UPDATE SET %s`,
		closingColumnList, strings.Join(marks, ","), strings.Join(updates, ", "))
}

// closingValues adapts model values to SQLite's TEXT storage.
func closingValues(m *models.JobClosing) []any {
	values := m.Values()
	for i, v := range values {
		switch tv := v.(type) {
		case time.Time:
			values[i] = formatTime(tv)
		case []byte:
			values[i] = string(tv)
		}
	}
	return values
}

func closingScanTargets(m *models.JobClosing) []any {
	targets := m.ScanTargets()
	for i, target := range targets {
		if tp, ok := target.(*time.Time); ok {
			targets[i] = timeText{t: tp}
		}
	}
	return targets
}

// SaveJob inserts a job or updates its tenant and assignees. The lock flag is left alone.
func (r *JobClosingRepository) SaveJob(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs
		(job_id, tenant_id, technician_id, lead_source_id, locked, closed_at,
		 created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(job_id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			technician_id = excluded.technician_id,
			lead_source_id = excluded.lead_source_id,
			last_updated_at = excluded.last_updated_at,
			last_updated_by = excluded.last_updated_by`,
		m.JobID, m.TenantID, m.TechnicianID, m.LeadSourceID, m.Locked, formatNullableTime(m.ClosedAt),
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save job %s: %w", job.JobID, err)
	}
	return nil
}

func (r *JobClosingRepository) FindJobByID(ctx context.Context, tenantID string, jobID string) (*domain.Job, error) {
	var m models.Job
	err := r.db.QueryRowContext(ctx,
		`SELECT job_id, tenant_id, technician_id, lead_source_id, locked, closed_at,
		        created_at, created_by, last_updated_at, last_updated_by
		FROM jobs WHERE job_id = ? AND tenant_id = ?`, jobID, tenantID,
	).Scan(
		&m.JobID, &m.TenantID, &m.TechnicianID, &m.LeadSourceID, &m.Locked, nullTimeText{t: &m.ClosedAt},
		timeText{t: &m.CreatedAt}, &m.CreatedBy, timeText{t: &m.LastUpdatedAt}, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find job %s: %w", jobID, err)
	}
	job := mapping.ToDomainJob(m)
	return &job, nil
}

func (r *JobClosingRepository) FindClosingByJobID(ctx context.Context, tenantID string, jobID string) (*domain.ClosingRecord, error) {
	var m models.JobClosing
	err := r.db.QueryRowContext(ctx,
		"SELECT "+closingColumnList+" FROM job_closings WHERE job_id = ? AND tenant_id = ?", jobID, tenantID,
	).Scan(closingScanTargets(&m)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find closing for job %s: %w", jobID, err)
	}
	rec, err := mapping.ToDomainClosing(m)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *JobClosingRepository) SaveClosing(ctx context.Context, record domain.ClosingRecord) error {
	m, err := mapping.ToModelClosing(record)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE jobs SET locked = 1, closed_at = ?, last_updated_at = ?, last_updated_by = ?
		WHERE job_id = ? AND tenant_id = ? AND locked = 0`,
		formatTime(record.ClosedAt), formatTime(record.ClosedAt), record.ClosedByUserID, record.JobID, record.TenantID,
	)
	if err != nil {
		return fmt.Errorf("lock job %s: %w", record.JobID, err)
	}
	if err := lockResult(ctx, tx, res, record.TenantID, record.JobID, apperrors.ErrJobLocked); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, closingUpsertQuery, closingValues(&m)...); err != nil {
		return fmt.Errorf("save closing for job %s: %w", record.JobID, err)
	}

	return tx.Commit()
}

func (r *JobClosingRepository) UnlockJob(ctx context.Context, tenantID string, jobID string, userID string, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE jobs SET locked = 0, closed_at = NULL, last_updated_at = ?, last_updated_by = ?
		WHERE job_id = ? AND tenant_id = ? AND locked = 1`,
		formatTime(at), userID, jobID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("unlock job %s: %w", jobID, err)
	}
	if err := lockResult(ctx, tx, res, tenantID, jobID, apperrors.ErrJobNotLocked); err != nil {
		return err
	}

	return tx.Commit()
}

// lockResult returns mismatch when the lock update touched no row of an existing job.
func lockResult(ctx context.Context, tx *sql.Tx, res sql.Result, tenantID, jobID string, mismatch error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE job_id = ? AND tenant_id = ?", jobID, tenantID,
	).Scan(&count); err != nil {
		return fmt.Errorf("check job %s: %w", jobID, err)
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return mismatch
}
