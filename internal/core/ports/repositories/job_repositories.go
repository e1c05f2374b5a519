package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
)

// JobReader defines read operations for job data
type JobReader interface {
	// FindJobByID retrieves a job of the tenant. Returns apperrors.ErrNotFound if it does not exist.
	FindJobByID(ctx context.Context, tenantID string, jobID string) (*domain.Job, error)
}

// ClosingReader defines read operations for closing records
type ClosingReader interface {
	// FindClosingByJobID retrieves the latest closing record of a job.
	FindClosingByJobID(ctx context.Context, tenantID string, jobID string) (*domain.ClosingRecord, error)
}

// ClosingWriter defines write operations for closing records
type ClosingWriter interface {
	// SaveClosing sets the job's lock flag and upserts its closing record in one transaction.
	// The lock is a compare-and-swap: apperrors.ErrJobLocked is returned if the job is already locked.
	SaveClosing(ctx context.Context, record domain.ClosingRecord) error

	// UnlockJob clears the job's lock flag so a new closing can supersede the stored one.
	// Returns apperrors.ErrJobNotLocked if the job is not locked.
	UnlockJob(ctx context.Context, tenantID string, jobID string, userID string, at time.Time) error
}

// JobClosingRepositoryFacade combines all job closing repository interfaces
type JobClosingRepositoryFacade interface {
	JobReader
	ClosingReader
	ClosingWriter
}
