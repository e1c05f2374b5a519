package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/closing"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
)

// EventJobClosed is the analytics event sent when a closing is confirmed.
const EventJobClosed = "job_closed"

// closingService previews, confirms, reopens and reloads job closings.
type closingService struct {
	BaseService
	repo   portsrepo.JobClosingRepositoryFacade
	calc   *closing.Calculator
	events portssvc.EventTracker
	now    func() time.Time
	newID  func() string
}

// ClosingServiceOption is a functional option for configuring the closing service
type ClosingServiceOption func(*closingService)

// WithClosingTenantAuthorizer sets the tenant authorizer for the closing service.
func WithClosingTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) ClosingServiceOption {
	return func(s *closingService) {
		s.TenantAuthorizer = authorizer
	}
}

// WithCalculator sets the split calculator.
func WithCalculator(calc *closing.Calculator) ClosingServiceOption {
	return func(s *closingService) {
		s.calc = calc
	}
}

// WithEventTracker sets where analytics events are sent.
func WithEventTracker(events portssvc.EventTracker) ClosingServiceOption {
	return func(s *closingService) {
		s.events = events
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ClosingServiceOption {
	return func(s *closingService) {
		s.now = now
	}
}

// WithIDGenerator overrides how closing IDs are generated.
func WithIDGenerator(newID func() string) ClosingServiceOption {
	return func(s *closingService) {
		s.newID = newID
	}
}

// NewClosingService creates a new closing service with the provided options
func NewClosingService(repo portsrepo.JobClosingRepositoryFacade, options ...ClosingServiceOption) portssvc.ClosingSvcFacade {
	svc := &closingService{
		repo:  repo,
		calc:  closing.NewCalculator(closing.DefaultOptions()),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure closingService implements the ClosingSvcFacade interface
var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

// loadJob authorizes the user and fetches the job.
func (s *closingService) loadJob(ctx context.Context, tenantID, jobID, userID string, role domain.TenantRole) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, role); err != nil {
		s.LogError(ctx, err, "User not authorized for job closing",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID),
			slog.String("job_id", jobID))
		return nil, err
	}

	job, err := s.repo.FindJobByID(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("job %s: %w", jobID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find job", slog.String("job_id", jobID))
		return nil, fmt.Errorf("failed to find job %s: %w", jobID, err)
	}
	return job, nil
}

// compute runs the split and checks it reconciles.
func (s *closingService) compute(ctx context.Context, jobID string, in domain.ClosingInput) (domain.ClosingResult, error) {
	result, err := s.calc.Compute(in)
	if err != nil {
		s.LogDebug(ctx, "Closing input rejected", slog.String("job_id", jobID), slog.String("error", err.Error()))
		return domain.ClosingResult{}, err
	}

	if !s.calc.Reconciled(result) {
		err := fmt.Errorf("%w: sumCheck %s exceeds %s for job %s",
			apperrors.ErrReconciliation, result.SumCheck.String(), s.calc.Epsilon().String(), jobID)
		s.LogError(ctx, err, "Closing does not reconcile", slog.String("job_id", jobID))
		return result, err
	}

	if result.Advisory.HasWarnings() {
		s.LogInfo(ctx, "Commission percentages need attention",
			slog.String("job_id", jobID),
			slog.Bool("sum_mismatch", result.Advisory.SumMismatch),
			slog.Any("out_of_range", result.Advisory.OutOfRange))
	}
	return result, nil
}

// PreviewClosing runs the split for a job's closing form without persisting it.
func (s *closingService) PreviewClosing(ctx context.Context, tenantID string, jobID string, req dto.ClosingRequest, userID string) (*domain.ClosingResult, error) {
	if _, err := s.loadJob(ctx, tenantID, jobID, userID, domain.RoleDispatcher); err != nil {
		return nil, err
	}

	result, err := s.compute(ctx, jobID, req.ToDomain())
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CloseJob computes the closing, verifies it and persists it while locking the job.
func (s *closingService) CloseJob(ctx context.Context, tenantID string, jobID string, req dto.ClosingRequest, userID string) (*domain.ClosingRecord, error) {
	job, err := s.loadJob(ctx, tenantID, jobID, userID, domain.RoleDispatcher)
	if err != nil {
		return nil, err
	}
	if job.Locked {
		return nil, fmt.Errorf("job %s: %w", jobID, apperrors.ErrJobLocked)
	}

	in := req.ToDomain()
	result, err := s.compute(ctx, jobID, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := closing.ToPersisted(jobID, tenantID, closing.StateFromInput(in), result, now, userID)
	record.ClosingID = s.newID()
	record.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.repo.SaveClosing(ctx, record); err != nil {
		if errors.Is(err, apperrors.ErrJobLocked) {
			s.LogInfo(ctx, "Job was closed concurrently", slog.String("job_id", jobID))
			return nil, fmt.Errorf("job %s: %w", jobID, apperrors.ErrJobLocked)
		}
		s.LogError(ctx, err, "Failed to save closing", slog.String("job_id", jobID))
		return nil, fmt.Errorf("failed to save closing for job %s: %w", jobID, err)
	}

	s.LogInfo(ctx, "Job closed",
		slog.String("job_id", jobID),
		slog.String("closing_id", record.ClosingID),
		slog.String("total_amount", result.TotalAmount.String()),
		slog.String("sum_check", result.SumCheck.String()))

	if s.events != nil {
		s.events.Enqueue(userID, EventJobClosed, map[string]any{
			"tenant_id":      tenantID,
			"job_id":         jobID,
			"payment_count":  len(in.Payments),
			"total_amount":   result.TotalAmount.String(),
			"sum_mismatch":   result.Advisory.SumMismatch,
			"technician_id":  job.TechnicianID,
			"lead_source_id": job.LeadSourceID,
		})
	}

	return &record, nil
}

// GetClosing restores a job's stored closing without recomputing it.
func (s *closingService) GetClosing(ctx context.Context, tenantID string, jobID string, userID string) (*domain.ClosingView, error) {
	job, err := s.loadJob(ctx, tenantID, jobID, userID, domain.RoleReadOnly)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindClosingByJobID(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("closing for job %s: %w", jobID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find closing", slog.String("job_id", jobID))
		return nil, fmt.Errorf("failed to find closing for job %s: %w", jobID, err)
	}

	state, result := closing.FromPersisted(*record)
	return &domain.ClosingView{
		JobID:          jobID,
		Locked:         job.Locked,
		ClosedAt:       record.ClosedAt,
		ClosedByUserID: record.ClosedByUserID,
		State:          state,
		Result:         result,
	}, nil
}

// ReopenJob unlocks a closed job. The stored closing stays until a new one supersedes it.
func (s *closingService) ReopenJob(ctx context.Context, tenantID string, jobID string, userID string) error {
	if _, err := s.loadJob(ctx, tenantID, jobID, userID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.repo.UnlockJob(ctx, tenantID, jobID, userID, s.now()); err != nil {
		if errors.Is(err, apperrors.ErrJobNotLocked) || errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("job %s: %w", jobID, err)
		}
		s.LogError(ctx, err, "Failed to reopen job", slog.String("job_id", jobID))
		return fmt.Errorf("failed to reopen job %s: %w", jobID, err)
	}

	s.LogInfo(ctx, "Job reopened", slog.String("job_id", jobID), slog.String("user_id", userID))
	return nil
}

// AdjustPercentages applies one edit of the commission form.
// While typing, blank text is zero and anything else must parse; on blur invalid text becomes zero.
func (s *closingService) AdjustPercentages(ctx context.Context, req dto.AdjustPercentagesRequest) (*domain.CommissionSplit, domain.PercentAdvisory, error) {
	field := closing.Field(req.Field)
	coordinator := closing.Coordinator{DisableAutoAdjust: req.DisableAutoAdjust}

	var (
		next domain.CommissionSplit
		err  error
	)
	if req.Blur {
		next, err = coordinator.Normalize(req.Current(), field, req.Value)
	} else {
		var value decimal.Decimal
		value, err = closing.ParsePercentStrict(req.Value)
		if err != nil {
			return nil, domain.PercentAdvisory{}, err
		}
		next, err = coordinator.SetPercent(req.Current(), field, value)
	}
	if err != nil {
		return nil, domain.PercentAdvisory{}, err
	}

	s.LogDebug(ctx, "Commission split adjusted",
		slog.String("field", req.Field),
		slog.String("tech", next.TechPercent.String()),
		slog.String("lead", next.LeadPercent.String()),
		slog.String("company", next.CompanyPercent.String()))
	return &next, closing.Advise(next), nil
}
