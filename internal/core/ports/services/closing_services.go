package services

import (
	"context"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/dto"
)

// ClosingPreviewSvc computes a closing without persisting it
type ClosingPreviewSvc interface {
	// PreviewClosing runs the split for a job's closing form.
	PreviewClosing(ctx context.Context, tenantID string, jobID string, req dto.ClosingRequest, userID string) (*domain.ClosingResult, error)
}

// ClosingWriterSvc defines the operations that confirm or reopen a closing
type ClosingWriterSvc interface {
	// CloseJob computes, verifies and persists the job's closing, locking the job.
	CloseJob(ctx context.Context, tenantID string, jobID string, req dto.ClosingRequest, userID string) (*domain.ClosingRecord, error)

	// ReopenJob unlocks a closed job so that its closing can be redone.
	ReopenJob(ctx context.Context, tenantID string, jobID string, userID string) error
}

// ClosingReaderSvc defines read operations for stored closings
type ClosingReaderSvc interface {
	// GetClosing restores the editable state and the stored result of a job's closing.
	GetClosing(ctx context.Context, tenantID string, jobID string, userID string) (*domain.ClosingView, error)
}

// PercentageSvc keeps the commission triple consistent while the form is edited
type PercentageSvc interface {
	// AdjustPercentages applies a single field edit or blur to the commission split.
	AdjustPercentages(ctx context.Context, req dto.AdjustPercentagesRequest) (*domain.CommissionSplit, domain.PercentAdvisory, error)
}

// ClosingSvcFacade combines all closing-related service interfaces
type ClosingSvcFacade interface {
	ClosingPreviewSvc
	ClosingWriterSvc
	ClosingReaderSvc
	PercentageSvc
}
