package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockJobClosingRepository is a mock type for the JobClosingRepositoryFacade interface
type MockJobClosingRepository struct {
	mock.Mock
}

func (m *MockJobClosingRepository) FindJobByID(ctx context.Context, tenantID string, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobClosingRepository) FindClosingByJobID(ctx context.Context, tenantID string, jobID string) (*domain.ClosingRecord, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingRecord), args.Error(1)
}

func (m *MockJobClosingRepository) SaveClosing(ctx context.Context, record domain.ClosingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockJobClosingRepository) UnlockJob(ctx context.Context, tenantID string, jobID string, userID string, at time.Time) error {
	args := m.Called(ctx, tenantID, jobID, userID, at)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetPartyTotals(ctx context.Context, tenantID string, from, to time.Time) (*domain.PartyTotals, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyTotals), args.Error(1)
}

func (m *MockReportingRepository) GetTechnicianTotals(ctx context.Context, tenantID string, from, to time.Time) ([]domain.TechnicianTotals, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TechnicianTotals), args.Error(1)
}

func (m *MockReportingRepository) ListClosings(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.ClosingRecord, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	var records []domain.ClosingRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.ClosingRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

// MockEventTracker records analytics events.
type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}
