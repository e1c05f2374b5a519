package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/closing"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/core/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testTenantID = "tenant-1"
	testJobID    = "job-1"
	testUserID   = "user-1"
)

func fd(s string) dto.FormDecimal {
	return dto.NewFormDecimal(decimal.RequireFromString(s))
}

// creditRequest is a $100 credit payment with a 3% fee collected by the technician, split 30/50/20.
func creditRequest() dto.ClosingRequest {
	return dto.ClosingRequest{
		Payments: []dto.PaymentRequest{
			{Method: "credit", Collector: "technician", Amount: fd("100"), FeePercent: fd("3")},
		},
		TechPercent:    fd("30"),
		LeadPercent:    fd("50"),
		CompanyPercent: fd("20"),
	}
}

type ClosingServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockJobClosingRepository
	mockEvents *MockEventTracker
	service    portssvc.ClosingSvcFacade
	ctx        context.Context
	now        time.Time
}

func (suite *ClosingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJobClosingRepository)
	suite.mockEvents = new(MockEventTracker)
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC)
	suite.service = services.NewClosingService(
		suite.mockRepo,
		services.WithEventTracker(suite.mockEvents),
		services.WithClock(func() time.Time { return suite.now }),
		services.WithIDGenerator(func() string { return "closing-1" }),
	)
}

func (suite *ClosingServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockEvents.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) openJob() *domain.Job {
	return &domain.Job{JobID: testJobID, TenantID: testTenantID, TechnicianID: "tech-7"}
}

// --- Test Cases ---

func (suite *ClosingServiceTestSuite) TestPreviewClosing_Success() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()

	result, err := suite.service.PreviewClosing(suite.ctx, testTenantID, testJobID, creditRequest(), testUserID)

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("3").Equal(result.TotalFees))
	suite.True(decimal.RequireFromString("97").Equal(result.AdjustedTotal))
	suite.True(decimal.RequireFromString("32.1").Equal(result.BaseProfit.Technician))
	suite.True(decimal.RequireFromString("48.5").Equal(result.BaseProfit.LeadSource))
	suite.True(decimal.RequireFromString("19.4").Equal(result.BaseProfit.Company))
	suite.True(result.SumCheck.IsZero())
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveClosing", mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestPreviewClosing_JobNotFound() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.PreviewClosing(suite.ctx, testTenantID, testJobID, creditRequest(), testUserID)

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ClosingServiceTestSuite) TestPreviewClosing_InvalidCollector() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()

	req := creditRequest()
	req.Payments = append(req.Payments, dto.PaymentRequest{Method: "zelle", Collector: "technician", Amount: fd("50")})

	_, err := suite.service.PreviewClosing(suite.ctx, testTenantID, testJobID, req, testUserID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ClosingServiceTestSuite) TestCloseJob_Success() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()
	suite.mockRepo.On("SaveClosing", suite.ctx, mock.MatchedBy(func(rec domain.ClosingRecord) bool {
		return rec.ClosingID == "closing-1" &&
			rec.JobID == testJobID &&
			rec.TenantID == testTenantID &&
			rec.ClosedByUserID == testUserID &&
			rec.ClosedAt.Equal(suite.now) &&
			rec.CreatedBy == testUserID &&
			rec.Result.BaseProfit.Technician.Equal(decimal.RequireFromString("32.1")) &&
			len(rec.Input.Payments) == 1
	})).Return(nil).Once()
	suite.mockEvents.On("Enqueue", testUserID, services.EventJobClosed, mock.MatchedBy(func(props map[string]any) bool {
		return props["job_id"] == testJobID && props["technician_id"] == "tech-7"
	})).Once()

	rec, err := suite.service.CloseJob(suite.ctx, testTenantID, testJobID, creditRequest(), testUserID)

	suite.Require().NoError(err)
	suite.Equal("closing-1", rec.ClosingID)
	suite.True(decimal.RequireFromString("67.9").Equal(rec.Result.Balance.Technician))
}

func (suite *ClosingServiceTestSuite) TestCloseJob_AlreadyLocked() {
	job := suite.openJob()
	job.Locked = true
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(job, nil).Once()

	rec, err := suite.service.CloseJob(suite.ctx, testTenantID, testJobID, creditRequest(), testUserID)

	suite.Nil(rec)
	suite.ErrorIs(err, apperrors.ErrJobLocked)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveClosing", mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestCloseJob_LostRace() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()
	suite.mockRepo.On("SaveClosing", suite.ctx, mock.Anything).Return(apperrors.ErrJobLocked).Once()

	_, err := suite.service.CloseJob(suite.ctx, testTenantID, testJobID, creditRequest(), testUserID)

	suite.ErrorIs(err, apperrors.ErrJobLocked)
	suite.mockEvents.AssertNotCalled(suite.T(), "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestCloseJob_RepositoryError() {
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()
	suite.mockRepo.On("SaveClosing", suite.ctx, mock.Anything).Return(dbErr).Once()

	_, err := suite.service.CloseJob(suite.ctx, testTenantID, testJobID, creditRequest(), testUserID)

	suite.ErrorIs(err, dbErr)
	suite.NotErrorIs(err, apperrors.ErrJobLocked)
}

func (suite *ClosingServiceTestSuite) TestCloseJob_InvalidAdditionalFeePayer() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()

	req := creditRequest()
	req.AdditionalFee = dto.AdditionalFeeRequest{Amount: fd("10"), Payer: "lead_source"}

	_, err := suite.service.CloseJob(suite.ctx, testTenantID, testJobID, req, testUserID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ClosingServiceTestSuite) TestGetClosing_RehydratesWithoutRecompute() {
	in := creditRequest().ToDomain()
	result, err := closing.Compute(in)
	suite.Require().NoError(err)
	// A stored figure that a recompute would change must come back untouched.
	result.DisplayProfit.Company = decimal.RequireFromString("999")
	rec := closing.ToPersisted(testJobID, testTenantID, closing.StateFromInput(in), result, suite.now, "user-9")

	job := suite.openJob()
	job.Locked = true
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(job, nil).Once()
	suite.mockRepo.On("FindClosingByJobID", suite.ctx, testTenantID, testJobID).Return(&rec, nil).Once()

	view, err := suite.service.GetClosing(suite.ctx, testTenantID, testJobID, testUserID)

	suite.Require().NoError(err)
	suite.True(view.Locked)
	suite.Equal("user-9", view.ClosedByUserID)
	suite.True(suite.now.Equal(view.ClosedAt))
	suite.True(decimal.RequireFromString("999").Equal(view.Result.DisplayProfit.Company))
	suite.Require().Len(view.State.Payments, 1)
	suite.Equal(domain.Credit, view.State.Payments[0].Method)
	suite.True(decimal.RequireFromString("30").Equal(view.State.Commission.TechPercent))
}

func (suite *ClosingServiceTestSuite) TestGetClosing_NotFound() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Once()
	suite.mockRepo.On("FindClosingByJobID", suite.ctx, testTenantID, testJobID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetClosing(suite.ctx, testTenantID, testJobID, testUserID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ClosingServiceTestSuite) TestReopenJob() {
	suite.mockRepo.On("FindJobByID", suite.ctx, testTenantID, testJobID).Return(suite.openJob(), nil).Twice()
	suite.mockRepo.On("UnlockJob", suite.ctx, testTenantID, testJobID, testUserID, suite.now).Return(nil).Once()

	suite.NoError(suite.service.ReopenJob(suite.ctx, testTenantID, testJobID, testUserID))

	suite.mockRepo.On("UnlockJob", suite.ctx, testTenantID, testJobID, "user-2", suite.now).Return(apperrors.ErrJobNotLocked).Once()
	err := suite.service.ReopenJob(suite.ctx, testTenantID, testJobID, "user-2")
	suite.ErrorIs(err, apperrors.ErrJobNotLocked)
}

func (suite *ClosingServiceTestSuite) TestAdjustPercentages() {
	base := dto.AdjustPercentagesRequest{TechPercent: fd("40"), LeadPercent: fd("30"), CompanyPercent: fd("30")}

	tests := []struct {
		name        string
		field       string
		value       string
		blur        bool
		disable     bool
		wantTech    string
		wantLead    string
		wantCompany string
		wantErr     error
	}{
		{name: "lead cascades to company", field: "lead", value: "25", wantTech: "40", wantLead: "25", wantCompany: "35"},
		{name: "company cascades to lead", field: "company", value: "10%", wantTech: "40", wantLead: "50", wantCompany: "10"},
		{name: "tech never cascades", field: "tech", value: "50", wantTech: "50", wantLead: "30", wantCompany: "30"},
		{name: "blank while typing is zero", field: "lead", value: "", wantTech: "40", wantLead: "0", wantCompany: "60"},
		{name: "invalid on blur is zero", field: "lead", value: "abc", blur: true, wantTech: "40", wantLead: "0", wantCompany: "60"},
		{name: "auto adjust disabled", field: "lead", value: "80", disable: true, wantTech: "40", wantLead: "80", wantCompany: "30"},
		{name: "invalid while typing", field: "lead", value: "abc", wantErr: apperrors.ErrValidation},
		{name: "unknown field", field: "bonus", value: "5", wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := base
			req.Field = tt.field
			req.Value = tt.value
			req.Blur = tt.blur
			req.DisableAutoAdjust = tt.disable

			split, _, err := suite.service.AdjustPercentages(suite.ctx, req)
			if tt.wantErr != nil {
				suite.ErrorIs(err, tt.wantErr)
				return
			}
			suite.Require().NoError(err)
			suite.True(decimal.RequireFromString(tt.wantTech).Equal(split.TechPercent), "tech %s", split.TechPercent)
			suite.True(decimal.RequireFromString(tt.wantLead).Equal(split.LeadPercent), "lead %s", split.LeadPercent)
			suite.True(decimal.RequireFromString(tt.wantCompany).Equal(split.CompanyPercent), "company %s", split.CompanyPercent)
		})
	}
}

func (suite *ClosingServiceTestSuite) TestAdjustPercentages_Advisory() {
	req := dto.AdjustPercentagesRequest{TechPercent: fd("40"), LeadPercent: fd("30"), CompanyPercent: fd("30"), Field: "lead", Value: "120", DisableAutoAdjust: true}

	_, adv, err := suite.service.AdjustPercentages(suite.ctx, req)

	suite.Require().NoError(err)
	suite.True(adv.SumMismatch)
	suite.Equal([]domain.Party{domain.LeadSource}, adv.OutOfRange)
}

func TestClosingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClosingServiceTestSuite))
}
