package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/core/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingService
	ctx      context.Context
	from     time.Time
	to       time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
	suite.ctx = context.Background()
	suite.from = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.to = time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
}

func (suite *ReportingServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestPartyTotals_Success() {
	totals := &domain.PartyTotals{JobCount: 3, TechProfit: decimal.NewFromInt(420)}
	suite.mockRepo.On("GetPartyTotals", suite.ctx, testTenantID, suite.from, suite.to).Return(totals, nil).Once()

	got, err := suite.service.PartyTotals(suite.ctx, testTenantID, suite.from, suite.to, testUserID)

	suite.Require().NoError(err)
	suite.Equal(3, got.JobCount)
	suite.True(decimal.NewFromInt(420).Equal(got.TechProfit))
}

func (suite *ReportingServiceTestSuite) TestPartyTotals_InvertedPeriod() {
	_, err := suite.service.PartyTotals(suite.ctx, testTenantID, suite.to, suite.from, testUserID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestTechnicianTotals_RepositoryError() {
	dbErr := errors.New("boom")
	suite.mockRepo.On("GetTechnicianTotals", suite.ctx, testTenantID, suite.from, suite.to).Return(nil, dbErr).Once()

	_, err := suite.service.TechnicianTotals(suite.ctx, testTenantID, suite.from, suite.to, testUserID)

	suite.ErrorIs(err, dbErr)
}

func (suite *ReportingServiceTestSuite) TestListClosings_PassesToken() {
	token := "abc"
	next := "def"
	records := []domain.ClosingRecord{
		{JobID: "job-2", ClosedAt: suite.to},
		{JobID: "job-1", ClosedAt: suite.from},
	}
	suite.mockRepo.On("ListClosings", suite.ctx, testTenantID, 2, mock.MatchedBy(func(p *string) bool {
		return p != nil && *p == token
	})).Return(records, &next, nil).Once()

	resp, err := suite.service.ListClosings(suite.ctx, testTenantID, testUserID, dto.ListClosingsParams{Limit: 2, NextToken: &token})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Closings, 2)
	suite.Equal("job-2", resp.Closings[0].JobID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("def", *resp.NextToken)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
