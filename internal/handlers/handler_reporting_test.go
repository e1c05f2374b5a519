package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func reportPath(name, query string) string {
	return fmt.Sprintf("/api/v1/tenants/%s/reports/%s%s", testTenantID, name, query)
}

func (suite *ClosingHandlerTestSuite) TestPartyTotals_CoversWholeToDate() {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 999999999, time.UTC)
	totals := &domain.PartyTotals{
		JobCount:    2,
		TotalAmount: decimal.NewFromInt(250),
		TechProfit:  decimal.NewFromInt(90),
	}
	suite.mockReporting.On("PartyTotals", mock.Anything, testTenantID, from, to, testUserID).Return(totals, nil).Once()

	w := suite.do(http.MethodGet, reportPath("party-totals", "?fromDate=2026-03-01&toDate=2026-03-31"), nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("2026-03-01", body["fromDate"])
	suite.Equal("2026-03-31", body["toDate"])
	suite.Equal(float64(2), body["jobCount"])
	suite.Equal("250", body["totalAmount"])
	suite.Equal("90", body["techProfit"])
}

func (suite *ClosingHandlerTestSuite) TestPartyTotals_InvalidDates() {
	cases := map[string]string{
		"bad from":       "?fromDate=03/01/2026",
		"bad to":         "?fromDate=2026-03-01&toDate=tomorrow",
		"reversed range": "?fromDate=2026-03-10&toDate=2026-03-01",
	}
	for name, query := range cases {
		suite.Run(name, func() {
			w := suite.do(http.MethodGet, reportPath("party-totals", query), nil)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (suite *ClosingHandlerTestSuite) TestPartyTotals_Forbidden() {
	suite.mockReporting.On("PartyTotals", mock.Anything, testTenantID, mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.do(http.MethodGet, reportPath("party-totals", "?fromDate=2026-03-01&toDate=2026-03-31"), nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ClosingHandlerTestSuite) TestTechnicianTotals_EmptyIsArray() {
	suite.mockReporting.On("TechnicianTotals", mock.Anything, testTenantID, mock.Anything, mock.Anything, testUserID).
		Return([]domain.TechnicianTotals(nil), nil).Once()

	w := suite.do(http.MethodGet, reportPath("technician-totals", "?fromDate=2026-03-01&toDate=2026-03-31"), nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal([]any{}, body["technicians"])
}

func (suite *ClosingHandlerTestSuite) TestListClosings_DefaultLimit() {
	next := "abc"
	suite.mockReporting.On("ListClosings", mock.Anything, testTenantID, testUserID, dto.ListClosingsParams{Limit: 20}).
		Return(&dto.ListClosingsResponse{Closings: []dto.ClosingRecordResponse{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, reportPath("closings", ""), nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("abc", body["nextToken"])
}

func (suite *ClosingHandlerTestSuite) TestListClosings_LimitOutOfRange() {
	w := suite.do(http.MethodGet, reportPath("closings", "?limit=500"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ClosingHandlerTestSuite) TestListClosings_BadToken() {
	err := apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: base64 decode", apperrors.ErrValidation))
	suite.mockReporting.On("ListClosings", mock.Anything, testTenantID, testUserID, mock.Anything).
		Return(nil, fmt.Errorf("failed to list closings: %w", err)).Once()

	w := suite.do(http.MethodGet, reportPath("closings", "?nextToken=%25%25"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}
