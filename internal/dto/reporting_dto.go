package dto

import (
	"github.com/SscSPs/job_closing_service/internal/core/domain"
)

// PartyTotalsResponse represents the party totals report response
type PartyTotalsResponse struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	domain.PartyTotals
}

// TechnicianTotalsResponse represents the per-technician totals report response
type TechnicianTotalsResponse struct {
	FromDate    string                    `json:"fromDate"`
	ToDate      string                    `json:"toDate"`
	Technicians []domain.TechnicianTotals `json:"technicians"`
}

// ListClosingsParams defines query parameters for listing closings.
type ListClosingsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListClosingsResponse is one page of closing records.
type ListClosingsResponse struct {
	Closings  []ClosingRecordResponse `json:"closings"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
