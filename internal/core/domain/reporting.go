package domain

import "github.com/shopspring/decimal"

// PartyTotals sums closing records across many jobs.
type PartyTotals struct {
	JobCount             int             `json:"jobCount"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	TotalFees            decimal.Decimal `json:"totalFees"`
	TotalParts           decimal.Decimal `json:"totalParts"`
	AdjustedTotal        decimal.Decimal `json:"adjustedTotal"`
	TechProfit           decimal.Decimal `json:"techProfit"`
	LeadProfit           decimal.Decimal `json:"leadProfit"`
	CompanyProfitBase    decimal.Decimal `json:"companyProfitBase"`
	CompanyProfitDisplay decimal.Decimal `json:"companyProfitDisplay"`
	TechBalance          decimal.Decimal `json:"techBalance"`
	LeadBalance          decimal.Decimal `json:"leadBalance"`
	CompanyBalance       decimal.Decimal `json:"companyBalance"`
}

// TechnicianTotals is a PartyTotals row for a single technician.
type TechnicianTotals struct {
	TechnicianID string `json:"technicianId"`
	PartyTotals
}
