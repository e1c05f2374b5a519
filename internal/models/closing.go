package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobClosing is a row of the job_closings table.
// Result figures are stored as flat NUMERIC columns so reporting can SUM them;
// the raw form inputs and the advisory are stored as JSON documents.
type JobClosing struct {
	ClosingID string `db:"closing_id"`
	JobID     string `db:"job_id"`
	TenantID  string `db:"tenant_id"`
	Inputs    []byte `db:"inputs"`   // JSON ClosingInput
	Advisory  []byte `db:"advisory"` // JSON PercentAdvisory

	TotalAmount   decimal.Decimal `db:"total_amount"`
	CashTotal     decimal.Decimal `db:"cash_total"`
	CreditTotal   decimal.Decimal `db:"credit_total"`
	CheckTotal    decimal.Decimal `db:"check_total"`
	ZelleTotal    decimal.Decimal `db:"zelle_total"`
	TotalFees     decimal.Decimal `db:"total_fees"`
	TotalParts    decimal.Decimal `db:"total_parts"`
	AdjustedTotal decimal.Decimal `db:"adjusted_total"`

	TechPercent    decimal.Decimal `db:"tech_percent"`
	LeadPercent    decimal.Decimal `db:"lead_percent"`
	CompanyPercent decimal.Decimal `db:"company_percent"`

	TechProfit           decimal.Decimal `db:"tech_profit"`
	LeadProfit           decimal.Decimal `db:"lead_profit"`
	CompanyProfitBase    decimal.Decimal `db:"company_profit_base"`
	CompanyProfitDisplay decimal.Decimal `db:"company_profit_display"`
	TechProfitDisplay    decimal.Decimal `db:"tech_profit_display"`
	LeadProfitDisplay    decimal.Decimal `db:"lead_profit_display"`

	TechBalance    decimal.Decimal `db:"tech_balance"`
	LeadBalance    decimal.Decimal `db:"lead_balance"`
	CompanyBalance decimal.Decimal `db:"company_balance"`
	SumCheck       decimal.Decimal `db:"sum_check"`

	HeldByTechnician        decimal.Decimal `db:"held_by_technician"`
	HeldByLeadSource        decimal.Decimal `db:"held_by_lead_source"`
	HeldByCompany           decimal.Decimal `db:"held_by_company"`
	FeeCreditedToTechnician decimal.Decimal `db:"fee_credited_to_technician"`
	FeeCreditedToLeadSource decimal.Decimal `db:"fee_credited_to_lead_source"`
	FeeCreditedToCompany    decimal.Decimal `db:"fee_credited_to_company"`

	ClosedAt       time.Time `db:"closed_at"`
	ClosedByUserID string    `db:"closed_by_user_id"`
	AuditFields
}

// JobClosingColumns lists the job_closings columns in the order used by Values and ScanTargets.
var JobClosingColumns = []string{
	"closing_id", "job_id", "tenant_id", "inputs", "advisory",
	"total_amount", "cash_total", "credit_total", "check_total", "zelle_total",
	"total_fees", "total_parts", "adjusted_total",
	"tech_percent", "lead_percent", "company_percent",
	"tech_profit", "lead_profit", "company_profit_base", "company_profit_display",
	"tech_profit_display", "lead_profit_display",
	"tech_balance", "lead_balance", "company_balance", "sum_check",
	"held_by_technician", "held_by_lead_source", "held_by_company",
	"fee_credited_to_technician", "fee_credited_to_lead_source", "fee_credited_to_company",
	"closed_at", "closed_by_user_id",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

// Values returns the column values in JobClosingColumns order.
func (m *JobClosing) Values() []any {
	return []any{
		m.ClosingID, m.JobID, m.TenantID, m.Inputs, m.Advisory,
		m.TotalAmount, m.CashTotal, m.CreditTotal, m.CheckTotal, m.ZelleTotal,
		m.TotalFees, m.TotalParts, m.AdjustedTotal,
		m.TechPercent, m.LeadPercent, m.CompanyPercent,
		m.TechProfit, m.LeadProfit, m.CompanyProfitBase, m.CompanyProfitDisplay,
		m.TechProfitDisplay, m.LeadProfitDisplay,
		m.TechBalance, m.LeadBalance, m.CompanyBalance, m.SumCheck,
		m.HeldByTechnician, m.HeldByLeadSource, m.HeldByCompany,
		m.FeeCreditedToTechnician, m.FeeCreditedToLeadSource, m.FeeCreditedToCompany,
		m.ClosedAt, m.ClosedByUserID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// ScanTargets returns pointers to the fields in JobClosingColumns order.
func (m *JobClosing) ScanTargets() []any {
	return []any{
		&m.ClosingID, &m.JobID, &m.TenantID, &m.Inputs, &m.Advisory,
		&m.TotalAmount, &m.CashTotal, &m.CreditTotal, &m.CheckTotal, &m.ZelleTotal,
		&m.TotalFees, &m.TotalParts, &m.AdjustedTotal,
		&m.TechPercent, &m.LeadPercent, &m.CompanyPercent,
		&m.TechProfit, &m.LeadProfit, &m.CompanyProfitBase, &m.CompanyProfitDisplay,
		&m.TechProfitDisplay, &m.LeadProfitDisplay,
		&m.TechBalance, &m.LeadBalance, &m.CompanyBalance, &m.SumCheck,
		&m.HeldByTechnician, &m.HeldByLeadSource, &m.HeldByCompany,
		&m.FeeCreditedToTechnician, &m.FeeCreditedToLeadSource, &m.FeeCreditedToCompany,
		&m.ClosedAt, &m.ClosedByUserID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	}
}
