package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/models"
)

// ToModelClosing converts a domain ClosingRecord to a model JobClosing
func ToModelClosing(d domain.ClosingRecord) (models.JobClosing, error) {
	inputs, err := json.Marshal(d.Input)
	if err != nil {
		return models.JobClosing{}, fmt.Errorf("failed to encode closing inputs: %w", err)
	}
	advisory, err := json.Marshal(d.Result.Advisory)
	if err != nil {
		return models.JobClosing{}, fmt.Errorf("failed to encode closing advisory: %w", err)
	}

	r := d.Result
	return models.JobClosing{
		ClosingID: d.ClosingID,
		JobID:     d.JobID,
		TenantID:  d.TenantID,
		Inputs:    inputs,
		Advisory:  advisory,

		TotalAmount:   r.TotalAmount,
		CashTotal:     r.CashTotal,
		CreditTotal:   r.CreditTotal,
		CheckTotal:    r.CheckTotal,
		ZelleTotal:    r.ZelleTotal,
		TotalFees:     r.TotalFees,
		TotalParts:    r.TotalParts,
		AdjustedTotal: r.AdjustedTotal,

		TechPercent:    r.Commission.TechPercent,
		LeadPercent:    r.Commission.LeadPercent,
		CompanyPercent: r.Commission.CompanyPercent,

		TechProfit:           r.BaseProfit.Technician,
		LeadProfit:           r.BaseProfit.LeadSource,
		CompanyProfitBase:    r.BaseProfit.Company,
		CompanyProfitDisplay: r.DisplayProfit.Company,
		TechProfitDisplay:    r.DisplayProfit.Technician,
		LeadProfitDisplay:    r.DisplayProfit.LeadSource,

		TechBalance:    r.Balance.Technician,
		LeadBalance:    r.Balance.LeadSource,
		CompanyBalance: r.Balance.Company,
		SumCheck:       r.SumCheck,

		HeldByTechnician:        r.AmountHeldBy.Technician,
		HeldByLeadSource:        r.AmountHeldBy.LeadSource,
		HeldByCompany:           r.AmountHeldBy.Company,
		FeeCreditedToTechnician: r.FeeCreditedTo.Technician,
		FeeCreditedToLeadSource: r.FeeCreditedTo.LeadSource,
		FeeCreditedToCompany:    r.FeeCreditedTo.Company,

		ClosedAt:       d.ClosedAt,
		ClosedByUserID: d.ClosedByUserID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainClosing converts a model JobClosing to a domain ClosingRecord
func ToDomainClosing(m models.JobClosing) (domain.ClosingRecord, error) {
	var input domain.ClosingInput
	if err := json.Unmarshal(m.Inputs, &input); err != nil {
		return domain.ClosingRecord{}, fmt.Errorf("failed to decode closing inputs of job %s: %w", m.JobID, err)
	}
	var advisory domain.PercentAdvisory
	if len(m.Advisory) > 0 {
		if err := json.Unmarshal(m.Advisory, &advisory); err != nil {
			return domain.ClosingRecord{}, fmt.Errorf("failed to decode closing advisory of job %s: %w", m.JobID, err)
		}
	}

	return domain.ClosingRecord{
		ClosingID: m.ClosingID,
		JobID:     m.JobID,
		TenantID:  m.TenantID,
		Input:     input,
		Result: domain.ClosingResult{
			TotalAmount:   m.TotalAmount,
			CashTotal:     m.CashTotal,
			CreditTotal:   m.CreditTotal,
			CheckTotal:    m.CheckTotal,
			ZelleTotal:    m.ZelleTotal,
			TotalFees:     m.TotalFees,
			TotalParts:    m.TotalParts,
			AdjustedTotal: m.AdjustedTotal,
			Commission: domain.CommissionSplit{
				TechPercent:    m.TechPercent,
				LeadPercent:    m.LeadPercent,
				CompanyPercent: m.CompanyPercent,
			},
			AmountHeldBy: domain.PartyAmounts{
				Technician: m.HeldByTechnician,
				LeadSource: m.HeldByLeadSource,
				Company:    m.HeldByCompany,
			},
			FeeCreditedTo: domain.PartyAmounts{
				Technician: m.FeeCreditedToTechnician,
				LeadSource: m.FeeCreditedToLeadSource,
				Company:    m.FeeCreditedToCompany,
			},
			BaseProfit: domain.PartyAmounts{
				Technician: m.TechProfit,
				LeadSource: m.LeadProfit,
				Company:    m.CompanyProfitBase,
			},
			DisplayProfit: domain.PartyAmounts{
				Technician: m.TechProfitDisplay,
				LeadSource: m.LeadProfitDisplay,
				Company:    m.CompanyProfitDisplay,
			},
			Balance: domain.PartyAmounts{
				Technician: m.TechBalance,
				LeadSource: m.LeadBalance,
				Company:    m.CompanyBalance,
			},
			SumCheck: m.SumCheck,
			Advisory: advisory,
		},
		ClosedAt:       m.ClosedAt,
		ClosedByUserID: m.ClosedByUserID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}
