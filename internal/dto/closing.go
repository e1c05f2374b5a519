package dto

import (
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentRequest is one payment line of the closing form.
type PaymentRequest struct {
	Method     string      `json:"method" binding:"required,oneof=cash credit check zelle"`
	Collector  string      `json:"collector" binding:"omitempty,oneof=technician company lead_source"`
	Amount     FormDecimal `json:"amount" binding:"decimalgte0" swaggertype:"string"`
	FeePercent FormDecimal `json:"feePercent" binding:"decimalgte0" swaggertype:"string"`
}

// AdditionalFeeRequest is the fixed per-job fee paid to the lead source.
type AdditionalFeeRequest struct {
	Amount FormDecimal `json:"amount" binding:"decimalgte0" swaggertype:"string"`
	Payer  string      `json:"payer" binding:"omitempty,oneof=technician company"`
}

// TogglesRequest carries the policy switches of a closing.
type TogglesRequest struct {
	IncludePartsInProfit     bool `json:"includePartsInProfit"`
	ExcludeTechFromParts     bool `json:"excludeTechFromParts"`
	LeadSourceOwnedByCompany bool `json:"leadSourceOwnedByCompany"`
	DisableAutoAdjust        bool `json:"disableAutoAdjust"`
}

// ClosingRequest is the closing form as submitted for preview or confirmation.
type ClosingRequest struct {
	Payments       []PaymentRequest     `json:"payments" binding:"dive"`
	TechParts      FormDecimal          `json:"techParts" binding:"decimalgte0" swaggertype:"string"`
	LeadParts      FormDecimal          `json:"leadParts" binding:"decimalgte0" swaggertype:"string"`
	CompanyParts   FormDecimal          `json:"companyParts" binding:"decimalgte0" swaggertype:"string"`
	TechPercent    FormDecimal          `json:"techPercent" swaggertype:"string"`
	LeadPercent    FormDecimal          `json:"leadPercent" swaggertype:"string"`
	CompanyPercent FormDecimal          `json:"companyPercent" swaggertype:"string"`
	AdditionalFee  AdditionalFeeRequest `json:"additionalFee"`
	Toggles        TogglesRequest       `json:"toggles"`
}

// ToDomain converts the request into the calculator input.
func (r ClosingRequest) ToDomain() domain.ClosingInput {
	payments := make([]domain.Payment, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = domain.Payment{
			Method:     domain.PaymentMethod(p.Method),
			Collector:  domain.Party(p.Collector),
			Amount:     p.Amount.Decimal,
			FeePercent: p.FeePercent.Decimal,
		}
	}
	return domain.ClosingInput{
		Payments: payments,
		Parts: domain.PartsAllocation{
			TechParts:    r.TechParts.Decimal,
			LeadParts:    r.LeadParts.Decimal,
			CompanyParts: r.CompanyParts.Decimal,
		},
		Commission: domain.CommissionSplit{
			TechPercent:    r.TechPercent.Decimal,
			LeadPercent:    r.LeadPercent.Decimal,
			CompanyPercent: r.CompanyPercent.Decimal,
		},
		AdditionalFee: domain.AdditionalFee{
			Amount: r.AdditionalFee.Amount.Decimal,
			Payer:  domain.Party(r.AdditionalFee.Payer),
		},
		Toggles: domain.PolicyToggles{
			IncludePartsInProfit:     r.Toggles.IncludePartsInProfit,
			ExcludeTechFromParts:     r.Toggles.ExcludeTechFromParts,
			LeadSourceOwnedByCompany: r.Toggles.LeadSourceOwnedByCompany,
			DisableAutoAdjust:        r.Toggles.DisableAutoAdjust,
		},
	}
}

// ToClosingRequest renders editable state back into the form's shape.
func ToClosingRequest(s domain.EditableState) ClosingRequest {
	payments := make([]PaymentRequest, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = PaymentRequest{
			Method:     string(p.Method),
			Collector:  string(p.Collector),
			Amount:     NewFormDecimal(p.Amount),
			FeePercent: NewFormDecimal(p.FeePercent),
		}
	}
	return ClosingRequest{
		Payments:       payments,
		TechParts:      NewFormDecimal(s.Parts.TechParts),
		LeadParts:      NewFormDecimal(s.Parts.LeadParts),
		CompanyParts:   NewFormDecimal(s.Parts.CompanyParts),
		TechPercent:    NewFormDecimal(s.Commission.TechPercent),
		LeadPercent:    NewFormDecimal(s.Commission.LeadPercent),
		CompanyPercent: NewFormDecimal(s.Commission.CompanyPercent),
		AdditionalFee: AdditionalFeeRequest{
			Amount: NewFormDecimal(s.AdditionalFee.Amount),
			Payer:  string(s.AdditionalFee.Payer),
		},
		Toggles: TogglesRequest{
			IncludePartsInProfit:     s.Toggles.IncludePartsInProfit,
			ExcludeTechFromParts:     s.Toggles.ExcludeTechFromParts,
			LeadSourceOwnedByCompany: s.Toggles.LeadSourceOwnedByCompany,
			DisableAutoAdjust:        s.Toggles.DisableAutoAdjust,
		},
	}
}

// ClosingResultResponse is the flat closing result shape read by reporting.
type ClosingResultResponse struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CashTotal     decimal.Decimal `json:"cashTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	CheckTotal    decimal.Decimal `json:"checkTotal"`
	ZelleTotal    decimal.Decimal `json:"zelleTotal"`
	TotalFees     decimal.Decimal `json:"totalFees"`
	TotalParts    decimal.Decimal `json:"totalParts"`
	AdjustedTotal decimal.Decimal `json:"adjustedTotal"`

	TechPercent    decimal.Decimal `json:"techPercent"`
	LeadPercent    decimal.Decimal `json:"leadPercent"`
	CompanyPercent decimal.Decimal `json:"companyPercent"`

	TechProfit           decimal.Decimal `json:"techProfit"`
	LeadProfit           decimal.Decimal `json:"leadProfit"`
	CompanyProfitBase    decimal.Decimal `json:"companyProfitBase"`
	CompanyProfitDisplay decimal.Decimal `json:"companyProfitDisplay"`
	TechProfitDisplay    decimal.Decimal `json:"techProfitDisplay"`
	LeadProfitDisplay    decimal.Decimal `json:"leadProfitDisplay"`

	TechBalance    decimal.Decimal `json:"techBalance"`
	LeadBalance    decimal.Decimal `json:"leadBalance"`
	CompanyBalance decimal.Decimal `json:"companyBalance"`
	SumCheck       decimal.Decimal `json:"sumCheck"`

	CashHeldByTechnician    decimal.Decimal `json:"cashHeldByTechnician"`
	CashHeldByLeadSource    decimal.Decimal `json:"cashHeldByLeadSource"`
	CashHeldByCompany       decimal.Decimal `json:"cashHeldByCompany"`
	FeeCreditedToTechnician decimal.Decimal `json:"feeCreditedToTechnician"`
	FeeCreditedToLeadSource decimal.Decimal `json:"feeCreditedToLeadSource"`
	FeeCreditedToCompany    decimal.Decimal `json:"feeCreditedToCompany"`

	Advisory domain.PercentAdvisory `json:"advisory"`
}

// ToClosingResultResponse flattens a domain.ClosingResult.
func ToClosingResultResponse(r domain.ClosingResult) ClosingResultResponse {
	return ClosingResultResponse{
		TotalAmount:             r.TotalAmount,
		CashTotal:               r.CashTotal,
		CreditTotal:             r.CreditTotal,
		CheckTotal:              r.CheckTotal,
		ZelleTotal:              r.ZelleTotal,
		TotalFees:               r.TotalFees,
		TotalParts:              r.TotalParts,
		AdjustedTotal:           r.AdjustedTotal,
		TechPercent:             r.Commission.TechPercent,
		LeadPercent:             r.Commission.LeadPercent,
		CompanyPercent:          r.Commission.CompanyPercent,
		TechProfit:              r.BaseProfit.Technician,
		LeadProfit:              r.BaseProfit.LeadSource,
		CompanyProfitBase:       r.BaseProfit.Company,
		CompanyProfitDisplay:    r.DisplayProfit.Company,
		TechProfitDisplay:       r.DisplayProfit.Technician,
		LeadProfitDisplay:       r.DisplayProfit.LeadSource,
		TechBalance:             r.Balance.Technician,
		LeadBalance:             r.Balance.LeadSource,
		CompanyBalance:          r.Balance.Company,
		SumCheck:                r.SumCheck,
		CashHeldByTechnician:    r.AmountHeldBy.Technician,
		CashHeldByLeadSource:    r.AmountHeldBy.LeadSource,
		CashHeldByCompany:       r.AmountHeldBy.Company,
		FeeCreditedToTechnician: r.FeeCreditedTo.Technician,
		FeeCreditedToLeadSource: r.FeeCreditedTo.LeadSource,
		FeeCreditedToCompany:    r.FeeCreditedTo.Company,
		Advisory:                r.Advisory,
	}
}

// ClosingRecordResponse is a confirmed closing: the flat result plus who closed it and when.
type ClosingRecordResponse struct {
	JobID string `json:"jobId"`
	ClosingResultResponse
	ClosedAt       time.Time      `json:"closedAt"`
	ClosedByUserID string         `json:"closedByUserId"`
	Input          ClosingRequest `json:"input"`
}

// ToClosingRecordResponse converts a domain.ClosingRecord.
func ToClosingRecordResponse(rec *domain.ClosingRecord) ClosingRecordResponse {
	return ClosingRecordResponse{
		JobID:                 rec.JobID,
		ClosingResultResponse: ToClosingResultResponse(rec.Result),
		ClosedAt:              rec.ClosedAt,
		ClosedByUserID:        rec.ClosedByUserID,
		Input: ToClosingRequest(domain.EditableState{
			Payments:      rec.Input.Payments,
			Parts:         rec.Input.Parts,
			Commission:    rec.Input.Commission,
			AdditionalFee: rec.Input.AdditionalFee,
			Toggles:       rec.Input.Toggles,
		}),
	}
}

// ClosingToRecordResponses converts a slice of closing records.
func ClosingToRecordResponses(recs []domain.ClosingRecord) []ClosingRecordResponse {
	responses := make([]ClosingRecordResponse, len(recs))
	for i := range recs {
		responses[i] = ToClosingRecordResponse(&recs[i])
	}
	return responses
}

// GetClosingResponse is a stored closing rehydrated for the closing panel.
type GetClosingResponse struct {
	JobID          string                `json:"jobId"`
	Locked         bool                  `json:"locked"`
	ClosedAt       time.Time             `json:"closedAt"`
	ClosedByUserID string                `json:"closedByUserId"`
	State          ClosingRequest        `json:"state"`
	Result         ClosingResultResponse `json:"result"`
}

// ToGetClosingResponse converts a domain.ClosingView.
func ToGetClosingResponse(v *domain.ClosingView) GetClosingResponse {
	return GetClosingResponse{
		JobID:          v.JobID,
		Locked:         v.Locked,
		ClosedAt:       v.ClosedAt,
		ClosedByUserID: v.ClosedByUserID,
		State:          ToClosingRequest(v.State),
		Result:         ToClosingResultResponse(v.Result),
	}
}

// AdjustPercentagesRequest is a single edit of one commission field.
type AdjustPercentagesRequest struct {
	TechPercent    FormDecimal `json:"techPercent" swaggertype:"string"`
	LeadPercent    FormDecimal `json:"leadPercent" swaggertype:"string"`
	CompanyPercent FormDecimal `json:"companyPercent" swaggertype:"string"`
	Field          string      `json:"field" binding:"required,oneof=tech lead company"`
	// Value is the raw text of the edited field.
	Value string `json:"value"`
	// Blur marks the edit as the field losing focus; invalid text then becomes 0.
	Blur              bool `json:"blur"`
	DisableAutoAdjust bool `json:"disableAutoAdjust"`
}

// Current returns the split before the edit is applied.
func (r AdjustPercentagesRequest) Current() domain.CommissionSplit {
	return domain.CommissionSplit{
		TechPercent:    r.TechPercent.Decimal,
		LeadPercent:    r.LeadPercent.Decimal,
		CompanyPercent: r.CompanyPercent.Decimal,
	}
}

// AdjustPercentagesResponse is the re-balanced split.
type AdjustPercentagesResponse struct {
	TechPercent    decimal.Decimal        `json:"techPercent"`
	LeadPercent    decimal.Decimal        `json:"leadPercent"`
	CompanyPercent decimal.Decimal        `json:"companyPercent"`
	Advisory       domain.PercentAdvisory `json:"advisory"`
}

// ToAdjustPercentagesResponse converts a split and its advisory.
func ToAdjustPercentagesResponse(s domain.CommissionSplit, adv domain.PercentAdvisory) AdjustPercentagesResponse {
	return AdjustPercentagesResponse{
		TechPercent:    s.TechPercent,
		LeadPercent:    s.LeadPercent,
		CompanyPercent: s.CompanyPercent,
		Advisory:       adv,
	}
}
