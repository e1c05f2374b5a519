package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the instrument a customer paid with.
type PaymentMethod string

const (
	Cash   PaymentMethod = "cash"
	Credit PaymentMethod = "credit"
	Check  PaymentMethod = "check"
	Zelle  PaymentMethod = "zelle"
)

// Party is one of the three participants in a job's money split.
type Party string

const (
	Technician Party = "technician"
	Company    Party = "company"
	LeadSource Party = "lead_source"
)

// Parties lists the split participants in their canonical order.
var Parties = []Party{Technician, LeadSource, Company}

var allowedCollectors = map[PaymentMethod][]Party{
	Cash:   {Technician},
	Credit: {Technician, Company, LeadSource},
	Check:  {Company, LeadSource},
	Zelle:  {Company, LeadSource},
}

// AllowedCollectors returns the parties that may hold money paid with m.
func AllowedCollectors(m PaymentMethod) []Party {
	return allowedCollectors[m]
}

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	_, ok := allowedCollectors[m]
	return ok
}

// CarriesFee reports whether payments made with m incur a processing fee.
func (m PaymentMethod) CarriesFee() bool {
	return m == Credit || m == Check
}

// IsValid reports whether p is one of the three split parties.
func (p Party) IsValid() bool {
	return p == Technician || p == Company || p == LeadSource
}

// Payment is one entry in the ordered list of payments attached to a job closing.
type Payment struct {
	Method     PaymentMethod   `json:"method"`
	Collector  Party           `json:"collector"`
	Amount     decimal.Decimal `json:"amount"`
	FeePercent decimal.Decimal `json:"feePercent"`
}

// EffectiveCollector returns the party that actually holds the money.
// Cash is always held by the technician, whatever collector was stated.
func (p Payment) EffectiveCollector() Party {
	if p.Method == Cash {
		return Technician
	}
	return p.Collector
}

// Fee returns the processing fee for the payment. Only credit and check carry one.
func (p Payment) Fee() decimal.Decimal {
	if !p.Method.CarriesFee() {
		return decimal.Zero
	}
	return p.Amount.Mul(p.FeePercent).Div(hundred)
}

// Validate checks the payment's method and collector pairing.
// A cash payment is never rejected for its collector; it is coerced instead.
func (p Payment) Validate() error {
	if !p.Method.IsValid() {
		return fmt.Errorf("unknown payment method '%s'", p.Method)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("payment amount must not be negative, got %s", p.Amount.String())
	}
	if p.Method == Cash {
		return nil
	}
	for _, allowed := range allowedCollectors[p.Method] {
		if p.Collector == allowed {
			return nil
		}
	}
	return fmt.Errorf("collector '%s' is not allowed for %s payments", p.Collector, p.Method)
}

// Normalized returns a copy with the canonical collector and without a fee for fee-less methods.
func (p Payment) Normalized() Payment {
	p.Collector = p.EffectiveCollector()
	if !p.Method.CarriesFee() {
		p.FeePercent = decimal.Zero
	}
	return p
}

// PartsAllocation is the cost of physical parts charged against each party's share.
type PartsAllocation struct {
	TechParts    decimal.Decimal `json:"techParts"`
	LeadParts    decimal.Decimal `json:"leadParts"`
	CompanyParts decimal.Decimal `json:"companyParts"`
}

// Total returns the sum of all three parties' parts.
func (p PartsAllocation) Total() decimal.Decimal {
	return p.TechParts.Add(p.LeadParts).Add(p.CompanyParts)
}

// For returns the parts charged to party.
func (p PartsAllocation) For(party Party) decimal.Decimal {
	switch party {
	case Technician:
		return p.TechParts
	case LeadSource:
		return p.LeadParts
	case Company:
		return p.CompanyParts
	}
	return decimal.Zero
}

// CommissionSplit holds the three commission percentages.
type CommissionSplit struct {
	TechPercent    decimal.Decimal `json:"techPercent"`
	LeadPercent    decimal.Decimal `json:"leadPercent"`
	CompanyPercent decimal.Decimal `json:"companyPercent"`
}

// Sum returns tech + lead + company.
func (c CommissionSplit) Sum() decimal.Decimal {
	return c.TechPercent.Add(c.LeadPercent).Add(c.CompanyPercent)
}

// AdditionalFee is a fixed per-job charge credited to the lead source and debited from the payer.
type AdditionalFee struct {
	Amount decimal.Decimal `json:"amount"`
	Payer  Party           `json:"payer"`
}

// Validate checks that the payer is the technician or the company.
func (f AdditionalFee) Validate() error {
	if f.Amount.IsZero() && f.Payer == "" {
		return nil
	}
	if f.Payer != Technician && f.Payer != Company {
		return fmt.Errorf("additional fee payer must be technician or company, got '%s'", f.Payer)
	}
	return nil
}

// PolicyToggles are the per-job policy switches of a closing.
type PolicyToggles struct {
	IncludePartsInProfit     bool `json:"includePartsInProfit"`
	ExcludeTechFromParts     bool `json:"excludeTechFromParts"`
	LeadSourceOwnedByCompany bool `json:"leadSourceOwnedByCompany"`
	DisableAutoAdjust        bool `json:"disableAutoAdjust"`
}

// ClosingInput is the full snapshot the split calculator is invoked with.
type ClosingInput struct {
	Payments      []Payment       `json:"payments"`
	Parts         PartsAllocation `json:"parts"`
	Commission    CommissionSplit `json:"commission"`
	AdditionalFee AdditionalFee   `json:"additionalFee"`
	Toggles       PolicyToggles   `json:"toggles"`
}

// PartyAmounts is a per-party money breakdown.
type PartyAmounts struct {
	Technician decimal.Decimal `json:"technician"`
	LeadSource decimal.Decimal `json:"leadSource"`
	Company    decimal.Decimal `json:"company"`
}

// Get returns the amount for party.
func (a PartyAmounts) Get(party Party) decimal.Decimal {
	switch party {
	case Technician:
		return a.Technician
	case LeadSource:
		return a.LeadSource
	case Company:
		return a.Company
	}
	return decimal.Zero
}

// Add adds v to party's amount.
func (a *PartyAmounts) Add(party Party, v decimal.Decimal) {
	switch party {
	case Technician:
		a.Technician = a.Technician.Add(v)
	case LeadSource:
		a.LeadSource = a.LeadSource.Add(v)
	case Company:
		a.Company = a.Company.Add(v)
	}
}

// Sum returns the total across all parties.
func (a PartyAmounts) Sum() decimal.Decimal {
	return a.Technician.Add(a.LeadSource).Add(a.Company)
}

// ClosingResult is the computed, immutable output of a closing.
type ClosingResult struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CashTotal     decimal.Decimal `json:"cashTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	CheckTotal    decimal.Decimal `json:"checkTotal"`
	ZelleTotal    decimal.Decimal `json:"zelleTotal"`
	TotalFees     decimal.Decimal `json:"totalFees"`
	TotalParts    decimal.Decimal `json:"totalParts"`
	AdjustedTotal decimal.Decimal `json:"adjustedTotal"`

	Commission CommissionSplit `json:"commission"`

	AmountHeldBy  PartyAmounts `json:"amountHeldBy"`
	FeeCreditedTo PartyAmounts `json:"feeCreditedTo"`

	// BaseProfit.Company is the snapshot taken before display adjustments.
	BaseProfit    PartyAmounts `json:"baseProfit"`
	DisplayProfit PartyAmounts `json:"displayProfit"`
	Balance       PartyAmounts `json:"balance"`

	SumCheck decimal.Decimal `json:"sumCheck"`
	Advisory PercentAdvisory `json:"advisory"`
}

// PercentAdvisory flags commission percentages a user should double check.
// None of these conditions rejects a closing.
type PercentAdvisory struct {
	OutOfRange  []Party `json:"outOfRange,omitempty"`
	SumMismatch bool    `json:"sumMismatch"`
}

// HasWarnings reports whether any advisory flag is set.
func (a PercentAdvisory) HasWarnings() bool {
	return a.SumMismatch || len(a.OutOfRange) > 0
}

// EditableState is everything the closing form lets a user edit.
type EditableState struct {
	Payments      []Payment       `json:"payments"`
	Parts         PartsAllocation `json:"parts"`
	Commission    CommissionSplit `json:"commission"`
	AdditionalFee AdditionalFee   `json:"additionalFee"`
	Toggles       PolicyToggles   `json:"toggles"`
}

// ClosingRecord is the persisted closing of a job: the inputs plus the result that was confirmed.
type ClosingRecord struct {
	ClosingID      string        `json:"closingId"`
	JobID          string        `json:"jobId"`
	TenantID       string        `json:"tenantId"`
	Input          ClosingInput  `json:"input"`
	Result         ClosingResult `json:"result"`
	ClosedAt       time.Time     `json:"closedAt"`
	ClosedByUserID string        `json:"closedByUserId"`
	AuditFields
}

var hundred = decimal.NewFromInt(100)

// ClosingView is a stored closing as shown on a job's closing panel.
type ClosingView struct {
	JobID          string        `json:"jobId"`
	Locked         bool          `json:"locked"`
	ClosedAt       time.Time     `json:"closedAt"`
	ClosedByUserID string        `json:"closedByUserId"`
	State          EditableState `json:"state"`
	Result         ClosingResult `json:"result"`
}
