// Package closing implements the job closing split engine: it partitions a
// completed job's money among the technician, the lead source and the company.
package closing

import (
	"fmt"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultEpsilon is the largest |sumCheck| accepted as reconciled.
var DefaultEpsilon = decimal.New(1, -2)

// Options holds engine-wide policy that is not a per-job toggle.
type Options struct {
	// Epsilon is the reconciliation tolerance.
	Epsilon decimal.Decimal
	// ChargeExcludedPartsTwice subtracts lead and company parts a second time
	// from their balances when ExcludeTechFromParts is on.
	ChargeExcludedPartsTwice bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Epsilon:                  DefaultEpsilon,
		ChargeExcludedPartsTwice: true,
	}
}

// Calculator computes closing results. It holds no per-call state and is safe for concurrent use.
type Calculator struct {
	opts Options
}

// NewCalculator creates a Calculator with the given options.
func NewCalculator(opts Options) *Calculator {
	if opts.Epsilon.IsZero() || opts.Epsilon.IsNegative() {
		opts.Epsilon = DefaultEpsilon
	}
	return &Calculator{opts: opts}
}

// Compute runs the split with DefaultOptions.
func Compute(in domain.ClosingInput) (domain.ClosingResult, error) {
	return NewCalculator(DefaultOptions()).Compute(in)
}

// Epsilon returns the reconciliation tolerance in use.
func (c *Calculator) Epsilon() decimal.Decimal {
	return c.opts.Epsilon
}

// Reconciled reports whether the result's sumCheck is within tolerance.
func (c *Calculator) Reconciled(r domain.ClosingResult) bool {
	return r.SumCheck.Abs().LessThanOrEqual(c.opts.Epsilon)
}

// Compute partitions the job's money. The only errors are invalid
// method/collector pairings; numeric input is never rejected.
func (c *Calculator) Compute(in domain.ClosingInput) (domain.ClosingResult, error) {
	if err := validateInput(in); err != nil {
		return domain.ClosingResult{}, err
	}

	res := domain.ClosingResult{Commission: in.Commission}

	// 1. Aggregate payments.
	for _, raw := range in.Payments {
		p := raw.Normalized()
		res.TotalAmount = res.TotalAmount.Add(p.Amount)
		switch p.Method {
		case domain.Cash:
			res.CashTotal = res.CashTotal.Add(p.Amount)
		case domain.Credit:
			res.CreditTotal = res.CreditTotal.Add(p.Amount)
		case domain.Check:
			res.CheckTotal = res.CheckTotal.Add(p.Amount)
		case domain.Zelle:
			res.ZelleTotal = res.ZelleTotal.Add(p.Amount)
		}
		res.AmountHeldBy.Add(p.Collector, p.Amount)

		if p.Method.CarriesFee() {
			fee := p.Fee()
			res.TotalFees = res.TotalFees.Add(fee)
			res.FeeCreditedTo.Add(p.Collector, fee)
		}
	}

	// 2-3. Parts and the commissionable pool.
	res.TotalParts = in.Parts.Total()
	res.AdjustedTotal = res.TotalAmount.Sub(res.TotalParts).Sub(res.TotalFees)

	// 4. Base shares. The company keeps whatever the tech and lead shares leave.
	techPool := res.AdjustedTotal
	if in.Toggles.ExcludeTechFromParts {
		techPool = res.TotalAmount.Sub(in.Parts.TechParts).Sub(res.TotalFees)
	}
	techShare := share(techPool, in.Commission.TechPercent)
	leadShare := share(res.AdjustedTotal, in.Commission.LeadPercent)
	base := domain.PartyAmounts{
		Technician: techShare,
		LeadSource: leadShare,
		Company:    res.AdjustedTotal.Sub(techShare).Sub(leadShare),
	}

	// 5. Whoever fronted a processing fee gets it back.
	for _, party := range domain.Parties {
		base.Add(party, res.FeeCreditedTo.Get(party))
	}

	// 6. The additional fee moves money from its payer to the lead source.
	if !in.AdditionalFee.Amount.IsZero() {
		base.Add(domain.LeadSource, in.AdditionalFee.Amount)
		base.Add(in.AdditionalFee.Payer, in.AdditionalFee.Amount.Neg())
	}

	// 7. Base profits are final from here on.
	res.BaseProfit = base

	// 8. Display profits.
	display := base
	if in.Toggles.IncludePartsInProfit {
		for _, party := range domain.Parties {
			display.Add(party, in.Parts.For(party))
		}
	}
	if in.Toggles.LeadSourceOwnedByCompany {
		display.Company = display.Company.Add(display.LeadSource)
		display.LeadSource = decimal.Zero
	}
	res.DisplayProfit = display

	// 9. Balances: cash held minus what the party keeps.
	for _, party := range domain.Parties {
		res.Balance.Add(party, res.AmountHeldBy.Get(party).Sub(base.Get(party)).Sub(in.Parts.For(party)))
	}
	if in.Toggles.ExcludeTechFromParts && c.opts.ChargeExcludedPartsTwice {
		res.Balance.Add(domain.LeadSource, in.Parts.LeadParts.Neg())
		res.Balance.Add(domain.Company, in.Parts.CompanyParts.Neg())
	}

	// 10. Reconciliation: the base profits must partition the pool plus the reimbursed fees.
	res.SumCheck = base.Sum().Sub(res.AdjustedTotal).Sub(res.FeeCreditedTo.Sum())

	res.Advisory = Advise(in.Commission)
	return res, nil
}

func share(pool, percent decimal.Decimal) decimal.Decimal {
	return pool.Mul(percent).Div(hundred)
}

func validateInput(in domain.ClosingInput) error {
	for i, p := range in.Payments {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: payment %d: %s", apperrors.ErrValidation, i, err.Error())
		}
	}
	if err := in.AdditionalFee.Validate(); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}
