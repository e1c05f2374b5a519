package closing

import (
	"fmt"
	"strings"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Field names one of the three commission percentages.
type Field string

const (
	FieldTech    Field = "tech"
	FieldLead    Field = "lead"
	FieldCompany Field = "company"
)

// IsValid reports whether f is a known percentage field.
func (f Field) IsValid() bool {
	return f == FieldTech || f == FieldLead || f == FieldCompany
}

// Coordinator keeps the tech/lead/company triple consistent while one field is edited.
// The technician percentage is the independent variable; lead and company balance each other.
type Coordinator struct {
	DisableAutoAdjust bool
}

// NewCoordinator returns a Coordinator honoring the job's auto-adjust toggle.
func NewCoordinator(toggles domain.PolicyToggles) Coordinator {
	return Coordinator{DisableAutoAdjust: toggles.DisableAutoAdjust}
}

// SetPercent sets which to value and, unless auto-adjust is disabled, re-balances the other field.
// Values are not clamped.
func (c Coordinator) SetPercent(cur domain.CommissionSplit, which Field, value decimal.Decimal) (domain.CommissionSplit, error) {
	next := cur
	switch which {
	case FieldTech:
		next.TechPercent = value
	case FieldLead:
		next.LeadPercent = value
		if !c.DisableAutoAdjust {
			next.CompanyPercent = hundred.Sub(next.TechPercent).Sub(value)
		}
	case FieldCompany:
		next.CompanyPercent = value
		if !c.DisableAutoAdjust {
			next.LeadPercent = hundred.Sub(next.TechPercent).Sub(value)
		}
	default:
		return cur, fmt.Errorf("%w: unknown percentage field '%s'", apperrors.ErrValidation, which)
	}
	return next, nil
}

// Normalize runs when a percentage field loses focus. Blank or unparsable text becomes zero,
// then the same cascade as SetPercent is applied.
func (c Coordinator) Normalize(cur domain.CommissionSplit, which Field, raw string) (domain.CommissionSplit, error) {
	return c.SetPercent(cur, which, ParsePercent(raw))
}

// ParsePercent parses free-form percentage text, treating blank or invalid input as zero.
func ParsePercent(raw string) decimal.Decimal {
	d, err := ParsePercentStrict(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePercentStrict parses percentage text such as "40", " 12.5 " or "30%".
// Blank text is zero; anything else that is not a number is an error.
func ParsePercentStrict(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid percentage '%s'", apperrors.ErrValidation, raw)
	}
	return d, nil
}

// Advise flags percentages outside [0, 100] and triples that do not sum to 100.
func Advise(split domain.CommissionSplit) domain.PercentAdvisory {
	var adv domain.PercentAdvisory
	check := func(party domain.Party, v decimal.Decimal) {
		if v.IsNegative() || v.GreaterThan(hundred) {
			adv.OutOfRange = append(adv.OutOfRange, party)
		}
	}
	check(domain.Technician, split.TechPercent)
	check(domain.LeadSource, split.LeadPercent)
	check(domain.Company, split.CompanyPercent)
	adv.SumMismatch = !split.Sum().Equal(hundred)
	return adv
}
