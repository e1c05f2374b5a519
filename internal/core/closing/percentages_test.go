package closing_test

import (
	"testing"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/closing"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_SetPercent(t *testing.T) {
	start := split("30", "50", "20")

	tests := []struct {
		name    string
		disable bool
		which   closing.Field
		value   string
		want    domain.CommissionSplit
	}{
		{name: "tech does not cascade", which: closing.FieldTech, value: "40", want: split("40", "50", "20")},
		{name: "lead rebalances company", which: closing.FieldLead, value: "60", want: split("30", "60", "10")},
		{name: "company rebalances lead", which: closing.FieldCompany, value: "35", want: split("30", "35", "35")},
		{name: "negative values pass through", which: closing.FieldLead, value: "80", want: split("30", "80", "-10")},
		{name: "auto adjust disabled sets verbatim", disable: true, which: closing.FieldLead, value: "60", want: split("30", "60", "20")},
		{name: "auto adjust disabled company", disable: true, which: closing.FieldCompany, value: "0", want: split("30", "50", "0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := closing.Coordinator{DisableAutoAdjust: tt.disable}
			got, err := c.SetPercent(start, tt.which, dec(tt.value))
			require.NoError(t, err)
			assertSplit(t, tt.want, got)
		})
	}
}

func TestCoordinator_LeadCascadeIsExact(t *testing.T) {
	c := closing.NewCoordinator(domain.PolicyToggles{})
	cur := split("33.33", "0", "0")
	for _, v := range []string{"0", "12.5", "66.67", "100", "-5", "150"} {
		got, err := c.SetPercent(cur, closing.FieldLead, dec(v))
		require.NoError(t, err)
		assertDecimal(t, dec("100").Sub(cur.TechPercent).Sub(dec(v)).String(), got.CompanyPercent, "company for lead "+v)
	}
}

func TestCoordinator_UnknownField(t *testing.T) {
	_, err := closing.Coordinator{}.SetPercent(split("30", "50", "20"), "referral", dec("5"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCoordinator_Normalize(t *testing.T) {
	c := closing.Coordinator{}
	start := split("30", "50", "20")

	tests := []struct {
		name  string
		which closing.Field
		raw   string
		want  domain.CommissionSplit
	}{
		{name: "blank lead becomes zero", which: closing.FieldLead, raw: "", want: split("30", "0", "70")},
		{name: "garbage company becomes zero", which: closing.FieldCompany, raw: "abc", want: split("30", "70", "0")},
		{name: "percent sign and spaces", which: closing.FieldLead, raw: " 45 % ", want: split("30", "45", "25")},
		{name: "blank tech does not cascade", which: closing.FieldTech, raw: "  ", want: split("0", "50", "20")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Normalize(start, tt.which, tt.raw)
			require.NoError(t, err)
			assertSplit(t, tt.want, got)
		})
	}
}

func TestAdvise(t *testing.T) {
	assert.False(t, closing.Advise(split("30", "50", "20")).HasWarnings())

	adv := closing.Advise(split("110", "-5", "-5"))
	assert.False(t, adv.SumMismatch)
	assert.Equal(t, []domain.Party{domain.Technician, domain.LeadSource, domain.Company}, adv.OutOfRange)

	adv = closing.Advise(split("30", "50", "0"))
	assert.True(t, adv.SumMismatch)
	assert.Empty(t, adv.OutOfRange)
}

func assertSplit(t *testing.T, want, got domain.CommissionSplit) {
	t.Helper()
	assertDecimal(t, want.TechPercent.String(), got.TechPercent, "techPercent")
	assertDecimal(t, want.LeadPercent.String(), got.LeadPercent, "leadPercent")
	assertDecimal(t, want.CompanyPercent.String(), got.CompanyPercent, "companyPercent")
}

func TestParsePercentStrict(t *testing.T) {
	v, err := closing.ParsePercentStrict(" 30% ")
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(v))

	v, err = closing.ParsePercentStrict("")
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = closing.ParsePercentStrict("3o")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, closing.ParsePercent("3o").IsZero())
}
