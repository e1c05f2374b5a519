package closing_test

import (
	"testing"
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/closing"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestToPersisted_CanonicalizesPayments(t *testing.T) {
	in := domain.ClosingInput{
		Payments: []domain.Payment{
			{Method: domain.Cash, Collector: domain.Company, Amount: dec("80"), FeePercent: dec("4")},
			{Method: domain.Zelle, Collector: domain.LeadSource, Amount: dec("20"), FeePercent: dec("2")},
		},
		Commission: split("30", "50", "20"),
	}
	res, err := closing.Compute(in)
	require.NoError(t, err)

	rec := closing.ToPersisted("job-9", "tenant-1", closing.StateFromInput(in), res, fixedTime, "user-7")

	assert.Equal(t, "job-9", rec.JobID)
	assert.Equal(t, "tenant-1", rec.TenantID)
	assert.Equal(t, fixedTime, rec.ClosedAt)
	assert.Equal(t, "user-7", rec.ClosedByUserID)
	assert.Equal(t, domain.Technician, rec.Input.Payments[0].Collector)
	assert.True(t, rec.Input.Payments[0].FeePercent.IsZero())
	assert.True(t, rec.Input.Payments[1].FeePercent.IsZero())

	// The caller's input is left untouched.
	assert.Equal(t, domain.Company, in.Payments[0].Collector)
}

func TestFromPersisted_DoesNotRecompute(t *testing.T) {
	in := creditScenario()
	res, err := closing.Compute(in)
	require.NoError(t, err)

	rec := closing.ToPersisted("job-1", "tenant-1", closing.StateFromInput(in), res, fixedTime, "user-1")
	// A stored figure that no longer matches the current engine is shown as saved.
	rec.Result.BaseProfit.Technician = dec("1234.56")

	state, got := closing.FromPersisted(rec)
	assertDecimal(t, "1234.56", got.BaseProfit.Technician, "techProfitBase")
	assert.Equal(t, in.Payments, state.Payments)
	assert.Equal(t, in.Commission, state.Commission)
}

func TestFromPersisted_ReturnsCopies(t *testing.T) {
	in := creditScenario()
	res, err := closing.Compute(in)
	require.NoError(t, err)
	rec := closing.ToPersisted("job-1", "tenant-1", closing.StateFromInput(in), res, fixedTime, "user-1")

	state, _ := closing.FromPersisted(rec)
	state.Payments[0].Amount = dec("1")

	assertDecimal(t, "100", rec.Input.Payments[0].Amount, "stored payment amount")
}
