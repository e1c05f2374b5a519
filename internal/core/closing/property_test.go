package closing_test

import (
	"math/rand"
	"testing"

	"github.com/SscSPs/job_closing_service/internal/core/closing"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epsilon = decimal.New(1, -2)

func randomMoney(r *rand.Rand, maxCents int64) decimal.Decimal {
	return decimal.New(r.Int63n(maxCents), -2)
}

func randomPayment(r *rand.Rand) domain.Payment {
	methods := []domain.PaymentMethod{domain.Cash, domain.Credit, domain.Check, domain.Zelle}
	m := methods[r.Intn(len(methods))]
	allowed := domain.AllowedCollectors(m)
	return domain.Payment{
		Method:     m,
		Collector:  allowed[r.Intn(len(allowed))],
		Amount:     randomMoney(r, 500000),
		FeePercent: decimal.New(r.Int63n(600), -2),
	}
}

func randomInput(r *rand.Rand) domain.ClosingInput {
	in := domain.ClosingInput{
		Parts: domain.PartsAllocation{
			TechParts:    randomMoney(r, 10000),
			LeadParts:    randomMoney(r, 10000),
			CompanyParts: randomMoney(r, 10000),
		},
		Toggles: domain.PolicyToggles{
			IncludePartsInProfit:     r.Intn(2) == 0,
			ExcludeTechFromParts:     r.Intn(2) == 0,
			LeadSourceOwnedByCompany: r.Intn(2) == 0,
			DisableAutoAdjust:        r.Intn(2) == 0,
		},
	}
	for i := r.Intn(5); i >= 0; i-- {
		in.Payments = append(in.Payments, randomPayment(r))
	}

	tech := decimal.New(r.Int63n(10001), -2)
	lead := decimal.New(r.Int63n(10001-tech.Mul(decimal.NewFromInt(100)).IntPart()), -2)
	in.Commission = domain.CommissionSplit{
		TechPercent:    tech,
		LeadPercent:    lead,
		CompanyPercent: decimal.NewFromInt(100).Sub(tech).Sub(lead),
	}
	if in.Toggles.DisableAutoAdjust {
		// Explicit overrides may leave the triple unbalanced.
		in.Commission.CompanyPercent = decimal.New(r.Int63n(12000)-1000, -2)
	}

	if r.Intn(2) == 0 {
		payer := domain.Technician
		if r.Intn(2) == 0 {
			payer = domain.Company
		}
		in.AdditionalFee = domain.AdditionalFee{Amount: randomMoney(r, 5000), Payer: payer}
	}
	return in
}

func TestProperty_Conservation(t *testing.T) {
	for seed := int64(1); seed <= 500; seed++ {
		r := rand.New(rand.NewSource(seed))
		in := randomInput(r)

		res, err := closing.Compute(in)
		require.NoError(t, err, "seed %d", seed)

		require.Truef(t, res.SumCheck.Abs().LessThanOrEqual(epsilon),
			"seed %d: sumCheck %s out of tolerance", seed, res.SumCheck.String())
		pool := res.AdjustedTotal.Add(res.TotalFees)
		require.Truef(t, res.BaseProfit.Sum().Sub(pool).Abs().LessThanOrEqual(epsilon),
			"seed %d: base profits %s do not partition %s", seed, res.BaseProfit.Sum().String(), pool.String())
	}
}

func TestProperty_BalancesNetToZero(t *testing.T) {
	for seed := int64(1); seed <= 300; seed++ {
		r := rand.New(rand.NewSource(seed))
		in := randomInput(r)
		in.Toggles.ExcludeTechFromParts = false

		res, err := closing.Compute(in)
		require.NoError(t, err)
		require.Truef(t, res.Balance.Sum().Abs().LessThanOrEqual(epsilon),
			"seed %d: balances sum to %s", seed, res.Balance.Sum().String())
	}
}

func TestProperty_Idempotence(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		in := randomInput(r)

		first, err := closing.Compute(in)
		require.NoError(t, err)
		second, err := closing.Compute(in)
		require.NoError(t, err)

		assert.Equal(t, first, second, "seed %d", seed)
	}
}

func TestProperty_CashCreditsTechnician(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		in := randomInput(r)
		cash := randomMoney(r, 100000)
		in.Payments = append(in.Payments, domain.Payment{Method: domain.Cash, Collector: domain.LeadSource, Amount: cash})

		without := in
		without.Payments = in.Payments[:len(in.Payments)-1]

		withRes, err := closing.Compute(in)
		require.NoError(t, err)
		withoutRes, err := closing.Compute(without)
		require.NoError(t, err)

		assert.True(t, withRes.AmountHeldBy.Technician.Sub(withoutRes.AmountHeldBy.Technician).Equal(cash), "seed %d", seed)
		assert.True(t, withRes.AmountHeldBy.LeadSource.Equal(withoutRes.AmountHeldBy.LeadSource), "seed %d", seed)
	}
}

func TestProperty_RoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		in := randomInput(r)

		res, err := closing.Compute(in)
		require.NoError(t, err)

		state := closing.StateFromInput(in)
		rec := closing.ToPersisted("job-1", "tenant-1", state, res, fixedTime, "user-1")
		gotState, gotResult := closing.FromPersisted(rec)

		assert.Equal(t, res, gotResult, "seed %d", seed)
		recomputed, err := closing.Compute(closing.InputFromState(gotState))
		require.NoError(t, err)
		assert.Equal(t, res, recomputed, "seed %d: rehydrated state must reproduce the result", seed)
	}
}
