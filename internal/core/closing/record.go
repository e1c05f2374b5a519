package closing

import (
	"time"

	"github.com/SscSPs/job_closing_service/internal/core/domain"
)

// StateFromInput returns the editable form state for a calculator input.
func StateFromInput(in domain.ClosingInput) domain.EditableState {
	return domain.EditableState{
		Payments:      clonePayments(in.Payments),
		Parts:         in.Parts,
		Commission:    in.Commission,
		AdditionalFee: in.AdditionalFee,
		Toggles:       in.Toggles,
	}
}

// InputFromState returns the calculator input for an editable form state.
func InputFromState(s domain.EditableState) domain.ClosingInput {
	return domain.ClosingInput{
		Payments:      clonePayments(s.Payments),
		Parts:         s.Parts,
		Commission:    s.Commission,
		AdditionalFee: s.AdditionalFee,
		Toggles:       s.Toggles,
	}
}

// ToPersisted builds the closing record for a confirmed result.
// Payments are stored in canonical form so a reload shows what was computed.
func ToPersisted(jobID, tenantID string, state domain.EditableState, result domain.ClosingResult, closedAt time.Time, closedByUserID string) domain.ClosingRecord {
	in := InputFromState(state)
	for i, p := range in.Payments {
		in.Payments[i] = p.Normalized()
	}
	return domain.ClosingRecord{
		JobID:          jobID,
		TenantID:       tenantID,
		Input:          in,
		Result:         cloneResult(result),
		ClosedAt:       closedAt,
		ClosedByUserID: closedByUserID,
	}
}

// FromPersisted restores the editable state and the stored result of a closing record.
// Nothing is recomputed.
func FromPersisted(rec domain.ClosingRecord) (domain.EditableState, domain.ClosingResult) {
	return StateFromInput(rec.Input), cloneResult(rec.Result)
}

func clonePayments(ps []domain.Payment) []domain.Payment {
	if ps == nil {
		return nil
	}
	out := make([]domain.Payment, len(ps))
	copy(out, ps)
	return out
}

func cloneResult(r domain.ClosingResult) domain.ClosingResult {
	if r.Advisory.OutOfRange != nil {
		r.Advisory.OutOfRange = append([]domain.Party(nil), r.Advisory.OutOfRange...)
	}
	return r
}
