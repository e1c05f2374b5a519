package mapping

import (
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	"github.com/SscSPs/job_closing_service/internal/models"
)

// ToModelJob converts a domain Job to a model Job
func ToModelJob(d domain.Job) models.Job {
	return models.Job{
		JobID:        d.JobID,
		TenantID:     d.TenantID,
		TechnicianID: nullableString(d.TechnicianID),
		LeadSourceID: nullableString(d.LeadSourceID),
		Locked:       d.Locked,
		ClosedAt:     d.ClosedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJob converts a model Job to a domain Job
func ToDomainJob(m models.Job) domain.Job {
	return domain.Job{
		JobID:        m.JobID,
		TenantID:     m.TenantID,
		TechnicianID: derefString(m.TechnicianID),
		LeadSourceID: derefString(m.LeadSourceID),
		Locked:       m.Locked,
		ClosedAt:     m.ClosedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
