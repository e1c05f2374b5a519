package models

import "time"

// Job is a row of the jobs table.
// Nullable columns are pointers.
type Job struct {
	JobID        string     `db:"job_id"`
	TenantID     string     `db:"tenant_id"`
	TechnicianID *string    `db:"technician_id"`
	LeadSourceID *string    `db:"lead_source_id"`
	Locked       bool       `db:"locked"`
	ClosedAt     *time.Time `db:"closed_at"`
	AuditFields
}
