package domain

import "time"

// Job is the slice of a dispatched job that the closing engine needs.
// Job CRUD and status workflow live elsewhere; only the lock flag is owned here.
type Job struct {
	JobID        string     `json:"jobId"`        // Primary Key
	TenantID     string     `json:"tenantId"`     // Owning tenant (NON-NULL)
	TechnicianID string     `json:"technicianId"` // Nullable
	LeadSourceID string     `json:"leadSourceId"` // Nullable
	Locked       bool       `json:"locked"`       // Set once the job is closed
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	AuditFields
}
