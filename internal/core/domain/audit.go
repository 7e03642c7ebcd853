package domain

import "time"

// AuditAction identifies the kind of mutation recorded in the audit trail.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditEvent records a single record mutation performed by a principal.
type AuditEvent struct {
	Kind      string      // "user" or "item"
	RecordID  int64
	Action    AuditAction
	ActorID   int64
	Actor     string
	Timestamp time.Time
}
