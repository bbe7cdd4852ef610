package engine

import (
	"context"
	"time"
)

// EventKind names the engine activity an audit event describes.
type EventKind string

const (
	EventAssessed  EventKind = "assessed"
	EventCreated   EventKind = "created"
	EventDecided   EventKind = "decided"
	EventEscalated EventKind = "escalated"
)

// AuditEvent is one line of the decision audit trail.
type AuditEvent struct {
	EventID     string       `json:"event_id"`
	Timestamp   time.Time    `json:"ts"`
	Kind        EventKind    `json:"kind"`
	ApprovalID  string       `json:"approval_id,omitempty"`
	ActionID    string       `json:"action_id,omitempty"`
	ActionType  string       `json:"action_type,omitempty"`
	Level       RiskLevel    `json:"risk_level,omitempty"`
	Status      Status       `json:"status,omitempty"`
	AutoApprove bool         `json:"auto_approve,omitempty"`
	Actor       string       `json:"actor,omitempty"`
	Role        ApproverRole `json:"role,omitempty"`
	Detail      string       `json:"detail,omitempty"`
}

// AuditSink receives engine audit events. Implementations must tolerate
// concurrent callers.
type AuditSink interface {
	Emit(ctx context.Context, e AuditEvent) error
}

// emitAudit sends best-effort; a broken sink never fails the operation.
func (e *Engine) emitAudit(ctx context.Context, ev AuditEvent) {
	if e.audit == nil {
		return
	}
	if ev.EventID == "" {
		ev.EventID = "evt_" + randHex(8)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.now()
	}
	if err := e.audit.Emit(ctx, ev); err != nil {
		e.log.Warn("audit_emit_error", "error", err.Error())
	}
}
