package engine

import (
	"context"
	"fmt"
	"strings"
)

// escalationFloors is the minimum level an item carries after being routed
// to each role. Escalating to vp is an unconditional set to critical; the
// others are floors and never lower an already-higher level.
var escalationFloors = map[ApproverRole]RiskLevel{
	RoleLead:    RiskMedium,
	RoleManager: RiskHigh,
}

// escalatedLevel computes the item's level after escalation to a role.
func escalatedLevel(current RiskLevel, to ApproverRole) RiskLevel {
	if to == RoleVP {
		return RiskCritical
	}
	floor, ok := escalationFloors[to]
	if !ok {
		return current
	}
	return MaxLevel(current, floor)
}

// EscalationResult pairs the appended escalation record with the risk level
// the queue item carries afterwards.
type EscalationResult struct {
	Escalation Escalation
	NewLevel   RiskLevel
}

// Escalate routes a queue item to higher authority. The item's risk level
// is floored by the target role, its status becomes escalated, and an
// escalation record is appended with resolved=false.
func (e *Engine) Escalate(ctx context.Context, id string, to ApproverRole, reason, escalatedBy string) (EscalationResult, error) {
	it, ok, err := e.store.GetItem(ctx, id)
	if err != nil {
		return EscalationResult{}, err
	}
	if !ok {
		return EscalationResult{}, fmt.Errorf("approval %s: %w", id, ErrNotFound)
	}
	if it.Status == StatusApproved || it.Status == StatusRejected {
		return EscalationResult{}, fmt.Errorf("approval %s is already %s: %w", id, it.Status, ErrConflict)
	}
	if strings.TrimSpace(escalatedBy) == "" {
		return EscalationResult{}, fmt.Errorf("%w: missing escalating identity", ErrValidation)
	}

	esc := Escalation{
		ID:          newEscalationID(),
		ApprovalID:  it.ID,
		ActionID:    it.ActionID,
		FromLevel:   it.Level,
		EscalatedTo: to,
		Reason:      reason,
		EscalatedBy: escalatedBy,
		Resolved:    false,
		CreatedAt:   e.now(),
	}
	if err := e.store.AppendEscalation(ctx, esc); err != nil {
		return EscalationResult{}, err
	}

	it.Level = escalatedLevel(it.Level, to)
	it.Status = StatusEscalated
	if err := e.store.UpdateItem(ctx, it); err != nil {
		return EscalationResult{}, err
	}

	e.log.Info("approval_escalated",
		"approval_id", it.ID,
		"escalation_id", esc.ID,
		"escalated_to", string(to),
		"from_level", string(esc.FromLevel),
		"new_level", string(it.Level),
	)
	e.emitAudit(ctx, AuditEvent{
		Kind:       EventEscalated,
		ApprovalID: it.ID,
		ActionID:   it.ActionID,
		ActionType: it.ActionType,
		Level:      it.Level,
		Status:     StatusEscalated,
		Actor:      escalatedBy,
		Role:       to,
		Detail:     reason,
	})
	return EscalationResult{Escalation: esc, NewLevel: it.Level}, nil
}

// ResolveEscalation flips the record's resolved flag. It does not touch the
// related queue item.
func (e *Engine) ResolveEscalation(ctx context.Context, escalationID string) error {
	esc, ok, err := e.store.GetEscalation(ctx, escalationID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("escalation %s: %w", escalationID, ErrNotFound)
	}
	if esc.Resolved {
		return nil
	}
	if err := e.store.MarkEscalationResolved(ctx, esc.ID); err != nil {
		return err
	}
	e.log.Info("escalation_resolved", "escalation_id", esc.ID, "approval_id", esc.ApprovalID)
	return nil
}

// Escalations returns escalation records matching the filter, newest first.
func (e *Engine) Escalations(ctx context.Context, f EscalationFilter) ([]Escalation, error) {
	return e.store.Escalations(ctx, f)
}
