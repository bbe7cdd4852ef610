package engine

import (
	"context"
	"fmt"
	"strings"
)

// CreateApproval inserts a new queue item in the pending state and returns
// it. Risk level must be valid; everything else is free-form.
func (e *Engine) CreateApproval(ctx context.Context, req CreateApprovalRequest) (QueueItem, error) {
	if strings.TrimSpace(req.ActionID) == "" {
		return QueueItem{}, fmt.Errorf("%w: missing action id", ErrValidation)
	}
	if strings.TrimSpace(req.ActionType) == "" {
		return QueueItem{}, fmt.Errorf("%w: missing action type", ErrValidation)
	}
	if !req.Level.Valid() {
		return QueueItem{}, fmt.Errorf("%w: invalid risk level %q", ErrValidation, req.Level)
	}

	it := QueueItem{
		ID:          newApprovalID(),
		ActionID:    req.ActionID,
		ActionType:  req.ActionType,
		Description: req.Description,
		Level:       req.Level,
		DiffPreview: req.DiffPreview,
		Rationale:   req.Rationale,
		BundleID:    req.BundleID,
		Status:      StatusPending,
		CreatedAt:   e.now(),
	}
	if err := e.store.InsertItem(ctx, it); err != nil {
		return QueueItem{}, err
	}
	e.log.Info("approval_created",
		"approval_id", it.ID,
		"action_id", it.ActionID,
		"action_type", it.ActionType,
		"risk_level", string(it.Level),
		"bundle_id", it.BundleID,
	)
	e.emitAudit(ctx, AuditEvent{
		Kind:       EventCreated,
		ApprovalID: it.ID,
		ActionID:   it.ActionID,
		ActionType: it.ActionType,
		Level:      it.Level,
		Status:     StatusPending,
	})
	return it, nil
}

// Approve transitions a pending or escalated item to approved and appends
// the matching record. An item already decided fails with ErrConflict.
func (e *Engine) Approve(ctx context.Context, id string, d Decision) (Record, error) {
	return e.decide(ctx, id, StatusApproved, d)
}

// Reject is symmetric to Approve; the item lands in rejected.
func (e *Engine) Reject(ctx context.Context, id string, d Decision) (Record, error) {
	return e.decide(ctx, id, StatusRejected, d)
}

func (e *Engine) decide(ctx context.Context, id string, decision Status, d Decision) (Record, error) {
	it, ok, err := e.store.GetItem(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, fmt.Errorf("approval %s: %w", id, ErrNotFound)
	}
	if it.Status == StatusApproved || it.Status == StatusRejected {
		return Record{}, fmt.Errorf("approval %s is already %s: %w", id, it.Status, ErrConflict)
	}
	if strings.TrimSpace(d.Approver) == "" {
		return Record{}, fmt.Errorf("%w: missing approver", ErrValidation)
	}
	if CommentsRequired(d.Role, it.Level) && strings.TrimSpace(d.Comments) == "" {
		return Record{}, fmt.Errorf("%w: comments required for %s decisions", ErrValidation, it.Level)
	}

	rec := Record{
		ID:         newRecordID(),
		ApprovalID: it.ID,
		ActionID:   it.ActionID,
		ActionType: it.ActionType,
		Level:      it.Level,
		Decision:   decision,
		Approver:   d.Approver,
		Role:       d.Role,
		Authority:  policyFor(e.levels, it.Level).RequiredApprover,
		Comments:   d.Comments,
		CreatedAt:  e.now(),
	}

	// Deciding an escalated item closes out its open escalation.
	if it.Status == StatusEscalated {
		esc, found, err := e.store.LatestOpenEscalation(ctx, it.ID)
		if err != nil {
			return Record{}, err
		}
		if found {
			if err := e.store.MarkEscalationResolved(ctx, esc.ID); err != nil {
				return Record{}, err
			}
			rec.EscalationID = esc.ID
		}
	}

	if err := e.store.AppendRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	it.Status = decision
	if err := e.store.UpdateItem(ctx, it); err != nil {
		return Record{}, err
	}

	e.log.Info("approval_decided",
		"approval_id", it.ID,
		"decision", string(decision),
		"approver", d.Approver,
		"role", string(d.Role),
		"risk_level", string(it.Level),
	)
	e.emitAudit(ctx, AuditEvent{
		Kind:       EventDecided,
		ApprovalID: it.ID,
		ActionID:   it.ActionID,
		ActionType: it.ActionType,
		Level:      it.Level,
		Status:     decision,
		Actor:      d.Approver,
		Role:       d.Role,
	})
	return rec, nil
}

// GetApproval fetches one queue item by id.
func (e *Engine) GetApproval(ctx context.Context, id string) (QueueItem, error) {
	it, ok, err := e.store.GetItem(ctx, id)
	if err != nil {
		return QueueItem{}, err
	}
	if !ok {
		return QueueItem{}, fmt.Errorf("approval %s: %w", id, ErrNotFound)
	}
	return it, nil
}

// PendingApprovals returns items awaiting a decision (pending or escalated),
// newest first. Limit <= 0 means unlimited.
func (e *Engine) PendingApprovals(ctx context.Context, limit int) ([]QueueItem, error) {
	return e.store.PendingItems(ctx, limit)
}

// BundleApprovals returns every item sharing a bundle id, oldest first.
func (e *Engine) BundleApprovals(ctx context.Context, bundleID string) ([]QueueItem, error) {
	if strings.TrimSpace(bundleID) == "" {
		return nil, fmt.Errorf("%w: missing bundle id", ErrValidation)
	}
	return e.store.BundleItems(ctx, bundleID)
}

// History returns approval records matching the filter, newest first.
func (e *Engine) History(ctx context.Context, f HistoryFilter) ([]Record, error) {
	return e.store.Records(ctx, f)
}
