package engine

import (
	"context"
	"errors"
	"testing"
)

func TestCreateApprovalValidation(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateApprovalRequest
	}{
		{"missing_action_id", CreateApprovalRequest{ActionType: "file-write", Level: RiskLow}},
		{"missing_action_type", CreateApprovalRequest{ActionID: "act_1", Level: RiskLow}},
		{"bad_level", CreateApprovalRequest{ActionID: "act_1", ActionType: "file-write", Level: "extreme"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.CreateApproval(ctx, tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestApproveTransitionsAndRecords(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{
		ActionID: "act_1", ActionType: "git-push", Level: RiskMedium, Description: "push feature branch",
	})
	if it.Status != StatusPending {
		t.Fatalf("status = %s, want pending", it.Status)
	}

	rec, err := eng.Approve(ctx, it.ID, Decision{Approver: "alice", Role: RoleManager, Comments: "lgtm"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rec.Decision != StatusApproved {
		t.Fatalf("record decision = %s, want approved", rec.Decision)
	}
	if rec.ApprovalID != it.ID || rec.ActionID != "act_1" || rec.ActionType != "git-push" {
		t.Fatalf("record does not carry the item's identity: %+v", rec)
	}
	if rec.Level != RiskMedium {
		t.Fatalf("record level = %s, want medium", rec.Level)
	}
	if rec.Authority != RoleUser {
		t.Fatalf("record authority = %s, want user (medium's required approver)", rec.Authority)
	}

	got, err := eng.GetApproval(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetApproval: %v", err)
	}
	if got.Status != StatusApproved {
		t.Fatalf("item status = %s, want approved", got.Status)
	}

	records, err := store.Records(ctx, HistoryFilter{})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
}

func TestRejectTransitions(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_2", ActionType: "git-merge", Level: RiskHigh})
	rec, err := eng.Reject(ctx, it.ID, Decision{Approver: "bob", Role: RoleManager})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rec.Decision != StatusRejected {
		t.Fatalf("record decision = %s, want rejected", rec.Decision)
	}
	got, _ := eng.GetApproval(ctx, it.ID)
	if got.Status != StatusRejected {
		t.Fatalf("item status = %s, want rejected", got.Status)
	}
}

func TestDecisionOnUnknownIDIsNotFound(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Approve(ctx, "apr_missing", Decision{Approver: "alice", Role: RoleUser})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	records, _ := store.Records(ctx, HistoryFilter{})
	if len(records) != 0 {
		t.Fatalf("no record should be written on NotFound, got %d", len(records))
	}
}

func TestDoubleTransitionIsConflict(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_3", ActionType: "command-run", Level: RiskMedium})
	if _, err := eng.Approve(ctx, it.ID, Decision{Approver: "alice", Role: RoleUser}); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	_, err := eng.Reject(ctx, it.ID, Decision{Approver: "bob", Role: RoleUser})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	records, _ := store.Records(ctx, HistoryFilter{})
	if len(records) != 1 {
		t.Fatalf("conflicting decision must not append a record; got %d", len(records))
	}
}

func TestCommentsGate(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	critical := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_4", ActionType: "db-migration", Level: RiskCritical})
	_, err := eng.Approve(ctx, critical.ID, Decision{Approver: "alice", Role: RoleUser})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("critical without comments: err = %v, want ErrValidation", err)
	}
	if _, err := eng.Approve(ctx, critical.ID, Decision{Approver: "alice", Role: RoleUser, Comments: "reviewed schema change"}); err != nil {
		t.Fatalf("critical with comments: %v", err)
	}

	low := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_5", ActionType: "file-write", Level: RiskLow})
	_, err = eng.Approve(ctx, low.ID, Decision{Approver: "carol", Role: RoleVP})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("vp without comments: err = %v, want ErrValidation", err)
	}
}

func TestPendingApprovalsOrderAndLimit(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	first := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a1", ActionType: "file-write", Level: RiskLow})
	second := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a2", ActionType: "file-write", Level: RiskLow})
	third := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a3", ActionType: "file-write", Level: RiskLow})

	// A decided item leaves the pending view; an escalated one stays.
	if _, err := eng.Approve(ctx, second.ID, Decision{Approver: "alice", Role: RoleUser}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := eng.Escalate(ctx, first.ID, RoleLead, "second look", "agent"); err != nil {
		t.Fatalf("Escalate: %v", err)
	}

	items, err := eng.PendingApprovals(ctx, 0)
	if err != nil {
		t.Fatalf("PendingApprovals: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("pending count = %d, want 2", len(items))
	}
	if items[0].ID != third.ID || items[1].ID != first.ID {
		t.Fatalf("wrong order: got %s, %s (want newest first)", items[0].ID, items[1].ID)
	}

	limited, err := eng.PendingApprovals(ctx, 1)
	if err != nil {
		t.Fatalf("PendingApprovals(1): %v", err)
	}
	if len(limited) != 1 || limited[0].ID != third.ID {
		t.Fatalf("limit not honored: %+v", limited)
	}
}

func TestHistoryFilters(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	a := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a1", ActionType: "git-push", Level: RiskMedium})
	b := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a2", ActionType: "git-merge", Level: RiskHigh})
	c := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a3", ActionType: "git-push", Level: RiskMedium})

	if _, err := eng.Approve(ctx, a.ID, Decision{Approver: "alice", Role: RoleLead}); err != nil {
		t.Fatalf("Approve a: %v", err)
	}
	if _, err := eng.Reject(ctx, b.ID, Decision{Approver: "bob", Role: RoleManager}); err != nil {
		t.Fatalf("Reject b: %v", err)
	}
	if _, err := eng.Approve(ctx, c.ID, Decision{Approver: "alice", Role: RoleLead}); err != nil {
		t.Fatalf("Approve c: %v", err)
	}

	all, err := eng.History(ctx, HistoryFilter{})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("history count = %d, want 3", len(all))
	}
	// Newest first.
	if all[0].ApprovalID != c.ID || all[2].ApprovalID != a.ID {
		t.Fatalf("history out of order: %s .. %s", all[0].ApprovalID, all[2].ApprovalID)
	}

	byType, _ := eng.History(ctx, HistoryFilter{ActionType: "git-push"})
	if len(byType) != 2 {
		t.Fatalf("git-push records = %d, want 2", len(byType))
	}
	byApprover, _ := eng.History(ctx, HistoryFilter{Approver: "bob"})
	if len(byApprover) != 1 || byApprover[0].Decision != StatusRejected {
		t.Fatalf("bob's records = %+v", byApprover)
	}
	byLevel, _ := eng.History(ctx, HistoryFilter{Level: RiskHigh})
	if len(byLevel) != 1 {
		t.Fatalf("high records = %d, want 1", len(byLevel))
	}
	limited, _ := eng.History(ctx, HistoryFilter{Limit: 2})
	if len(limited) != 2 {
		t.Fatalf("limited records = %d, want 2", len(limited))
	}
}
