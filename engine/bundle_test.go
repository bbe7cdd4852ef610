package engine

import (
	"context"
	"errors"
	"testing"
)

func TestBulkApproveWithVeto(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	item1 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a1", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_1"})
	item2 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a2", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_1"})
	item3 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a3", ActionType: "git-push", Level: RiskMedium, BundleID: "bundle_1"})

	results, err := eng.BulkApprove(ctx, "bundle_1", Decision{Approver: "alice", Role: RoleManager}, []string{item2.ID})
	if err != nil {
		t.Fatalf("BulkApprove: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	// Oldest first, matching bundle order.
	if results[0].ApprovalID != item1.ID || results[1].ApprovalID != item2.ID || results[2].ApprovalID != item3.ID {
		t.Fatalf("results out of bundle order: %+v", results)
	}
	if results[0].Outcome != OutcomeApproved || results[2].Outcome != OutcomeApproved {
		t.Fatalf("non-vetoed outcomes = %s, %s, want approved", results[0].Outcome, results[2].Outcome)
	}
	if results[1].Outcome != OutcomeVetoed {
		t.Fatalf("vetoed outcome = %s, want vetoed", results[1].Outcome)
	}

	// Vetoed item is untouched; the others carry records.
	got2, _ := eng.GetApproval(ctx, item2.ID)
	if got2.Status != StatusPending {
		t.Fatalf("vetoed item status = %s, want pending", got2.Status)
	}
	records, _ := store.Records(ctx, HistoryFilter{})
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
}

func TestBulkApprovePartialFailure(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	item1 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a1", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_2"})
	item2 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a2", ActionType: "db-migration", Level: RiskCritical, BundleID: "bundle_2"})
	item3 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a3", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_2"})

	// No comments: the critical member fails its gate, the rest go through.
	results, err := eng.BulkApprove(ctx, "bundle_2", Decision{Approver: "alice", Role: RoleManager}, nil)
	if err != nil {
		t.Fatalf("BulkApprove: %v", err)
	}
	if results[0].Outcome != OutcomeApproved || results[2].Outcome != OutcomeApproved {
		t.Fatalf("expected surrounding items approved: %+v", results)
	}
	if results[1].Outcome != OutcomeFailed || !errors.Is(results[1].Err, ErrValidation) {
		t.Fatalf("critical member should fail validation: %+v", results[1])
	}

	got1, _ := eng.GetApproval(ctx, item1.ID)
	got2, _ := eng.GetApproval(ctx, item2.ID)
	got3, _ := eng.GetApproval(ctx, item3.ID)
	if got1.Status != StatusApproved || got3.Status != StatusApproved {
		t.Fatalf("approved members not transitioned: %s, %s", got1.Status, got3.Status)
	}
	if got2.Status != StatusPending {
		t.Fatalf("failed member should stay pending, got %s", got2.Status)
	}
}

func TestBulkReject(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	item1 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a1", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_3"})
	item2 := mustCreate(t, eng, CreateApprovalRequest{ActionID: "a2", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_3"})

	results, err := eng.BulkReject(ctx, "bundle_3", Decision{Approver: "bob", Role: RoleUser})
	if err != nil {
		t.Fatalf("BulkReject: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Outcome != OutcomeRejected {
			t.Fatalf("outcome = %s, want rejected", r.Outcome)
		}
	}
	for _, id := range []string{item1.ID, item2.ID} {
		got, _ := eng.GetApproval(ctx, id)
		if got.Status != StatusRejected {
			t.Fatalf("item %s status = %s, want rejected", id, got.Status)
		}
	}
}

func TestBundleApprovalsRequiresID(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.BundleApprovals(context.Background(), "  ")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestBundleMembershipIsScoped(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	mustCreate(t, eng, CreateApprovalRequest{ActionID: "a1", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_x"})
	mustCreate(t, eng, CreateApprovalRequest{ActionID: "a2", ActionType: "file-write", Level: RiskLow, BundleID: "bundle_y"})
	mustCreate(t, eng, CreateApprovalRequest{ActionID: "a3", ActionType: "file-write", Level: RiskLow})

	items, err := eng.BundleApprovals(ctx, "bundle_x")
	if err != nil {
		t.Fatalf("BundleApprovals: %v", err)
	}
	if len(items) != 1 || items[0].ActionID != "a1" {
		t.Fatalf("bundle_x items = %+v", items)
	}
}
