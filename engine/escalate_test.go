package engine

import (
	"context"
	"errors"
	"testing"
)

func TestEscalatedLevel(t *testing.T) {
	cases := []struct {
		name    string
		current RiskLevel
		to      ApproverRole
		want    RiskLevel
	}{
		{"lead_floors_medium", RiskLow, RoleLead, RiskMedium},
		{"lead_keeps_high", RiskHigh, RoleLead, RiskHigh},
		{"manager_floors_high", RiskLow, RoleManager, RiskHigh},
		{"manager_keeps_critical", RiskCritical, RoleManager, RiskCritical},
		{"vp_forces_critical_from_low", RiskLow, RoleVP, RiskCritical},
		{"vp_forces_critical_from_critical", RiskCritical, RoleVP, RiskCritical},
		{"other_role_unchanged", RiskMedium, RoleUser, RiskMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := escalatedLevel(tc.current, tc.to); got != tc.want {
				t.Fatalf("escalatedLevel(%s, %s) = %s, want %s", tc.current, tc.to, got, tc.want)
			}
		})
	}
}

func TestEscalateUpdatesItemAndAppendsRecord(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_1", ActionType: "git-merge", Level: RiskHigh})

	res, err := eng.Escalate(ctx, it.ID, RoleVP, "needs sign-off", "lead")
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if res.NewLevel != RiskCritical {
		t.Fatalf("new level = %s, want critical", res.NewLevel)
	}
	if res.Escalation.FromLevel != RiskHigh {
		t.Fatalf("from level = %s, want the pre-escalation high", res.Escalation.FromLevel)
	}
	if res.Escalation.Resolved {
		t.Fatal("fresh escalation must be unresolved")
	}

	got, err := eng.GetApproval(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetApproval: %v", err)
	}
	if got.Status != StatusEscalated {
		t.Fatalf("status = %s, want escalated", got.Status)
	}
	if got.Level != RiskCritical {
		t.Fatalf("item level = %s, want critical", got.Level)
	}
}

func TestEscalateUnknownID(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.Escalate(context.Background(), "apr_missing", RoleLead, "", "agent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEscalateDecidedItemIsConflict(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_2", ActionType: "file-write", Level: RiskLow})
	if _, err := eng.Approve(ctx, it.ID, Decision{Approver: "alice", Role: RoleUser}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	_, err := eng.Escalate(ctx, it.ID, RoleLead, "", "agent")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestApproveEscalatedItemResolvesEscalation(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_3", ActionType: "git-push", Level: RiskMedium})
	res, err := eng.Escalate(ctx, it.ID, RoleManager, "not my call", "lead")
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}

	rec, err := eng.Approve(ctx, it.ID, Decision{Approver: "dana", Role: RoleManager})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rec.EscalationID != res.Escalation.ID {
		t.Fatalf("record escalation back-ref = %q, want %q", rec.EscalationID, res.Escalation.ID)
	}
	// Level was floored to high by the manager escalation.
	if rec.Level != RiskHigh {
		t.Fatalf("record level = %s, want high", rec.Level)
	}

	esc, ok, err := store.GetEscalation(ctx, res.Escalation.ID)
	if err != nil || !ok {
		t.Fatalf("GetEscalation: ok=%v err=%v", ok, err)
	}
	if !esc.Resolved {
		t.Fatal("escalation should be resolved by the approval")
	}
}

func TestResolveEscalation(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	it := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_4", ActionType: "command-run", Level: RiskMedium})
	res, err := eng.Escalate(ctx, it.ID, RoleLead, "", "agent")
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}

	if err := eng.ResolveEscalation(ctx, res.Escalation.ID); err != nil {
		t.Fatalf("ResolveEscalation: %v", err)
	}
	// Resolving does not touch the queue item.
	got, _ := eng.GetApproval(ctx, it.ID)
	if got.Status != StatusEscalated {
		t.Fatalf("status = %s, want escalated (resolve must not change it)", got.Status)
	}
	// Idempotent.
	if err := eng.ResolveEscalation(ctx, res.Escalation.ID); err != nil {
		t.Fatalf("ResolveEscalation (second): %v", err)
	}

	if err := eng.ResolveEscalation(ctx, "esc_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEscalationsFilter(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	a := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_a", ActionType: "git-push", Level: RiskMedium})
	b := mustCreate(t, eng, CreateApprovalRequest{ActionID: "act_b", ActionType: "git-push", Level: RiskMedium})

	resA, err := eng.Escalate(ctx, a.ID, RoleLead, "", "agent")
	if err != nil {
		t.Fatalf("Escalate a: %v", err)
	}
	if _, err := eng.Escalate(ctx, b.ID, RoleManager, "", "agent"); err != nil {
		t.Fatalf("Escalate b: %v", err)
	}
	if err := eng.ResolveEscalation(ctx, resA.Escalation.ID); err != nil {
		t.Fatalf("ResolveEscalation: %v", err)
	}

	open, err := eng.Escalations(ctx, EscalationFilter{})
	if err != nil {
		t.Fatalf("Escalations: %v", err)
	}
	if len(open) != 1 || open[0].ActionID != "act_b" {
		t.Fatalf("open escalations = %+v, want just act_b", open)
	}

	all, _ := eng.Escalations(ctx, EscalationFilter{IncludeResolved: true})
	if len(all) != 2 {
		t.Fatalf("all escalations = %d, want 2", len(all))
	}

	byAction, _ := eng.Escalations(ctx, EscalationFilter{ActionID: "act_a", IncludeResolved: true})
	if len(byAction) != 1 || !byAction[0].Resolved {
		t.Fatalf("act_a escalations = %+v", byAction)
	}
}
