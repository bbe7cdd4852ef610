package engine

import "testing"

func TestRiskLevelOrder(t *testing.T) {
	ordered := []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Rank() < ordered[j].Rank()
			want := i < j
			if got != want {
				t.Fatalf("%s < %s = %v, want %v", ordered[i], ordered[j], got, want)
			}
		}
	}
	if RiskLevel("bogus").Rank() != -1 {
		t.Fatalf("unknown level should rank -1")
	}
}

func TestMaxLevel(t *testing.T) {
	cases := []struct {
		a, b, want RiskLevel
	}{
		{RiskLow, RiskLow, RiskLow},
		{RiskLow, RiskCritical, RiskCritical},
		{RiskHigh, RiskMedium, RiskHigh},
		{RiskCritical, RiskHigh, RiskCritical},
	}
	for _, tc := range cases {
		if got := MaxLevel(tc.a, tc.b); got != tc.want {
			t.Fatalf("MaxLevel(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCanApprove(t *testing.T) {
	cases := []struct {
		name  string
		role  ApproverRole
		level RiskLevel
		want  bool
	}{
		{"lead_low", RoleLead, RiskLow, true},
		{"lead_medium", RoleLead, RiskMedium, true},
		{"lead_high", RoleLead, RiskHigh, false},
		{"lead_critical", RoleLead, RiskCritical, false},
		{"manager_high", RoleManager, RiskHigh, true},
		{"manager_critical", RoleManager, RiskCritical, false},
		{"vp_critical", RoleVP, RiskCritical, true},
		{"user_critical", RoleUser, RiskCritical, true},
		{"unknown_role", ApproverRole("intern"), RiskLow, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanApprove(tc.role, tc.level); got != tc.want {
				t.Fatalf("CanApprove(%s, %s) = %v, want %v", tc.role, tc.level, got, tc.want)
			}
		})
	}
}

func TestCommentsRequired(t *testing.T) {
	if !CommentsRequired(RoleLead, RiskCritical) {
		t.Fatal("critical items require comments")
	}
	if !CommentsRequired(RoleVP, RiskLow) {
		t.Fatal("vp decisions require comments")
	}
	if CommentsRequired(RoleManager, RiskHigh) {
		t.Fatal("manager deciding high should not require comments")
	}
}

func TestDefaultLevelsPolicy(t *testing.T) {
	levels := DefaultLevels()
	if len(levels) != 4 {
		t.Fatalf("expected 4 levels, got %d", len(levels))
	}
	for i, p := range levels {
		if p.Level.Rank() != i {
			t.Fatalf("levels out of lattice order at %d: %s", i, p.Level)
		}
	}
	low := policyFor(levels, RiskLow)
	if !low.AutoApprove || low.RequiredApprover != "" {
		t.Fatalf("low should auto-approve with no required approver, got %+v", low)
	}
	crit := policyFor(levels, RiskCritical)
	if crit.AutoApprove || crit.RequiredApprover != RoleVP {
		t.Fatalf("critical should require vp, got %+v", crit)
	}
}
