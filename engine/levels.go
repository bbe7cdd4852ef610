package engine

// LevelPolicy is the static policy attached to one risk level: whether
// matching actions may run without sign-off, and who must sign off when they
// may not.
type LevelPolicy struct {
	Level            RiskLevel
	Label            string
	Description      string
	AutoApprove      bool
	RequiredApprover ApproverRole
}

// levelRanks fixes the total order low < medium < high < critical.
var levelRanks = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the level's position in the total order, or -1 for an unknown
// level.
func (l RiskLevel) Rank() int {
	r, ok := levelRanks[l]
	if !ok {
		return -1
	}
	return r
}

// Valid reports whether l is one of the four defined levels.
func (l RiskLevel) Valid() bool { return l.Rank() >= 0 }

// MaxLevel returns the higher of two levels in the lattice order.
func MaxLevel(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// DefaultLevels is the built-in lattice, ordered low to critical.
func DefaultLevels() []LevelPolicy {
	return []LevelPolicy{
		{
			Level:       RiskLow,
			Label:       "Low",
			Description: "Routine change with negligible blast radius; runs without sign-off.",
			AutoApprove: true,
		},
		{
			Level:            RiskMedium,
			Label:            "Medium",
			Description:      "Reversible change that still deserves a human glance.",
			RequiredApprover: RoleUser,
		},
		{
			Level:            RiskHigh,
			Label:            "High",
			Description:      "Hard-to-reverse change; requires explicit human sign-off.",
			RequiredApprover: RoleUser,
		},
		{
			Level:            RiskCritical,
			Label:            "Critical",
			Description:      "Destructive or production-impacting change; senior sign-off only.",
			RequiredApprover: RoleVP,
		},
	}
}

// policyFor looks up the policy for a level in an ordered lattice. Falls back
// to a deny-ish zero policy for unknown levels.
func policyFor(levels []LevelPolicy, l RiskLevel) LevelPolicy {
	for _, p := range levels {
		if p.Level == l {
			return p
		}
	}
	return LevelPolicy{Level: l}
}

// roleCeilings caps the risk level each role may resolve directly. RoleUser
// and RoleVP may resolve anything.
var roleCeilings = map[ApproverRole]RiskLevel{
	RoleLead:    RiskMedium,
	RoleManager: RiskHigh,
	RoleVP:      RiskCritical,
	RoleUser:    RiskCritical,
}

// CanApprove reports whether a role has the authority to directly resolve an
// item at the given level. The queue itself does not enforce this; callers
// gate their UI with it.
func CanApprove(role ApproverRole, level RiskLevel) bool {
	ceiling, ok := roleCeilings[role]
	if !ok {
		return false
	}
	return level.Rank() <= ceiling.Rank()
}

// CommentsRequired reports whether a decision must carry a non-empty comment:
// critical items and any decision exercised as vp.
func CommentsRequired(role ApproverRole, level RiskLevel) bool {
	return level == RiskCritical || role == RoleVP
}
