package engine

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// RiskLevel is the severity assigned to a gated action. Levels form a fixed
// total order: low < medium < high < critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ApproverRole is the authority level of a human decision-maker.
type ApproverRole string

const (
	RoleLead    ApproverRole = "lead"
	RoleManager ApproverRole = "manager"
	RoleVP      ApproverRole = "vp"
	// RoleUser is a human standing in for any role; it may resolve anything.
	RoleUser ApproverRole = "user"
)

// Status is the lifecycle state of a queue item. Approved and rejected are
// terminal; escalated items can still be approved or rejected.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusEscalated Status = "escalated"
)

// ActionInput carries the optional free-text fields a classifier may scan.
type ActionInput struct {
	Description string
	Path        string
}

// Verdict is the outcome of a risk assessment.
type Verdict struct {
	Level            RiskLevel
	AutoApprove      bool
	RequiredApprover ApproverRole
	MatchedRule      *Rule
	Reasons          []string
}

// QueueItem is one request for human sign-off on an action.
type QueueItem struct {
	ID          string
	ActionID    string
	ActionType  string
	Description string
	Level       RiskLevel
	DiffPreview string
	Rationale   string
	BundleID    string
	Status      Status
	CreatedAt   time.Time
}

// Record is the immutable audit entry appended when a queue item is approved
// or rejected.
type Record struct {
	ID         string
	ApprovalID string
	ActionID   string
	ActionType string
	Level      RiskLevel
	Decision   Status
	Approver   string
	Role       ApproverRole
	// Authority is the approver role the item's risk level called for at the
	// time of the decision ("" when the level carried no requirement).
	Authority ApproverRole
	Comments  string
	// EscalationID back-references the escalation this decision resolved,
	// when the item was in the escalated state.
	EscalationID string
	CreatedAt    time.Time
}

// Escalation is the immutable audit entry appended when a queue item is
// routed to higher authority. Resolved is its only mutable field.
type Escalation struct {
	ID          string
	ApprovalID  string
	ActionID    string
	FromLevel   RiskLevel
	EscalatedTo ApproverRole
	Reason      string
	EscalatedBy string
	Resolved    bool
	CreatedAt   time.Time
}

// CreateApprovalRequest holds the fields for a new queue item.
type CreateApprovalRequest struct {
	ActionID    string
	ActionType  string
	Description string
	Level       RiskLevel
	DiffPreview string
	Rationale   string
	BundleID    string
}

// Decision identifies the human acting on a queue item.
type Decision struct {
	Approver string
	Role     ApproverRole
	Comments string
}

// HistoryFilter narrows an approval-record query. Zero values match
// everything; Limit <= 0 means unlimited.
type HistoryFilter struct {
	ActionType string
	Level      RiskLevel
	Approver   string
	Role       ApproverRole
	Since      time.Time
	Until      time.Time
	Limit      int
}

// EscalationFilter narrows an escalation query.
type EscalationFilter struct {
	ActionID        string
	IncludeResolved bool
	Limit           int
}

// BundleOutcome reports what happened to one bundle member during a bulk
// decision.
type BundleOutcome string

const (
	OutcomeApproved BundleOutcome = "approved"
	OutcomeRejected BundleOutcome = "rejected"
	OutcomeVetoed   BundleOutcome = "vetoed"
	OutcomeFailed   BundleOutcome = "failed"
)

// BundleResult is the per-item result of a bulk approve/reject.
type BundleResult struct {
	ApprovalID string
	Outcome    BundleOutcome
	RecordID   string
	Err        error
}

func randHex(nbytes int) string {
	if nbytes <= 0 {
		nbytes = 12
	}
	b := make([]byte, nbytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func newApprovalID() string   { return "apr_" + randHex(12) }
func newRecordID() string     { return "rec_" + randHex(12) }
func newEscalationID() string { return "esc_" + randHex(12) }
func newRuleID() string       { return "rule_" + randHex(12) }
