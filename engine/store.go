package engine

import "context"

// Store is the durable record of rules, queue items, approval records, and
// escalation records. Implementations are expected to make each mutating
// call atomic; the engine assumes a single logical writer and adds no
// locking of its own.
type Store interface {
	// Rules.
	Rules(ctx context.Context) ([]Rule, error)
	RulesByActionType(ctx context.Context, actionType string) ([]Rule, error)
	GetRule(ctx context.Context, id string) (Rule, bool, error)
	CountRules(ctx context.Context) (int64, error)
	CreateRule(ctx context.Context, r Rule) error
	UpdateRule(ctx context.Context, r Rule) error
	DeleteRule(ctx context.Context, id string) error

	// Queue items.
	InsertItem(ctx context.Context, it QueueItem) error
	GetItem(ctx context.Context, id string) (QueueItem, bool, error)
	UpdateItem(ctx context.Context, it QueueItem) error
	PendingItems(ctx context.Context, limit int) ([]QueueItem, error)
	BundleItems(ctx context.Context, bundleID string) ([]QueueItem, error)

	// Approval records (append-only).
	AppendRecord(ctx context.Context, rec Record) error
	Records(ctx context.Context, f HistoryFilter) ([]Record, error)

	// Escalation records (append-only; only the resolved flag mutates).
	AppendEscalation(ctx context.Context, esc Escalation) error
	GetEscalation(ctx context.Context, id string) (Escalation, bool, error)
	MarkEscalationResolved(ctx context.Context, id string) error
	Escalations(ctx context.Context, f EscalationFilter) ([]Escalation, error)
	LatestOpenEscalation(ctx context.Context, approvalID string) (Escalation, bool, error)
}
