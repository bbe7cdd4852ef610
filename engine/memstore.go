package engine

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and for embedding the engine
// without a database. Not durable.
type MemoryStore struct {
	mu          sync.Mutex
	seq         int64
	rules       []Rule
	items       []QueueItem
	itemSeq     map[string]int64
	records     []Record
	recordSeq   map[string]int64
	escalations []Escalation
	escSeq      map[string]int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		itemSeq:   map[string]int64{},
		recordSeq: map[string]int64{},
		escSeq:    map[string]int64{},
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *MemoryStore) Rules(ctx context.Context) ([]Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *MemoryStore) RulesByActionType(ctx context.Context, actionType string) ([]Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Rule
	for _, r := range s.rules {
		if r.ActionType == actionType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetRule(ctx context.Context, id string) (Rule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Rule{}, false, nil
}

func (s *MemoryStore) CountRules(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rules)), nil
}

func (s *MemoryStore) CreateRule(ctx context.Context, r Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, r)
	return nil
}

func (s *MemoryStore) UpdateRule(ctx context.Context, r Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == r.ID {
			s.rules[i] = r
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) InsertItem(ctx context.Context, it QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, it)
	s.itemSeq[it.ID] = s.nextSeq()
	return nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id string) (QueueItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return QueueItem{}, false, nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, it QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == it.ID {
			s.items[i] = it
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) PendingItems(ctx context.Context, limit int) ([]QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []QueueItem
	for _, it := range s.items {
		if it.Status == StatusPending || it.Status == StatusEscalated {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.itemSeq[out[i].ID] > s.itemSeq[out[j].ID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) BundleItems(ctx context.Context, bundleID string) ([]QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []QueueItem
	for _, it := range s.items {
		if it.BundleID == bundleID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.itemSeq[out[i].ID] < s.itemSeq[out[j].ID]
	})
	return out, nil
}

func (s *MemoryStore) AppendRecord(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.recordSeq[rec.ID] = s.nextSeq()
	return nil
}

func (s *MemoryStore) Records(ctx context.Context, f HistoryFilter) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if f.ActionType != "" && rec.ActionType != f.ActionType {
			continue
		}
		if f.Level != "" && rec.Level != f.Level {
			continue
		}
		if f.Approver != "" && rec.Approver != f.Approver {
			continue
		}
		if f.Role != "" && rec.Role != f.Role {
			continue
		}
		if !f.Since.IsZero() && rec.CreatedAt.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && rec.CreatedAt.After(f.Until) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.recordSeq[out[i].ID] > s.recordSeq[out[j].ID]
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) AppendEscalation(ctx context.Context, esc Escalation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.escalations = append(s.escalations, esc)
	s.escSeq[esc.ID] = s.nextSeq()
	return nil
}

func (s *MemoryStore) GetEscalation(ctx context.Context, id string) (Escalation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, esc := range s.escalations {
		if esc.ID == id {
			return esc, true, nil
		}
	}
	return Escalation{}, false, nil
}

func (s *MemoryStore) MarkEscalationResolved(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.escalations {
		if s.escalations[i].ID == id {
			s.escalations[i].Resolved = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Escalations(ctx context.Context, f EscalationFilter) ([]Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Escalation
	for _, esc := range s.escalations {
		if f.ActionID != "" && esc.ActionID != f.ActionID {
			continue
		}
		if !f.IncludeResolved && esc.Resolved {
			continue
		}
		out = append(out, esc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.escSeq[out[i].ID] > s.escSeq[out[j].ID]
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) LatestOpenEscalation(ctx context.Context, approvalID string) (Escalation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		best    Escalation
		bestSeq int64 = -1
	)
	for _, esc := range s.escalations {
		if esc.ApprovalID != approvalID || esc.Resolved {
			continue
		}
		if s.escSeq[esc.ID] > bestSeq {
			best = esc
			bestSeq = s.escSeq[esc.ID]
		}
	}
	return best, bestSeq >= 0, nil
}
