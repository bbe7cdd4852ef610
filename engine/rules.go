package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Rule is an operator-defined override consulted on every assessment. A rule
// can raise the risk level of matching actions or force them through without
// sign-off.
type Rule struct {
	ID          string
	Name        string
	ActionType  string
	Level       RiskLevel
	AutoApprove bool
	// Pattern is a comma-separated list of simplified globs matched against
	// the action path: "*" matches anything, a trailing "*" matches by
	// prefix, a leading "*" matches by suffix, anything else matches
	// exactly. An empty pattern matches every path.
	Pattern   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RuleUpdate carries the mutable rule fields for an update. Nil pointers
// leave the field untouched.
type RuleUpdate struct {
	Name        *string
	ActionType  *string
	Level       *RiskLevel
	AutoApprove *bool
	Pattern     *string
}

// Matches reports whether the rule's pattern covers the given path.
func (r Rule) Matches(path string) bool {
	return PatternMatches(r.Pattern, path)
}

// PatternMatches evaluates the simplified glob syntax used by rules. The
// syntax is deliberately narrow (universal, prefix, suffix, exact); widening
// it would silently change which actions auto-approve.
func PatternMatches(pattern, path string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return true
	}
	for _, part := range strings.Split(pattern, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if matchGlob(part, path) {
			return true
		}
	}
	return false
}

func matchGlob(glob, path string) bool {
	switch {
	case glob == "*":
		return true
	case strings.HasSuffix(glob, "*"):
		return strings.HasPrefix(path, strings.TrimSuffix(glob, "*"))
	case strings.HasPrefix(glob, "*"):
		return strings.HasSuffix(path, strings.TrimPrefix(glob, "*"))
	default:
		return path == glob
	}
}

func validateRule(r Rule) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: missing rule name", ErrValidation)
	}
	if strings.TrimSpace(r.ActionType) == "" {
		return fmt.Errorf("%w: missing rule action type", ErrValidation)
	}
	if !r.Level.Valid() {
		return fmt.Errorf("%w: invalid risk level %q", ErrValidation, r.Level)
	}
	return nil
}

// defaultRules is the rule set seeded exactly once into an empty store.
func defaultRules(now time.Time) []Rule {
	mk := func(name, actionType string, level RiskLevel, auto bool, pattern string) Rule {
		return Rule{
			ID:          newRuleID(),
			Name:        name,
			ActionType:  actionType,
			Level:       level,
			AutoApprove: auto,
			Pattern:     pattern,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return []Rule{
		mk("Docs and notes writes", "file-write", RiskLow, true, "*.md,*.txt,*.json"),
		mk("Source file writes", "file-write", RiskLow, false, ""),
		mk("Commits", "git-commit", RiskLow, true, ""),
		mk("Pushes", "git-push", RiskMedium, false, ""),
		mk("Merges", "git-merge", RiskHigh, false, ""),
		mk("Command execution", "command-run", RiskMedium, false, ""),
	}
}

// EnsureDefaultRules seeds the default rule set when the store has no rules
// at all. Safe to call on every startup.
func (e *Engine) EnsureDefaultRules(ctx context.Context) error {
	n, err := e.store.CountRules(ctx)
	if err != nil {
		return fmt.Errorf("count rules: %w", err)
	}
	if n > 0 {
		return nil
	}
	seeded := defaultRules(e.now())
	for _, r := range seeded {
		if err := e.store.CreateRule(ctx, r); err != nil {
			return fmt.Errorf("seed rule %q: %w", r.Name, err)
		}
	}
	e.log.Info("engine_seeded_rules", "count", len(seeded))
	return nil
}

// Rules returns every stored rule.
func (e *Engine) Rules(ctx context.Context) ([]Rule, error) {
	return e.store.Rules(ctx)
}

// CreateRule validates and stores a new rule, assigning its id and
// timestamps.
func (e *Engine) CreateRule(ctx context.Context, r Rule) (Rule, error) {
	if err := validateRule(r); err != nil {
		return Rule{}, err
	}
	if strings.TrimSpace(r.ID) == "" {
		r.ID = newRuleID()
	}
	now := e.now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := e.store.CreateRule(ctx, r); err != nil {
		return Rule{}, err
	}
	e.log.Info("rule_created", "rule_id", r.ID, "action_type", r.ActionType, "risk_level", string(r.Level))
	return r, nil
}

// UpdateRule applies the non-nil fields of upd to an existing rule.
func (e *Engine) UpdateRule(ctx context.Context, id string, upd RuleUpdate) (Rule, error) {
	if upd.Name == nil && upd.ActionType == nil && upd.Level == nil && upd.AutoApprove == nil && upd.Pattern == nil {
		return Rule{}, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	r, ok, err := e.store.GetRule(ctx, id)
	if err != nil {
		return Rule{}, err
	}
	if !ok {
		return Rule{}, fmt.Errorf("rule %s: %w", id, ErrNotFound)
	}
	if upd.Name != nil {
		r.Name = *upd.Name
	}
	if upd.ActionType != nil {
		r.ActionType = *upd.ActionType
	}
	if upd.Level != nil {
		r.Level = *upd.Level
	}
	if upd.AutoApprove != nil {
		r.AutoApprove = *upd.AutoApprove
	}
	if upd.Pattern != nil {
		r.Pattern = *upd.Pattern
	}
	if err := validateRule(r); err != nil {
		return Rule{}, err
	}
	r.UpdatedAt = e.now()
	if err := e.store.UpdateRule(ctx, r); err != nil {
		return Rule{}, err
	}
	e.log.Info("rule_updated", "rule_id", r.ID)
	return r, nil
}

// DeleteRule removes a rule by id.
func (e *Engine) DeleteRule(ctx context.Context, id string) error {
	_, ok, err := e.store.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("rule %s: %w", id, ErrNotFound)
	}
	if err := e.store.DeleteRule(ctx, id); err != nil {
		return err
	}
	e.log.Info("rule_deleted", "rule_id", id)
	return nil
}
