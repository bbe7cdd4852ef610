package engine

import (
	"context"
	"fmt"
	"strings"
)

// AssessRisk produces a risk verdict for one intended action. It reads the
// rule store but never writes anything; queueing an approval is the caller's
// move when the verdict says so.
//
// The level starts at the action type's baseline indicator (low when the
// type is unknown), is raised by any higher-level indicator whose keywords
// appear in the description or path, then raised again by matching rules. A
// matching rule with the auto-approve flag wins over the lattice default.
func (e *Engine) AssessRisk(ctx context.Context, actionType string, in ActionInput) (Verdict, error) {
	level := RiskLow
	reasons := []string{}

	for _, ind := range e.indicators {
		if ind.ActionType == actionType {
			level = ind.Level
			reasons = append(reasons, fmt.Sprintf("baseline %s for %s", ind.Level, actionType))
			break
		}
	}

	haystack := strings.ToLower(in.Description + " " + in.Path)
	for _, ind := range e.indicators {
		if ind.ActionType == actionType {
			continue
		}
		if ind.Level.Rank() <= level.Rank() {
			continue
		}
		for _, kw := range ind.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(haystack, strings.ToLower(kw)) {
				reasons = append(reasons, fmt.Sprintf("keyword %q raises to %s", kw, ind.Level))
				level = ind.Level
				break
			}
		}
	}

	rules, err := e.store.RulesByActionType(ctx, actionType)
	if err != nil {
		return Verdict{}, fmt.Errorf("load rules: %w", err)
	}

	// Two passes: first raise the level from every matching rule, then check
	// for an auto-approve override. An auto-approve rule therefore never
	// loses a level raise contributed by a later rule.
	matched := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.Matches(in.Path) {
			continue
		}
		matched = append(matched, r)
		if r.Level.Rank() > level.Rank() {
			reasons = append(reasons, fmt.Sprintf("rule %q raises to %s", r.Name, r.Level))
			level = r.Level
		}
	}
	var v Verdict
	var autoRule *Rule
	for i := range matched {
		if matched[i].AutoApprove {
			autoRule = &matched[i]
			break
		}
	}
	if autoRule != nil {
		reasons = append(reasons, fmt.Sprintf("rule %q auto-approves", autoRule.Name))
		v = Verdict{
			Level:       level,
			AutoApprove: true,
			MatchedRule: autoRule,
			Reasons:     reasons,
		}
	} else {
		pol := policyFor(e.levels, level)
		v = Verdict{
			Level:            level,
			AutoApprove:      pol.AutoApprove,
			RequiredApprover: pol.RequiredApprover,
			Reasons:          reasons,
		}
	}

	e.emitAudit(ctx, AuditEvent{
		Kind:        EventAssessed,
		ActionType:  actionType,
		Level:       level,
		AutoApprove: v.AutoApprove,
		Detail:      strings.Join(reasons, "; "),
	})
	return v, nil
}
