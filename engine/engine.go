// Package engine implements rule-driven risk classification for automated
// actions and the approval, escalation, and bundle-decision workflow that
// gates them.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Engine ties the static tables, the rule store, and the approval queue
// together. Construct one per store; there is no process-wide instance.
type Engine struct {
	store      Store
	levels     []LevelPolicy
	indicators []Indicator
	audit      AuditSink
	log        *slog.Logger
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLevels substitutes the risk-level lattice. Intended for tests.
func WithLevels(levels []LevelPolicy) Option {
	return func(e *Engine) { e.levels = levels }
}

// WithIndicators substitutes the indicator table. Intended for tests.
func WithIndicators(indicators []Indicator) Option {
	return func(e *Engine) { e.indicators = indicators }
}

// WithAuditSink attaches a sink receiving one event per verdict and per
// queue transition. Sink failures are logged, never fatal.
func WithAuditSink(sink AuditSink) Option {
	return func(e *Engine) { e.audit = sink }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock substitutes the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine over the given store. The store is not touched; call
// EnsureDefaultRules to seed an empty rule set.
func New(store Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("nil store")
	}
	e := &Engine{
		store:      store,
		levels:     DefaultLevels(),
		indicators: DefaultIndicators(),
		log:        slog.Default(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e, nil
}

// RiskLevels returns the static lattice, ordered low to critical.
func (e *Engine) RiskLevels() []LevelPolicy {
	out := make([]LevelPolicy, len(e.levels))
	copy(out, e.levels)
	return out
}
