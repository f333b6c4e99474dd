package safety

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// #region audit-sink

// Invocation records one non-standard mutation for after-the-fact audit.
type Invocation struct {
	Level        Level
	ExperimentID string
	VariantID    string
	AgentID      string
	RemovedTerms []string
	At           time.Time
}

// AuditSink receives every non-standard invocation. The durable sqlite
// implementation lives in internal/audit; tests inject fakes.
type AuditSink interface {
	RecordSafetyInvocation(ctx context.Context, inv Invocation) error
}

// CallContext carries the caller-supplied identifiers attached to each audit
// record.
type CallContext struct {
	ExperimentID string
	VariantID    string
	AgentID      string
}

// #endregion audit-sink

// #region mutator

// Mutator applies level-based prompt mutations. Removal patterns compile once
// per level and are shared read-only.
type Mutator struct {
	log  *zap.Logger
	sink AuditSink

	once     sync.Once
	removals map[Level]*regexp.Regexp
}

// NewMutator creates a mutator. sink may be nil when no durable audit store
// is configured; warnings still go to the logger.
func NewMutator(log *zap.Logger, sink AuditSink) *Mutator {
	return &Mutator{log: log, sink: sink}
}

// Apply mutates the prompt for the given level. Unknown levels fail soft:
// a warning is logged and the prompt passes through as standard.
func (m *Mutator) Apply(ctx context.Context, prompt string, level Level, cc CallContext) string {
	cfg, ok := Levels[level]
	if !ok {
		m.log.Warn("unknown safety level, treating as standard",
			zap.String("level", string(level)),
			zap.String("agent", cc.AgentID))
		return prompt
	}
	if level == LevelStandard {
		return prompt
	}

	// Traceability requirement: every reduced-safety mutation is surfaced
	// with its caller context, not just applied silently.
	m.log.Info("applying non-standard safety level",
		zap.String("level", string(level)),
		zap.String("experiment", cc.ExperimentID),
		zap.String("variant", cc.VariantID),
		zap.String("agent", cc.AgentID))
	if m.sink != nil {
		inv := Invocation{
			Level:        level,
			ExperimentID: cc.ExperimentID,
			VariantID:    cc.VariantID,
			AgentID:      cc.AgentID,
			RemovedTerms: cfg.Removals,
			At:           time.Now().UTC(),
		}
		if err := m.sink.RecordSafetyInvocation(ctx, inv); err != nil {
			m.log.Warn("safety audit write failed", zap.Error(err))
		}
	}

	out := prompt
	if re := m.removalPattern(level); re != nil {
		out = re.ReplaceAllString(out, "")
	}
	out = tidy(out)

	if cfg.Additions != "" {
		out = cfg.Additions + "\n\n" + out
	}
	return out
}

// removalPattern returns the compiled whole-word removal regex for a level,
// or nil when the level removes nothing.
func (m *Mutator) removalPattern(level Level) *regexp.Regexp {
	m.once.Do(func() {
		m.removals = make(map[Level]*regexp.Regexp, len(Levels))
		for lvl, cfg := range Levels {
			if len(cfg.Removals) == 0 {
				continue
			}
			quoted := make([]string, len(cfg.Removals))
			for i, term := range cfg.Removals {
				quoted[i] = regexp.QuoteMeta(term)
			}
			m.removals[lvl] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		}
	})
	return m.removals[level]
}

// #endregion mutator

// #region tidy

var (
	spaceRunRe      = regexp.MustCompile(`[ \t]{2,}`)
	spacePunctRe    = regexp.MustCompile(` +([.,;:!?])`)
	doubledPeriodRe = regexp.MustCompile(`\.{2,}`)
	doubledCommaRe  = regexp.MustCompile(`,{2,}`)
)

// tidy normalizes the whitespace and punctuation artifacts term deletion
// leaves behind.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = spaceRunRe.ReplaceAllString(line, " ")
		line = spacePunctRe.ReplaceAllString(line, "$1")
		line = doubledPeriodRe.ReplaceAllString(line, ".")
		line = doubledCommaRe.ReplaceAllString(line, ",")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// #endregion tidy
