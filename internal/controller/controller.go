// Package controller composes the decision economy: heuristic gate first,
// then the semantic cache, and only then a model call. The gate and cache
// exist to keep model traffic down; nothing in here may fail a tick.
package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/audit"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/decisioncache"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/heuristic"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/safety"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/vocabulary"
)

// #region auditor

// DecisionAuditor persists provenance rows. Nil-able; a missing auditor only
// loses traceability, never decisions.
type DecisionAuditor interface {
	RecordDecision(ctx context.Context, rec audit.DecisionRecord) error
}

// #endregion auditor

// #region controller-struct

// Options carries the experiment knobs the caller selects per deployment.
type Options struct {
	SafetyLevel  safety.Level
	ExperimentID string
	VariantID    string
}

// Controller is the per-process decision pipeline. Safe for concurrent use
// across agents; there is no cross-agent ordering.
type Controller struct {
	gate    *heuristic.Gate
	cache   *decisioncache.Store
	decide  DecideFunc
	vocab   *vocabulary.Engine
	mutator *safety.Mutator
	auditor DecisionAuditor
	usage   *UsageStats
	log     *zap.Logger
	opts    Options
}

// New wires a controller. decide is required; auditor may be nil.
func New(
	gate *heuristic.Gate,
	cache *decisioncache.Store,
	decide DecideFunc,
	vocab *vocabulary.Engine,
	mutator *safety.Mutator,
	auditor DecisionAuditor,
	usage *UsageStats,
	log *zap.Logger,
	opts Options,
) *Controller {
	if opts.SafetyLevel == "" {
		opts.SafetyLevel = safety.LevelStandard
	}
	return &Controller{
		gate:    gate,
		cache:   cache,
		decide:  decide,
		vocab:   vocab,
		mutator: mutator,
		auditor: auditor,
		usage:   usage,
		log:     log,
		opts:    opts,
	}
}

// #endregion controller-struct

// #region decide

// Decide produces one agent-tick decision. It never returns an error: the
// worst cases are a slower tick (model fallback) or a rule decision when the
// model itself is down.
func (c *Controller) Decide(ctx context.Context, obs *observation.Observation, providerID string) Result {
	outcome := c.gate.Evaluate(obs)
	if outcome.Handled {
		c.usage.heuristic.Add(1)
		c.record(ctx, obs, providerID, Result{
			Decision: outcome.Decision,
			Source:   SourceHeuristic,
			Reason:   string(outcome.Reason),
		})
		return Result{Decision: outcome.Decision, Source: SourceHeuristic, Reason: string(outcome.Reason)}
	}
	c.usage.model.Add(1)

	if d, ok := c.cache.Get(ctx, providerID, obs); ok {
		res := Result{Decision: d, Source: SourceCache, Reason: string(outcome.Reason)}
		c.record(ctx, obs, providerID, res)
		return res
	}

	prompt := c.buildModelPrompt(ctx, obs)
	d, err := c.decide(ctx, prompt, obs)
	if err != nil {
		// Model down: the rule decision is the last resort. Not cached, so
		// the next tick tries the model again.
		c.log.Warn("model call failed, serving rule fallback",
			zap.String("agent", obs.Self.ID),
			zap.String("provider", providerID),
			zap.Error(err))
		res := Result{Decision: c.gate.SurvivalDecision(obs), Source: SourceFallback, Reason: string(outcome.Reason)}
		c.record(ctx, obs, providerID, res)
		return res
	}

	c.cache.Put(ctx, providerID, obs, d)
	res := Result{Decision: d, Source: SourceModel, Reason: string(outcome.Reason)}
	c.record(ctx, obs, providerID, res)
	return res
}

// buildModelPrompt renders the observation and runs both text transforms.
func (c *Controller) buildModelPrompt(ctx context.Context, obs *observation.Observation) string {
	prompt := BuildPrompt(obs)
	prompt = c.vocab.Apply(prompt)
	return c.mutator.Apply(ctx, prompt, c.opts.SafetyLevel, safety.CallContext{
		ExperimentID: c.opts.ExperimentID,
		VariantID:    c.opts.VariantID,
		AgentID:      obs.Self.ID,
	})
}

func (c *Controller) record(ctx context.Context, obs *observation.Observation, providerID string, res Result) {
	if c.auditor == nil {
		return
	}
	rec := audit.DecisionRecord{
		ProviderID: providerID,
		AgentID:    obs.Self.ID,
		Source:     string(res.Source),
		Reason:     res.Reason,
		Action:     res.Decision.Action,
	}
	if res.Source == SourceCache || res.Source == SourceModel {
		rec.CacheKey = c.cache.Normalizer().Hash(providerID, obs)
	}
	if err := c.auditor.RecordDecision(ctx, rec); err != nil {
		c.log.Warn("decision audit write failed", zap.Error(err))
	}
}

// #endregion decide

// #region surface

// GetStats returns the cache counters and live entry count.
func (c *Controller) GetStats(ctx context.Context) decisioncache.Snapshot {
	return c.cache.Stats(ctx)
}

// Invalidate drops one provider's cached decisions, returning the count.
func (c *Controller) Invalidate(ctx context.Context, providerID string) int {
	return c.cache.Invalidate(ctx, providerID)
}

// Clear drops every cached decision and resets cache stats.
func (c *Controller) Clear(ctx context.Context) {
	c.cache.Clear(ctx)
}

// Usage returns the gate economy counters.
func (c *Controller) Usage() UsageSnapshot {
	return c.usage.Snapshot()
}

// ResetUsage zeroes the gate economy counters.
func (c *Controller) ResetUsage() {
	c.usage.Reset()
}

// ApplyVocabulary exposes the forward rewrite for callers that build prompts
// directly.
func (c *Controller) ApplyVocabulary(text string) string {
	return c.vocab.Apply(text)
}

// ReverseVocabulary restores canonical terms in model output.
func (c *Controller) ReverseVocabulary(text string) string {
	return c.vocab.Reverse(text)
}

// ApplySafetyLevel exposes the prompt mutator for callers that build prompts
// directly.
func (c *Controller) ApplySafetyLevel(ctx context.Context, prompt string, level safety.Level, cc safety.CallContext) string {
	return c.mutator.Apply(ctx, prompt, level, cc)
}

// #endregion surface
