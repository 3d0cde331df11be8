// Package app runs the two-part pipeline: count the candidates the grammar
// accepts as given, then count again after applying the overrides.
package app

import (
	"context"
	"log/slog"
	"time"

	"rulematch/internal/batch"
	"rulematch/internal/config"
	"rulematch/internal/cyk"
	"rulematch/internal/document"
	"rulematch/internal/errors"
	"rulematch/internal/grammar"
	"rulematch/internal/normalize"
	"rulematch/internal/observability"
	"rulematch/internal/ruletext"

	"github.com/google/uuid"
)

// Part is the outcome of one grammar against all candidates.
type Part struct {
	Name       string
	RulesIn    int
	RulesOut   int
	BinaryAlts int
	Stats      normalize.Stats
	Matched    []bool
	Count      int
	Grammar    *grammar.Grammar
}

type Report struct {
	RunID      string
	Start      grammar.ID
	Candidates []string
	Base       *Part
	Overridden *Part
}

// Solve runs both parts. A structural error in either grammar aborts the run.
// With no overrides configured the second part is skipped.
func Solve(ctx context.Context, doc *document.Document, cfg *config.Config) (*Report, error) {
	rep := &Report{
		RunID:      uuid.NewString(),
		Start:      grammar.ID(cfg.Start),
		Candidates: doc.Candidates,
	}
	log := slog.Default().With("run_id", rep.RunID)

	base, err := ruletext.ParseRules(doc.Rules)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "parse rules")
	}
	log.Info("grammar loaded", "rules", base.Len(), "candidates", len(doc.Candidates))

	rep.Base, err = runPart(ctx, log, "base", base, rep, cfg)
	if err != nil {
		return nil, err
	}

	overrides, err := cfg.GrammarOverrides()
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return rep, nil
	}
	rep.Overridden, err = runPart(ctx, log, "overridden", base.WithOverrides(overrides), rep, cfg)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func runPart(ctx context.Context, log *slog.Logger, name string, g *grammar.Grammar, rep *Report, cfg *config.Config) (*Part, error) {
	log = log.With("stage", name)
	started := time.Now()

	norm, st, err := Normalize(g, cfg)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "normalize "+name)
	}
	rec, err := cyk.New(norm)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "compile "+name)
	}
	observability.GrammarRules.WithLabelValues(name).Set(float64(norm.Len()))
	observability.StageDuration.WithLabelValues("normalize").Observe(time.Since(started).Seconds())

	started = time.Now()
	res, err := batch.Run(ctx, rec, rep.Start, rep.Candidates, cfg.Workers)
	if err != nil {
		return nil, err
	}
	observability.StageDuration.WithLabelValues("recognize").Observe(time.Since(started).Seconds())

	log.Info("candidates checked",
		"rules", g.Len(),
		"normalized_rules", norm.Len(),
		"binary_alternatives", rec.RuleCount(),
		"matched", res.Count,
		"elapsed", time.Since(started))

	return &Part{
		Name:       name,
		RulesIn:    g.Len(),
		RulesOut:   norm.Len(),
		BinaryAlts: rec.RuleCount(),
		Stats:      st,
		Matched:    res.Matched,
		Count:      res.Count,
		Grammar:    norm,
	}, nil
}

// Normalize applies the normalization options selected by cfg.
func Normalize(g *grammar.Grammar, cfg *config.Config) (*grammar.Grammar, normalize.Stats, error) {
	var opts []normalize.Option
	if cfg.Normalize.SinglePassUnits {
		opts = append(opts, normalize.WithSinglePassUnits())
	}
	return normalize.NormalizeWithStats(g, opts...)
}
