// Package normalize rewrites an arbitrary grammar into the binary form the
// span recognizer needs: every alternative is either a single terminal or a
// sequence of exactly two nonterminals.
//
// The rewrite runs in two steps. Arity reduction peels the last two symbols
// of any sequence longer than two into a fresh synthetic rule, repeating
// until nothing longer than two remains. Unit inlining then replaces every
// single-reference alternative with the non-unit alternatives of everything
// reachable through unit chains. Both steps preserve the recognized language.
package normalize

import (
	"log/slog"

	"rulematch/internal/errors"
	"rulematch/internal/grammar"
)

// Stats describes what a normalization changed.
type Stats struct {
	SyntheticRules int
	UnitsInlined   int
	Duplicates     int
}

type options struct {
	singlePass bool
}

type Option func(*options)

// WithSinglePassUnits inlines each unit alternative one hop only, without
// following chains. Grammars whose unit chains are deeper than one hop then
// fail with CodeUnresolvedUnit instead of normalizing.
func WithSinglePassUnits() Option {
	return func(o *options) { o.singlePass = true }
}

// Normalize returns the binary form of g. g is not modified.
func Normalize(g *grammar.Grammar, opts ...Option) (*grammar.Grammar, error) {
	out, _, err := NormalizeWithStats(g, opts...)
	return out, err
}

func NormalizeWithStats(g *grammar.Grammar, opts ...Option) (*grammar.Grammar, Stats, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var st Stats

	if err := g.Validate(); err != nil {
		return nil, st, err
	}

	rules := g.Rules()
	st.SyntheticRules = reduceArity(rules, g.MaxID())

	if o.singlePass {
		st.UnitsInlined = inlineUnitsOnce(rules)
	} else {
		st.UnitsInlined = inlineUnits(rules)
	}

	for id, alts := range rules {
		deduped := grammar.Dedup(alts)
		st.Duplicates += len(alts) - len(deduped)
		rules[id] = deduped
	}

	out := grammar.New(rules)
	if err := checkBinary(out); err != nil {
		return nil, st, err
	}

	slog.Debug("grammar normalized",
		"rules_in", g.Len(),
		"rules_out", out.Len(),
		"synthetic", st.SyntheticRules,
		"units_inlined", st.UnitsInlined,
		"duplicates", st.Duplicates)
	return out, st, nil
}

// checkBinary verifies the result has only terminals and binary sequences
// over defined ids. A rule left with no alternatives, as happens when all
// of them were units in a cycle, is kept and derives nothing.
func checkBinary(g *grammar.Grammar) error {
	if err := g.ValidateRefs(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "normalized grammar is inconsistent")
	}
	for _, id := range g.IDs() {
		alts, _ := g.Alternatives(id)
		for _, a := range alts {
			switch {
			case a.IsTerminal(), a.IsBinary():
			case a.IsUnit():
				return errors.Newf(errors.CodeUnresolvedUnit, "rule %d keeps unit alternative %s", id, a).
					WithContext(errors.CtxRule, id)
			default:
				return errors.Newf(errors.CodeInternal, "rule %d keeps %d-symbol sequence %s", id, a.Len(), a).
					WithContext(errors.CtxRule, id)
			}
		}
	}
	return nil
}
