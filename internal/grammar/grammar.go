// Package grammar holds the immutable context-free grammar snapshot shared by
// the normalizer and the recognizer.
package grammar

import (
	"sort"
	"strconv"
	"strings"

	"rulematch/internal/errors"

	"github.com/emirpasic/gods/sets/treeset"
)

// Rules is the mutable form a Grammar is built from.
type Rules map[ID][]Alternative

// Grammar maps each nonterminal to its alternatives. It is never mutated
// after New returns, so it can be shared between goroutines.
type Grammar struct {
	rules map[ID][]Alternative
	ids   []ID
}

func idComparator(a, b interface{}) int {
	x, y := a.(ID), b.(ID)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// NewIDSet returns an ordered set of ids.
func NewIDSet(ids ...ID) *treeset.Set {
	s := treeset.NewWith(idComparator)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// SetIDs converts an id set built by NewIDSet back to an ascending slice.
func SetIDs(s *treeset.Set) []ID {
	vals := s.Values()
	out := make([]ID, len(vals))
	for i, v := range vals {
		out[i] = v.(ID)
	}
	return out
}

// New deep-copies rules into a Grammar.
func New(rules Rules) *Grammar {
	g := &Grammar{rules: make(map[ID][]Alternative, len(rules))}
	set := NewIDSet()
	for id, alts := range rules {
		g.rules[id] = cloneAlts(alts)
		set.Add(id)
	}
	g.ids = SetIDs(set)
	return g
}

func (g *Grammar) Has(id ID) bool {
	_, ok := g.rules[id]
	return ok
}

// Alternatives returns a copy of the alternatives of id.
func (g *Grammar) Alternatives(id ID) ([]Alternative, bool) {
	alts, ok := g.rules[id]
	if !ok {
		return nil, false
	}
	return cloneAlts(alts), true
}

// IDs lists every nonterminal in ascending order.
func (g *Grammar) IDs() []ID {
	return append([]ID(nil), g.ids...)
}

func (g *Grammar) Len() int { return len(g.ids) }

// MaxID returns the largest id in use, or 0 for an empty grammar.
func (g *Grammar) MaxID() ID {
	if len(g.ids) == 0 {
		return 0
	}
	return g.ids[len(g.ids)-1]
}

// AlternativeCount is the total number of alternatives over all rules.
func (g *Grammar) AlternativeCount() int {
	n := 0
	for _, alts := range g.rules {
		n += len(alts)
	}
	return n
}

// Terminals returns the sorted alphabet of terminal characters.
func (g *Grammar) Terminals() []rune {
	seen := map[rune]struct{}{}
	for _, alts := range g.rules {
		for _, a := range alts {
			if a.terminal {
				seen[a.char] = struct{}{}
			}
		}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Rules returns a deep copy suitable for building a derived grammar.
func (g *Grammar) Rules() Rules {
	out := make(Rules, len(g.rules))
	for id, alts := range g.rules {
		out[id] = cloneAlts(alts)
	}
	return out
}

// Validate reports the first structural problem: a rule without
// alternatives, an empty sequence, or a reference to a missing id.
func (g *Grammar) Validate() error {
	for _, id := range g.ids {
		if len(g.rules[id]) == 0 {
			return errors.Newf(errors.CodeMalformedRule, "rule %d has no alternatives", id).
				WithContext(errors.CtxRule, id)
		}
	}
	return g.ValidateRefs()
}

// ValidateRefs is Validate without the non-empty rule check. A derived
// grammar may hold a rule with no alternatives; its language is empty.
func (g *Grammar) ValidateRefs() error {
	for _, id := range g.ids {
		for _, a := range g.rules[id] {
			if !a.terminal && len(a.refs) == 0 {
				return errors.Newf(errors.CodeMalformedRule, "rule %d has an empty sequence", id).
					WithContext(errors.CtxRule, id)
			}
			for _, r := range a.refs {
				if !g.Has(r) {
					return errors.Newf(errors.CodeDanglingReference, "rule %d references undefined rule %d", id, r).
						WithContext(errors.CtxRule, id).
						WithContext(errors.CtxRef, r)
				}
			}
		}
	}
	return nil
}

// String renders the grammar as rule text, one rule per line.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, id := range g.ids {
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteString(": ")
		for i, a := range g.rules[id] {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
