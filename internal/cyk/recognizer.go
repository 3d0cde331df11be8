// Package cyk decides membership of a string in the language of a binary
// grammar by filling a span-indexed table, shortest spans first.
//
// Every cell depends only on strictly shorter spans, so grammars with
// self-referential rules never cause a cell to be revisited. Running time is
// O(n³·R) for n input runes and R binary alternatives.
package cyk

import (
	"rulematch/internal/errors"
	"rulematch/internal/grammar"
)

// binaryRule is A -> B C over dense indices.
type binaryRule struct {
	lhs, left, right int
}

// Recognizer is a compiled, read-only form of a normalized grammar. It is
// safe for concurrent use.
type Recognizer struct {
	ids       []grammar.ID
	index     map[grammar.ID]int
	terminals map[rune]bitset
	rules     []binaryRule
	// byLeft groups rules by their left symbol so a split only scans rules
	// whose left side can already match.
	byLeft [][]int
}

// New compiles g. g must already be normalized: every alternative a terminal
// or a two-symbol sequence over ids defined in g.
func New(g *grammar.Grammar) (*Recognizer, error) {
	ids := g.IDs()
	r := &Recognizer{
		ids:       ids,
		index:     make(map[grammar.ID]int, len(ids)),
		terminals: make(map[rune]bitset),
		byLeft:    make([][]int, len(ids)),
	}
	for i, id := range ids {
		r.index[id] = i
	}

	for i, id := range ids {
		alts, _ := g.Alternatives(id)
		for _, a := range alts {
			if a.IsTerminal() {
				set, ok := r.terminals[a.Rune()]
				if !ok {
					set = newBitset(len(ids))
					r.terminals[a.Rune()] = set
				}
				set.set(i)
				continue
			}
			if !a.IsBinary() {
				return nil, errors.Newf(errors.CodeNotNormalized,
					"rule %d has %d-symbol sequence %s", id, a.Len(), a).
					WithContext(errors.CtxRule, id)
			}
			left, right, err := r.resolve(id, a)
			if err != nil {
				return nil, err
			}
			r.byLeft[left] = append(r.byLeft[left], len(r.rules))
			r.rules = append(r.rules, binaryRule{lhs: i, left: left, right: right})
		}
	}
	return r, nil
}

func (r *Recognizer) resolve(owner grammar.ID, a grammar.Alternative) (int, int, error) {
	var out [2]int
	for k := 0; k < 2; k++ {
		ref := a.Ref(k)
		idx, ok := r.index[ref]
		if !ok {
			return 0, 0, errors.Newf(errors.CodeDanglingReference,
				"rule %d references undefined rule %d", owner, ref).
				WithContext(errors.CtxRule, owner).
				WithContext(errors.CtxRef, ref)
		}
		out[k] = idx
	}
	return out[0], out[1], nil
}

// RuleCount is the number of binary alternatives R.
func (r *Recognizer) RuleCount() int { return len(r.rules) }

// Recognizes reports whether start derives exactly input. Empty input, an
// unknown start id, or characters with no terminal rule all yield false.
func (r *Recognizer) Recognizes(start grammar.ID, input string) bool {
	idx, ok := r.index[start]
	if !ok {
		return false
	}
	t := r.Table(input)
	if t.n == 0 {
		return false
	}
	return t.cell(0, t.n-1).has(idx)
}

// Table fills and returns the recognition table for input.
func (r *Recognizer) Table(input string) *Table {
	runes := []rune(input)
	n := len(runes)
	t := &Table{r: r, n: n, cells: make([]bitset, n*n)}
	if n == 0 {
		return t
	}
	width := len(r.ids)
	for i := range t.cells {
		t.cells[i] = newBitset(width)
	}

	for i, c := range runes {
		if set, ok := r.terminals[c]; ok {
			t.cell(i, i).or(set)
		}
	}

	for span := 2; span <= n; span++ {
		for l := 0; l+span-1 < n; l++ {
			end := l + span - 1
			target := t.cell(l, end)
			for m := l + 1; m <= end; m++ {
				left := t.cell(l, m-1)
				if left.empty() {
					continue
				}
				right := t.cell(m, end)
				if right.empty() {
					continue
				}
				left.each(func(b int) {
					for _, ri := range r.byLeft[b] {
						rule := r.rules[ri]
						if right.has(rule.right) {
							target.set(rule.lhs)
						}
					}
				})
			}
		}
	}
	return t
}

// Recognizes compiles g and checks a single input.
func Recognizes(g *grammar.Grammar, start grammar.ID, input string) (bool, error) {
	r, err := New(g)
	if err != nil {
		return false, err
	}
	return r.Recognizes(start, input), nil
}
