package cyk

import "rulematch/internal/grammar"

// Table records, for every span of the input, which nonterminals derive it.
// Spans are 0-indexed and inclusive: (i, j) covers runes i..j.
type Table struct {
	r     *Recognizer
	n     int
	cells []bitset
}

// Len is the input length in runes.
func (t *Table) Len() int { return t.n }

func (t *Table) cell(i, j int) bitset { return t.cells[i*t.n+j] }

func (t *Table) valid(i, j int) bool {
	return i >= 0 && i <= j && j < t.n
}

// Cell lists the nonterminals deriving span (i, j) in ascending order.
func (t *Table) Cell(i, j int) []grammar.ID {
	if !t.valid(i, j) {
		return nil
	}
	set := grammar.NewIDSet()
	t.cell(i, j).each(func(k int) { set.Add(t.r.ids[k]) })
	return grammar.SetIDs(set)
}

// Derives reports whether id derives span (i, j).
func (t *Table) Derives(id grammar.ID, i, j int) bool {
	idx, ok := t.r.index[id]
	if !ok || !t.valid(i, j) {
		return false
	}
	return t.cell(i, j).has(idx)
}
