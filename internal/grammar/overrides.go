package grammar

// Overrides replaces the bodies of the listed rules before normalization.
// A replacement may reference its own id.
type Overrides map[ID][]Alternative

// WithOverrides returns a new grammar with o applied; g is left untouched.
func (g *Grammar) WithOverrides(o Overrides) *Grammar {
	rules := g.Rules()
	for id, alts := range o {
		rules[id] = cloneAlts(alts)
	}
	return New(rules)
}

// SelfReferentialOverrides turns rule 8 into "one or more 42" and rule 11
// into "k times 42 followed by k times 31".
func SelfReferentialOverrides() Overrides {
	return Overrides{
		8:  {Sequence(42), Sequence(42, 8)},
		11: {Sequence(42, 31), Sequence(42, 11, 31)},
	}
}

// SelfReferential reports the ids that appear in one of their own sequences.
func (g *Grammar) SelfReferential() []ID {
	var out []ID
	for _, id := range g.ids {
		for _, a := range g.rules[id] {
			if a.References(id) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
