package normalize

import "rulematch/internal/grammar"

// inlineUnits replaces every unit alternative A -> B by the non-unit
// alternatives of all ids reachable from A through unit alternatives. The
// visited set stops unit cycles, including A -> A, from being expanded
// forever; such cycles add nothing to the language and are dropped.
func inlineUnits(rules grammar.Rules) int {
	reach := make(map[grammar.ID][]grammar.ID, len(rules))
	for id := range rules {
		reach[id] = unitClosure(rules, id)
	}

	inlined := 0
	next := make(grammar.Rules, len(rules))
	for id, alts := range rules {
		kept := make([]grammar.Alternative, 0, len(alts))
		for _, a := range alts {
			if a.IsUnit() {
				inlined++
				continue
			}
			kept = append(kept, a)
		}
		for _, target := range reach[id] {
			for _, a := range rules[target] {
				if !a.IsUnit() {
					kept = append(kept, a)
				}
			}
		}
		next[id] = kept
	}
	for id, alts := range next {
		rules[id] = alts
	}
	return inlined
}

// unitClosure lists the ids reachable from id through one or more unit
// alternatives, excluding id itself.
func unitClosure(rules grammar.Rules, id grammar.ID) []grammar.ID {
	visited := grammar.NewIDSet(id)
	stack := []grammar.ID{id}
	var out []grammar.ID
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range rules[cur] {
			if !a.IsUnit() {
				continue
			}
			target := a.Ref(0)
			if visited.Contains(target) {
				continue
			}
			visited.Add(target)
			out = append(out, target)
			stack = append(stack, target)
		}
	}
	return out
}

// inlineUnitsOnce copies the alternatives of each unit target one hop deep.
// Units inherited from the target are kept and reported by checkBinary.
// A unit self-reference is dropped rather than expanded.
func inlineUnitsOnce(rules grammar.Rules) int {
	inlined := 0
	next := make(grammar.Rules, len(rules))
	for id, alts := range rules {
		kept := make([]grammar.Alternative, 0, len(alts))
		var copied []grammar.Alternative
		for _, a := range alts {
			if !a.IsUnit() {
				kept = append(kept, a)
				continue
			}
			inlined++
			target := a.Ref(0)
			if target == id {
				continue
			}
			for _, b := range rules[target] {
				if b.IsUnit() && b.Ref(0) == id {
					continue
				}
				copied = append(copied, b)
			}
		}
		next[id] = append(kept, copied...)
	}
	for id, alts := range next {
		rules[id] = alts
	}
	return inlined
}
