package normalize

import "rulematch/internal/grammar"

// reduceArity shortens every sequence to at most two symbols. Each step takes
// the last two symbols of a long sequence, gives them a fresh rule, and puts a
// reference to that rule in their place. It returns the number of rules added.
func reduceArity(rules grammar.Rules, maxID grammar.ID) int {
	next := maxID + 1
	added := 0

	// Synthetic rules are binary on creation, so only the original ids
	// need visiting.
	for _, id := range grammar.SetIDs(grammar.NewIDSet(ruleIDs(rules)...)) {
		alts := rules[id]
		for i, a := range alts {
			if a.IsTerminal() || a.Len() <= 2 {
				continue
			}
			seq := a.Refs()
			for len(seq) > 2 {
				n := len(seq)
				fresh := next
				next++
				added++
				rules[fresh] = []grammar.Alternative{grammar.Sequence(seq[n-2], seq[n-1])}
				seq = append(seq[:n-2], fresh)
			}
			alts[i] = grammar.Sequence(seq...)
		}
	}
	return added
}

func ruleIDs(rules grammar.Rules) []grammar.ID {
	ids := make([]grammar.ID, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	return ids
}
