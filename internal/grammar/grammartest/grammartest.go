// Package grammartest provides a brute-force reference recognizer and
// string enumeration for checking recognizers against each other.
package grammartest

import "rulematch/internal/grammar"

// Derives reports whether id derives s by trying every split of s. It does
// not memoize and loops forever on unit cycles, so it is only for small
// grammars without them.
func Derives(g *grammar.Grammar, id grammar.ID, s string) bool {
	return derive(g.Rules(), id, []rune(s))
}

func derive(rules grammar.Rules, id grammar.ID, s []rune) bool {
	for _, a := range rules[id] {
		if a.IsTerminal() {
			if len(s) == 1 && s[0] == a.Rune() {
				return true
			}
			continue
		}
		if deriveSeq(rules, a.Refs(), s) {
			return true
		}
	}
	return false
}

func deriveSeq(rules grammar.Rules, refs []grammar.ID, s []rune) bool {
	if len(refs) == 0 {
		return len(s) == 0
	}
	// every symbol covers at least one character
	for k := 1; k <= len(s)-(len(refs)-1); k++ {
		if derive(rules, refs[0], s[:k]) && deriveSeq(rules, refs[1:], s[k:]) {
			return true
		}
	}
	return false
}

// Strings enumerates every non-empty string over alphabet up to maxLen runes.
func Strings(alphabet []rune, maxLen int) []string {
	var out []string
	level := []string{""}
	for n := 1; n <= maxLen; n++ {
		next := make([]string, 0, len(level)*len(alphabet))
		for _, prefix := range level {
			for _, r := range alphabet {
				next = append(next, prefix+string(r))
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

// Repeat concatenates k copies of s.
func Repeat(s string, k int) string {
	out := ""
	for i := 0; i < k; i++ {
		out += s
	}
	return out
}
