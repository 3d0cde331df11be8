package grammar

import (
	"strconv"
	"strings"
)

// ID identifies a nonterminal. Id 0 is the conventional start symbol.
type ID uint32

// Alternative is one right-hand side: a single terminal character or a
// sequence of nonterminal references.
type Alternative struct {
	terminal bool
	char     rune
	refs     []ID
}

func Terminal(r rune) Alternative {
	return Alternative{terminal: true, char: r}
}

func Sequence(ids ...ID) Alternative {
	return Alternative{refs: append([]ID(nil), ids...)}
}

func (a Alternative) IsTerminal() bool { return a.terminal }

// Rune returns the terminal character, or 0 for a sequence.
func (a Alternative) Rune() rune { return a.char }

// Refs returns a copy of the referenced ids.
func (a Alternative) Refs() []ID {
	return append([]ID(nil), a.refs...)
}

// Len is the sequence length; terminals have length 1.
func (a Alternative) Len() int {
	if a.terminal {
		return 1
	}
	return len(a.refs)
}

// Ref returns the i-th reference of a sequence.
func (a Alternative) Ref(i int) ID { return a.refs[i] }

func (a Alternative) IsUnit() bool {
	return !a.terminal && len(a.refs) == 1
}

func (a Alternative) IsBinary() bool {
	return !a.terminal && len(a.refs) == 2
}

func (a Alternative) References(id ID) bool {
	for _, r := range a.refs {
		if r == id {
			return true
		}
	}
	return false
}

func (a Alternative) Equal(b Alternative) bool {
	if a.terminal != b.terminal {
		return false
	}
	if a.terminal {
		return a.char == b.char
	}
	if len(a.refs) != len(b.refs) {
		return false
	}
	for i := range a.refs {
		if a.refs[i] != b.refs[i] {
			return false
		}
	}
	return true
}

// String renders the alternative in rule text form.
func (a Alternative) String() string {
	if a.terminal {
		return strconv.Quote(string(a.char))
	}
	parts := make([]string, len(a.refs))
	for i, r := range a.refs {
		parts[i] = strconv.FormatUint(uint64(r), 10)
	}
	return strings.Join(parts, " ")
}

func key(a Alternative) string {
	if a.terminal {
		return "t" + string(a.char)
	}
	return "s" + a.String()
}

// Dedup drops repeated alternatives, keeping first occurrences in order.
func Dedup(alts []Alternative) []Alternative {
	seen := make(map[string]struct{}, len(alts))
	out := make([]Alternative, 0, len(alts))
	for _, a := range alts {
		k := key(a)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}

func cloneAlts(alts []Alternative) []Alternative {
	out := make([]Alternative, len(alts))
	for i, a := range alts {
		out[i] = Alternative{terminal: a.terminal, char: a.char, refs: a.Refs()}
	}
	return out
}
