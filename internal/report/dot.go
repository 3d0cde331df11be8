package report

import (
	"fmt"
	"io"

	"rulematch/internal/grammar"
)

// WriteDOT prints a Graphviz view of g: one node per nonterminal, terminal
// producers as doublecircles, and one edge per sequence position.
func WriteDOT(w io.Writer, g *grammar.Grammar) {
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, "    rankdir=LR;")

	for _, id := range g.IDs() {
		alts, _ := g.Alternatives(id)
		shape := "circle"
		label := fmt.Sprint(id)
		for _, a := range alts {
			if a.IsTerminal() {
				shape = "doublecircle"
				label += fmt.Sprintf("\\n%c", a.Rune())
			}
		}
		fmt.Fprintf(w, "    r%d [shape=%s label=\"%s\"];\n", id, shape, label)

		for ai, a := range alts {
			if a.IsTerminal() {
				continue
			}
			for pos, ref := range a.Refs() {
				fmt.Fprintf(w, "    r%d -> r%d [label=\"%d.%d\"];\n", id, ref, ai, pos)
			}
		}
	}
	if g.Has(0) {
		fmt.Fprintln(w, "    _start [shape=point]; _start -> r0;")
	}

	fmt.Fprintln(w, "}")
}
