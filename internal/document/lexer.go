package document

import (
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind int

const (
	tokRule tokenKind = iota
	tokText
	tokNewline
)

type token struct {
	kind tokenKind
	text string
	line int
}

// Patterns are tried in order on equal-length matches, so a rule line is
// never reported as plain text.
var compiledLexer = sync.OnceValues(func() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()
	lx.Add([]byte(`[0-9]+:[^\n]*`), tokAction(tokRule))
	lx.Add([]byte(`[^\n]+`), tokAction(tokText))
	lx.Add([]byte(`[\n]`), tokAction(tokNewline))
	if err := lx.Compile(); err != nil {
		return nil, err
	}
	return lx, nil
})

func tokAction(kind tokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return token{kind: kind, text: string(m.Bytes)}, nil
	}
}

// tokenize returns the line tokens of data, numbering lines from 1.
func tokenize(data []byte) ([]token, error) {
	lx, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lx.Scanner(data)
	if err != nil {
		return nil, err
	}
	var toks []token
	line := 1
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return nil, err
		}
		t := tok.(token)
		t.line = line
		if t.kind == tokNewline {
			line++
		}
		toks = append(toks, t)
	}
	return toks, nil
}
