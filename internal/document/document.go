// Package document splits a puzzle input into its rule block and its
// candidate block. The blocks are separated by the first blank line.
package document

import (
	"os"
	"strings"

	"rulematch/internal/errors"
)

type Document struct {
	Rules      []string
	Candidates []string
}

// Load reads and parses the input file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "read input")
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return doc, nil
}

// Parse splits data. Lines holding only whitespace count as blank, and a
// trailing \r is dropped from every line. Blank lines before the first rule
// and inside the candidate block are ignored.
func Parse(data []byte) (*Document, error) {
	toks, err := tokenize(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedRule, "tokenize input")
	}

	doc := &Document{}
	inRules := true
	hasContent := false
	for _, tok := range toks {
		if tok.kind == tokNewline {
			if !hasContent && inRules && len(doc.Rules) > 0 {
				inRules = false
			}
			hasContent = false
			continue
		}
		text := strings.TrimSpace(tok.text)
		if text == "" {
			continue
		}
		hasContent = true
		if !inRules {
			doc.Candidates = append(doc.Candidates, text)
			continue
		}
		if tok.kind != tokRule {
			return nil, errors.Newf(errors.CodeMalformedRule, "expected a rule, got %q", text).
				WithContext(errors.CtxLine, tok.line)
		}
		doc.Rules = append(doc.Rules, text)
	}
	return doc, nil
}
