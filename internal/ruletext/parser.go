// Package ruletext parses numbered rule lines such as `1: 2 3 | 3 2` and
// `4: "a"` into grammar alternatives.
package ruletext

import (
	"strconv"
	"unicode/utf8"

	"rulematch/internal/errors"
	"rulematch/internal/grammar"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Ids are plain decimal digit runs; anything else, such as 0x1F or -1,
// fails to lex.
var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:|]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

type Rule struct {
	ID   string `parser:"@Int ':'"`
	Body *Body  `parser:"@@"`
}

type Body struct {
	Terminal *string `parser:"  @String"`
	Alts     []*Alt  `parser:"| @@ ( '|' @@ )*"`
}

type Alt struct {
	Refs []string `parser:"@Int+"`
}

var (
	ruleParser = participle.MustBuild[Rule](
		participle.Lexer(ruleLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
	bodyParser = participle.MustBuild[Body](
		participle.Lexer(ruleLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

// ParseRule parses one `id: body` line.
func ParseRule(line string) (grammar.ID, []grammar.Alternative, error) {
	r, err := ruleParser.ParseString("rule", line)
	if err != nil {
		return 0, nil, errors.Wrap(err, errors.CodeMalformedRule, "parse rule")
	}
	id, err := toID(r.ID)
	if err != nil {
		return 0, nil, err
	}
	alts, err := r.Body.alternatives()
	if err != nil {
		return 0, nil, errors.AddContext(err, errors.CtxRule, id)
	}
	return id, alts, nil
}

// ParseBody parses a rule body without its id, as used for overrides.
func ParseBody(body string) ([]grammar.Alternative, error) {
	b, err := bodyParser.ParseString("body", body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedRule, "parse rule body")
	}
	return b.alternatives()
}

// ParseRules builds a grammar from rule lines. A repeated id is malformed.
func ParseRules(lines []string) (*grammar.Grammar, error) {
	rules := make(grammar.Rules, len(lines))
	for i, line := range lines {
		id, alts, err := ParseRule(line)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxLine, i+1)
		}
		if _, dup := rules[id]; dup {
			return nil, errors.Newf(errors.CodeMalformedRule, "rule %d defined twice", id).
				WithContext(errors.CtxLine, i+1)
		}
		rules[id] = alts
	}
	return grammar.New(rules), nil
}

func (b *Body) alternatives() ([]grammar.Alternative, error) {
	if b.Terminal != nil {
		s := *b.Terminal
		if utf8.RuneCountInString(s) != 1 {
			return nil, errors.Newf(errors.CodeMalformedRule, "terminal %q must be exactly one character", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return []grammar.Alternative{grammar.Terminal(r)}, nil
	}
	alts := make([]grammar.Alternative, 0, len(b.Alts))
	for _, a := range b.Alts {
		ids := make([]grammar.ID, len(a.Refs))
		for i, ref := range a.Refs {
			id, err := toID(ref)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		alts = append(alts, grammar.Sequence(ids...))
	}
	return alts, nil
}

// toID reads a decimal id; leading zeros do not switch base.
func toID(v string) (grammar.ID, error) {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeMalformedRule, "rule id "+strconv.Quote(v))
	}
	return grammar.ID(n), nil
}
