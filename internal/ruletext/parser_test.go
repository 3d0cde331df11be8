package ruletext

import (
	"testing"

	"rulematch/internal/errors"
	"rulematch/internal/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(alts []grammar.Alternative) []string {
	out := make([]string, len(alts))
	for i, a := range alts {
		out[i] = a.String()
	}
	return out
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		line string
		id   grammar.ID
		want []string
	}{
		{`0: 4 1 5`, 0, []string{"4 1 5"}},
		{`1: 2 3 | 3 2`, 1, []string{"2 3", "3 2"}},
		{`4: "a"`, 4, []string{`"a"`}},
		{`8: 42`, 8, []string{"42"}},
		{`11: 42 31 | 42 11 31`, 11, []string{"42 31", "42 11 31"}},
		{`7: 1 2 3 4 5 6`, 7, []string{"1 2 3 4 5 6"}},
		{`9: "é"`, 9, []string{`"é"`}},
		{`0: 010 1`, 0, []string{"10 1"}},
		{`0: 08 1`, 0, []string{"8 1"}},
		{`007: 4294967295`, 7, []string{"4294967295"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			id, alts, err := ParseRule(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.want, render(alts))
		})
	}
}

func TestParseRuleTerminal(t *testing.T) {
	_, alts, err := ParseRule(`5: "b"`)
	require.NoError(t, err)
	require.Len(t, alts, 1)
	assert.True(t, alts[0].IsTerminal())
	assert.Equal(t, 'b', alts[0].Rune())
}

func TestParseRuleMalformed(t *testing.T) {
	for _, line := range []string{
		``,
		`0:`,
		`0 4 1`,
		`x: 1 2`,
		`0: "ab"`,
		`0: ""`,
		`0: "a" | 1`,
		`0: 1 |`,
		`0: | 1`,
		`0: 1 - 2`,
		`-1: 2`,
		`0: 'a'`,
		`0: 0x1F`,
		`0x1F: 1`,
		`0: 1e3`,
		`0: 1_000`,
		`0: 4294967296`,
	} {
		t.Run(line, func(t *testing.T) {
			_, _, err := ParseRule(line)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeMalformedRule), err.Error())
		})
	}
}

func TestParseBody(t *testing.T) {
	alts, err := ParseBody("42 | 42 8")
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "42 8"}, render(alts))

	_, err = ParseBody("")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedRule))
}

func TestParseRules(t *testing.T) {
	g, err := ParseRules([]string{
		`0: 4 1 5`,
		`1: 2 3 | 3 2`,
		`2: 4 4 | 5 5`,
		`3: 4 5 | 5 4`,
		`4: "a"`,
		`5: "b"`,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, g.Len())
	require.NoError(t, g.Validate())
	assert.Equal(t, []rune{'a', 'b'}, g.Terminals())
}

func TestParseRulesErrors(t *testing.T) {
	_, err := ParseRules([]string{`0: 1`, `1: "a"`, `1: "b"`})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedRule))
	assert.Contains(t, err.Error(), "defined twice")

	_, err = ParseRules([]string{`0: 1`, `1 "a"`})
	require.Error(t, err)
	var de *errors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Context[errors.CtxLine])
}
