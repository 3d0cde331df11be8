package document

import (
	"os"
	"path/filepath"
	"testing"

	"rulematch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioOne = `0: 4 1 5
1: 2 3 | 3 2
2: 4 4 | 5 5
3: 4 5 | 5 4
4: "a"
5: "b"

ababbb
bababa
abbbab
aaabbb
aaaabbb`

func TestTokenize(t *testing.T) {
	toks, err := tokenize([]byte("0: 1\n\nab\n"))
	require.NoError(t, err)
	want := []tokenKind{tokRule, tokNewline, tokNewline, tokText, tokNewline}
	require.Len(t, toks, len(want))
	for i, kind := range want {
		assert.Equal(t, kind, toks[i].kind, "token %d", i)
	}
	assert.Equal(t, "0: 1", toks[0].text)
	assert.Equal(t, 3, toks[3].line)
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(scenarioOne))
	require.NoError(t, err)
	assert.Len(t, doc.Rules, 6)
	assert.Equal(t, `4: "a"`, doc.Rules[4])
	assert.Equal(t, []string{"ababbb", "bababa", "abbbab", "aaabbb", "aaaabbb"}, doc.Candidates)
}

func TestParseCRLFAndPadding(t *testing.T) {
	doc, err := Parse([]byte("\n\n0: 1 1\r\n1: \"a\"\r\n  \r\naa\r\n\r\nab\r\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0: 1 1", `1: "a"`}, doc.Rules)
	assert.Equal(t, []string{"aa", "ab"}, doc.Candidates)
}

func TestParseRulesOnly(t *testing.T) {
	doc, err := Parse([]byte("0: 1\n1: \"x\"\n"))
	require.NoError(t, err)
	assert.Len(t, doc.Rules, 2)
	assert.Empty(t, doc.Candidates)
}

func TestParseRejectsTextInRuleBlock(t *testing.T) {
	_, err := Parse([]byte("0: 1\nnot a rule\n1: \"a\"\n\nab"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedRule))
	var de *errors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Context[errors.CtxLine])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(scenarioOne), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Candidates, 5)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}
