package app

import (
	"context"
	"path/filepath"
	"testing"

	"rulematch/internal/config"
	"rulematch/internal/document"
	"rulematch/internal/errors"
	"rulematch/internal/grammar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, name string) *document.Document {
	t.Helper()
	doc, err := document.Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return doc
}

func TestSolveScenarioOne(t *testing.T) {
	cfg := config.Default()
	cfg.Overrides = nil

	rep, err := Solve(context.Background(), load(t, "scenario1.txt"), cfg)
	require.NoError(t, err)
	_, err = uuid.Parse(rep.RunID)
	require.NoError(t, err)

	require.NotNil(t, rep.Base)
	assert.Equal(t, 2, rep.Base.Count)
	assert.Equal(t, []bool{true, false, true, false, false}, rep.Base.Matched)
	assert.Equal(t, 1, rep.Base.Stats.SyntheticRules)
	assert.Nil(t, rep.Overridden)
}

func TestSolveScenarioTwo(t *testing.T) {
	rep, err := Solve(context.Background(), load(t, "scenario2.txt"), config.Default())
	require.NoError(t, err)

	assert.Len(t, rep.Candidates, 15)
	assert.Equal(t, 3, rep.Base.Count)
	require.NotNil(t, rep.Overridden)
	assert.Equal(t, 8, rep.Overridden.Count)
	assert.Contains(t, rep.Overridden.Grammar.SelfReferential(), grammar.ID(8))
}

func TestSolveScenarioTwoSinglePass(t *testing.T) {
	cfg := config.Default()
	cfg.Normalize.SinglePassUnits = true
	cfg.Workers = 1

	rep, err := Solve(context.Background(), load(t, "scenario2.txt"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Base.Count)
	assert.Equal(t, 8, rep.Overridden.Count)
}

func TestSolveAbortsOnStructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		code  errors.ErrorCode
	}{
		{"malformed", []string{`0: 1 |`, `1: "a"`}, errors.CodeMalformedRule},
		{"dangling", []string{`0: 1 2`, `1: "a"`}, errors.CodeDanglingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{Rules: tt.rules, Candidates: []string{"a"}}
			_, err := Solve(context.Background(), doc, config.Default())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), err.Error())
		})
	}
}

func TestSolveOverrideDangling(t *testing.T) {
	doc := load(t, "scenario1.txt")
	// rule 42 does not exist in scenario one
	_, err := Solve(context.Background(), doc, config.Default())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDanglingReference), err.Error())
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Solve(ctx, load(t, "scenario1.txt"), config.Default())
	require.ErrorIs(t, err, context.Canceled)
}
