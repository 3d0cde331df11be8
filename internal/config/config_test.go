package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"rulematch/internal/errors"
	"rulematch/internal/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint32(0), cfg.Start)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.Log.Level)

	o, err := cfg.GrammarOverrides()
	require.NoError(t, err)
	want := grammar.SelfReferentialOverrides()
	require.Len(t, o, len(want))
	for id, alts := range want {
		require.Len(t, o[id], len(alts))
		for i := range alts {
			assert.True(t, alts[i].Equal(o[id][i]), "override %d alt %d", id, i)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rulematch.toml")
	content := `
start = 3
workers = 2

[normalize]
single_pass_units = true

[log]
level = "DEBUG"

[overrides]
"8" = "42 | 42 8"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), cfg.Start)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Normalize.SinglePassUnits)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	o, err := cfg.GrammarOverrides()
	require.NoError(t, err)
	assert.Len(t, o, 1)
	assert.Len(t, o[8], 2)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Default().Overrides, cfg.Overrides)
}

func TestParseKeepsDefaultOverrides(t *testing.T) {
	cfg, err := Parse("workers = 2\n[log]\nlevel = \"debug\"\n")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	o, err := cfg.GrammarOverrides()
	require.NoError(t, err)
	assert.Len(t, o, 2)
	assert.Len(t, o[8], 2)
	assert.Len(t, o[11], 2)
}

func TestParseEmptyOverridesTable(t *testing.T) {
	cfg, err := Parse("workers = 2\n[overrides]\n")
	require.NoError(t, err)

	o, err := cfg.GrammarOverrides()
	require.NoError(t, err)
	assert.Empty(t, o)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `start = `},
		{"negative workers", `workers = -1`},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"bad override key", "[overrides]\n\"eight\" = \"42\""},
		{"bad override body", "[overrides]\n\"8\" = \"42 |\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidConfig), err.Error())
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}
