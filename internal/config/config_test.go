package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleToml = `
[default.paths]
source = "src"
target = "dist"
clean_urls = true

[default.context.site]
title = "Aer"
root = "http://localhost:1337/"

[default.procs]
order = ["markdown", "template", "canonicalize"]

[default.procs.markdown]

[default.procs.template]

[default.procs.canonicalize]
root = "http://localhost:1337/"

[publish.context.site]
root = "https://example.com/"

[publish.procs.canonicalize]
root = "https://example.com/"
`

func writeSample(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Aer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultProfile(t *testing.T) {
	path := writeSample(t, sampleToml)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, "src", cfg.Paths.Source)
	assert.Equal(t, "dist", cfg.Paths.Target)
	assert.True(t, cfg.Paths.CleanURLs)
	assert.Equal(t, "Aer", cfg.Context.AsTable()["site"].AsTable()["title"].AsText())

	require.Len(t, cfg.Procs, 3)
	assert.Equal(t, []string{"markdown", "template", "canonicalize"},
		[]string{cfg.Procs[0].Name, cfg.Procs[1].Name, cfg.Procs[2].Name})
	assert.Equal(t, "http://localhost:1337/", cfg.Procs[2].Options["root"])
}

func TestLoadNamedProfileDeepMerges(t *testing.T) {
	path := writeSample(t, sampleToml)

	cfg, err := Load(path, "publish")
	require.NoError(t, err)

	assert.Equal(t, "publish", cfg.Profile)
	// paths.source/target untouched by publish, inherited from default.
	assert.Equal(t, "src", cfg.Paths.Source)
	// context.site.root overridden, context.site.title inherited.
	assert.Equal(t, "https://example.com/", cfg.Context.AsTable()["site"].AsTable()["root"].AsText())
	assert.Equal(t, "Aer", cfg.Context.AsTable()["site"].AsTable()["title"].AsText())

	// procs.order wasn't redeclared by publish, so it is inherited, but
	// the canonicalize processor's own options table is merged.
	require.Len(t, cfg.Procs, 3)
	var canonicalize ProcEntry
	for _, p := range cfg.Procs {
		if p.Name == "canonicalize" {
			canonicalize = p
		}
	}
	assert.Equal(t, "https://example.com/", canonicalize.Options["root"])
}

func TestLoadUnknownProfileErrors(t *testing.T) {
	path := writeSample(t, sampleToml)
	_, err := Load(path, "staging")
	assert.ErrorContains(t, err, "unknown profile")
}

func TestLoadMissingDefaultProfileErrors(t *testing.T) {
	path := writeSample(t, `[publish.paths]
source = "src"
target = "dist"
`)
	_, err := Load(path, "")
	assert.ErrorContains(t, err, "no [default] profile")
}

func TestLoadRejectsUnknownProcessor(t *testing.T) {
	path := writeSample(t, `
[default.paths]
source = "src"
target = "dist"

[default.procs]
order = ["not_a_real_processor"]

[default.procs.not_a_real_processor]
`)
	_, err := Load(path, "")
	assert.ErrorContains(t, err, "unknown processor")
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	path := writeSample(t, `
[default.paths]
source = "../escape"
target = "dist"

[default.procs]
order = []
`)
	_, err := Load(path, "")
	assert.ErrorContains(t, err, "path traversal")
}

func TestLoadRequiresExplicitProcsOrder(t *testing.T) {
	path := writeSample(t, `
[default.paths]
source = "src"
target = "dist"

[default.procs.markdown]
`)
	_, err := Load(path, "")
	assert.ErrorContains(t, err, `"order"`)
}

func TestEnvOverrideWinsOverFile(t *testing.T) {
	path := writeSample(t, sampleToml)
	t.Setenv("AER_SOURCE", "from-env")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Paths.Source)
}
