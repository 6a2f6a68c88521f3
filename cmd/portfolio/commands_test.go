package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/portfolio/section"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { contentDir = "" })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitThenCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")

	out, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	out, err = execute(t, "check", "--content", filepath.Join(dir, "content"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 blogs, 1 projects")
}

func TestCheckReportsProblems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blogs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogs", "broken.md"), []byte("---\ntitle: [unclosed\n---\nbody"), 0o644))

	out, err := execute(t, "check", "--content", dir)
	require.Error(t, err)
	assert.Contains(t, out, "skipped")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "portfolio dev\n", out)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SITE_NAME", "Jane Doe")
	t.Setenv("CONTACT_ENABLED", "yes")
	t.Setenv("SUPPRESS_WINDOW", "2s")
	t.Setenv("CONTENT_DIR", "site/content")

	cfg := configFromEnv()
	assert.Equal(t, "Jane Doe", cfg.Name)
	assert.True(t, cfg.ContactEnabled)
	assert.Equal(t, "2s", cfg.SuppressWindow.String())
	assert.Equal(t, "site/content", cfg.ContentDir)

	t.Setenv("SUPPRESS_WINDOW", "0")
	assert.Equal(t, section.NoSuppression, configFromEnv().SuppressWindow)
}
