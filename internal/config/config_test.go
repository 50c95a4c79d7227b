package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskboard/internal/model"
)

// isolate points the config dir and working directory at temp dirs so no
// real config or .env leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{
		"TASKBOARD_ENV", "TASKBOARD_BASE_URL", "TASKBOARD_PRODUCTION_URL",
		"TASKBOARD_DEVELOPMENT_URL", "TASKBOARD_SORT", "TASKBOARD_THEME",
		"TASKBOARD_LOG_FILE", "TASKBOARD_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DefaultDevelopmentURL, cfg.ResolveBaseURL())
	assert.Equal(t, model.OldestFirst, cfg.SortMode())
	assert.Equal(t, "classic", cfg.Theme)
	assert.Zero(t, cfg.Timeout)
}

func TestProductionSelectsProductionURL(t *testing.T) {
	isolate(t)
	t.Setenv("TASKBOARD_ENV", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProductionURL, cfg.ResolveBaseURL())
}

func TestExplicitBaseURLWins(t *testing.T) {
	cfg := Default()
	cfg.Env = EnvProduction
	cfg.BaseURL = "http://example.test/"
	assert.Equal(t, "http://example.test/", cfg.ResolveBaseURL())
}

func TestYAMLFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"env: production\nproduction_url: https://tasks.example/\nsort: newest-first\ntimeout: 3s\ntheme: neon\n",
	), 0o644))
	t.Setenv("TASKBOARD_THEME", "mono")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example/", cfg.ResolveBaseURL())
	assert.Equal(t, model.NewestFirst, cfg.SortMode())
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "mono", cfg.Theme)
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKBOARD_BASE_URL=http://dotenv.test/\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.test/", cfg.ResolveBaseURL())
}

func TestMissingExplicitFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestInvalidValues(t *testing.T) {
	isolate(t)

	t.Setenv("TASKBOARD_ENV", "staging")
	_, err := Load("")
	assert.ErrorContains(t, err, "env:")

	os.Unsetenv("TASKBOARD_ENV")
	t.Setenv("TASKBOARD_SORT", "alphabetical")
	_, err = Load("")
	assert.ErrorContains(t, err, "sort:")

	os.Unsetenv("TASKBOARD_SORT")
	t.Setenv("TASKBOARD_TIMEOUT", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "TASKBOARD_TIMEOUT")
}
