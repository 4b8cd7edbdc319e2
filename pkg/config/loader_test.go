package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoaderLoadsDefaultsWithoutConfigFile(t *testing.T) {
	l := NewLoader(WithConfigPaths("does-not-exist.yaml"), WithEnvPrefix("PLANNER_TEST_UNUSED_"))
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, "planner", cfg.App.Name)
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, "cbc", cfg.Solver.Command)
}

func TestLoaderEnvOverridesDefaults(t *testing.T) {
	prefix := "PLANNER_LOADERTEST_"
	t.Setenv(prefix+"APP_NAME", "planner-custom")
	t.Setenv(prefix+"HTTP_PORT", "9999")

	l := NewLoader(WithConfigPaths("does-not-exist.yaml"), WithEnvPrefix(prefix))
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, "planner-custom", cfg.App.Name)
	require.Equal(t, 9999, cfg.HTTP.Port)
}

func TestLoaderConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: from-file\n"), 0o644))

	l := NewLoader(WithConfigPaths(path), WithEnvPrefix("PLANNER_LOADERTEST_UNUSED_"))
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.App.Name)
}
