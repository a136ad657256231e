package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so no config file is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "Fall 2025", cfg.Semester)
	assert.False(t, cfg.LinearGPA)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := chdirTemp(t)
	content := "port: 9090\nsemester: Spring 2026\nlinear_gpa: true\nsession_ttl: 30m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gradecalc.yaml"), []byte(content), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "Spring 2026", cfg.Semester)
	assert.True(t, cfg.LinearGPA)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "gradecalc.yaml", cfg.ConfigFile)
}

func TestLoad_ExplicitJSONFile(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 7000, "database_url": "postgres://x"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gradecalc.yaml"), []byte("port: 9090\n"), 0644))
	t.Setenv("GRADECALC_PORT", "9191")
	t.Setenv("GRADECALC_SEMESTER", "Winter 2026")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "Winter 2026", cfg.Semester)
}

func TestLoad_DatabaseURLFallback(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "postgres://plain")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://plain", cfg.DatabaseURL)

	t.Setenv("GRADECALC_DATABASE_URL", "postgres://prefixed")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://prefixed", cfg.DatabaseURL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	_, err := Load("/nonexistent/gradecalc.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GRADECALC_PORT", "70000")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be between")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Port: 80, Semester: "Fall 2025"}
	assert.NoError(t, valid.Validate())

	noSemester := valid
	noSemester.Semester = ""
	assert.Error(t, noSemester.Validate())

	negativeTTL := valid
	negativeTTL.SessionTTL = -time.Second
	assert.Error(t, negativeTTL.Validate())
}
