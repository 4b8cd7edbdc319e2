package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Name: "planner", Environment: "development"},
		HTTP:   HTTPConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
		Solver: SolverConfig{Command: "cbc", FallbackFormat: "mps"},
		Report: ReportConfig{PDF: PDFConfig{PageSize: "A4", Orientation: "portrait"}},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingAppName(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	assert.ErrorContains(t, cfg.Validate(), "app.name")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "http.port")
}

func TestValidateRejectsMissingSolverCommand(t *testing.T) {
	cfg := validConfig()
	cfg.Solver.Command = ""
	assert.ErrorContains(t, cfg.Validate(), "solver.command")
}

func TestValidateRejectsBadFallbackFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Solver.FallbackFormat = "xml"
	assert.ErrorContains(t, cfg.Validate(), "solver.fallback_format")
}

func TestValidateDefaultsEmptyLogLevelToInfo(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestDatabaseDSNFormatsPostgres(t *testing.T) {
	d := DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5432,
		Username: "u", Password: "p", Database: "planner", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=planner sslmode=disable", d.DSN())
}

func TestCacheAddress(t *testing.T) {
	c := CacheConfig{Host: "redis", Port: 6379}
	assert.Equal(t, "redis:6379", c.Address())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "dev"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "prod"
	assert.True(t, cfg.IsProduction())
}
