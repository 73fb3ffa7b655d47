package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	c := GetConfig()
	assert.Equal(t, "adlens", c.AppName)
	assert.Equal(t, "3000", c.AppPort)
	assert.Equal(t, Development, c.Environment)
	assert.Equal(t, SQLiteDatabase, c.DatabaseType)
	assert.Equal(t, 30, c.ReportWindowDays)
	assert.Equal(t, 3600, c.MetadataRefreshSeconds)
	assert.Equal(t, 15, c.MetadataFetchTimeout)
	assert.Contains(t, c.DatabaseName, "adlens-development.db")
}

func TestEnvironmentOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("ADLENS_ENV", "test")
	t.Setenv("ADLENS_APP_PORT", "4000")
	t.Setenv("ADLENS_REPORT_WINDOW_DAYS", "7")

	c := GetConfig()
	assert.Equal(t, Test, c.Environment)
	assert.True(t, c.IsTest())
	assert.Equal(t, "4000", c.GetPort())
	assert.Equal(t, 7, c.ReportWindowDays)
}

func TestConnectionLimitsPerEnvironment(t *testing.T) {
	testCfg := &Config{Environment: Test}
	assert.Equal(t, 1, testCfg.GetMaxOpenConns())
	assert.Equal(t, 1, testCfg.GetMaxIdleConns())

	prodCfg := &Config{Environment: Production}
	assert.Equal(t, 10, prodCfg.GetMaxOpenConns())
	assert.Equal(t, 5, prodCfg.GetMaxIdleConns())

	explicit := &Config{Environment: Production, DatabaseMaxOpenConns: 42, DatabaseMaxIdleConns: 7}
	assert.Equal(t, 42, explicit.GetMaxOpenConns())
	assert.Equal(t, 7, explicit.GetMaxIdleConns())
}

func TestValidate(t *testing.T) {
	valid := &Config{Environment: Development, DatabaseType: SQLiteDatabase, ReportWindowDays: 30}
	require.NoError(t, valid.validate())

	badEnv := &Config{Environment: "staging", DatabaseType: SQLiteDatabase, ReportWindowDays: 30}
	assert.Error(t, badEnv.validate())

	badDB := &Config{Environment: Development, DatabaseType: "postgres", ReportWindowDays: 30}
	assert.Error(t, badDB.validate())

	badWindow := &Config{Environment: Development, DatabaseType: SQLiteDatabase, ReportWindowDays: 0}
	assert.Error(t, badWindow.validate())
}
