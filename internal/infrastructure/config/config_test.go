package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
)

const testYAML = `
server:
  port: 9090
database:
  driver: sqlite
  path: ":memory:"
switch:
  readTimeout: 20
composer:
  defaults:
    acquiringInstitutionCode: "928"
    terminalId: "61740007"
    terminalNameAndLocation: "BGC ATM1 TAGUIG PH"
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	dir := writeConfig(t, Test, testYAML)

	cfg, err := loadConfig(Test, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 20*time.Second, cfg.Switch.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Switch.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Tunnel.KeepaliveInterval)
	assert.Equal(t, 16, cfg.Console.IdentifierAttempts)
	assert.NotEmpty(t, cfg.Picker.Candidates)

	input := cfg.Composer.Defaults.Input()
	assert.Equal(t, "WITHDRAW", input.Transaction)
	assert.Equal(t, "CORTEX", input.Switch)
	assert.Equal(t, "928", input.AcquiringInstitutionCode)
	assert.Equal(t, "61740007", input.TerminalID)
	assert.Equal(t, "6011", input.Device)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, Test, testYAML)
	t.Setenv("ATM_DB_DRIVER", "postgres")
	t.Setenv("ATM_DB_HOST", "db.internal")
	t.Setenv("ATM_SWITCH_ADDRESS", "10.0.0.5:7001")
	t.Setenv("ATM_SWITCH_READ_TIMEOUT_SECONDS", "45")

	cfg, err := loadConfig(Test, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "10.0.0.5:7001", cfg.Switch.Address)
	assert.Equal(t, 45*time.Second, cfg.Switch.ReadTimeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(Production, []string{t.TempDir()})
	assert.Error(t, err)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ATM_ENV", "PRODUCTION")
	assert.Equal(t, Production, getEnvironment())

	t.Setenv("ATM_ENV", "")
	assert.Equal(t, Development, getEnvironment())
}

func TestRuntimeSettings(t *testing.T) {
	t.Setenv("ATM_BASTION_PORT", "22")
	settings := NewRuntimeSettings()

	assert.Equal(t, "22", settings.Value(entity.ConfigBastionPort))
	assert.Equal(t, "", settings.Value(entity.ConfigBastionHost))

	settings.Apply([]entity.ConfigEntry{
		{Key: entity.ConfigBastionHost, Value: "bastion.example.com"},
		{Key: entity.ConfigBastionPort, Value: "2222"},
	})
	assert.Equal(t, "bastion.example.com", settings.Value(entity.ConfigBastionHost))
	assert.Equal(t, "2222", settings.Value(entity.ConfigBastionPort))

	settings.Apply([]entity.ConfigEntry{{Key: entity.ConfigBastionHost, Value: ""}})
	assert.Equal(t, "", settings.Value(entity.ConfigBastionHost))
}
