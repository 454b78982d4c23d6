package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "", cfg.Input.Path)
	assert.Equal(t, ValidateWarn, cfg.Input.Validate)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.False(t, cfg.Output.Unmatched)
	// template expands differently under test
	assert.Equal(t, "none", cfg.Logging.ConsoleLogger.Level)
	assert.Equal(t, "none", cfg.Logging.FileLogger.Level)
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "draft2pm.log")
	path := writeConfig(t, `version: 1
input:
  path: data.body
  validate: fail
output:
  indent: ""
  unmatched: true
logging:
  console:
    level: debug
  file:
    level: normal
    destination: `+logPath+`
    mode: append
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "data.body", cfg.Input.Path)
	assert.Equal(t, ValidateFail, cfg.Input.Validate)
	assert.Equal(t, "", cfg.Output.Indent)
	assert.True(t, cfg.Output.Unmatched)
	assert.Equal(t, "debug", cfg.Logging.ConsoleLogger.Level)
	assert.Equal(t, "append", cfg.Logging.FileLogger.Mode)
	assert.Equal(t, logPath, cfg.Logging.FileLogger.Destination)

	// sanitizer creates the directory for the log file
	assert.DirExists(t, filepath.Dir(logPath))
}

func TestLoadConfiguration_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `version: 1
output:
  unmatched: true
`)
	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.True(t, cfg.Output.Unmatched)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.Equal(t, ValidateWarn, cfg.Input.Validate)
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "version: 1\ninput:\n  schema: strict\n"},
		{"bad version", "version: 2\n"},
		{"bad validate mode", "version: 1\ninput:\n  validate: sometimes\n"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
		{"not yaml", "version: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")
	assert.NotContains(t, string(data), "{{")

	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	dumped, err := Dump(cfg)
	require.NoError(t, err)

	// the dump is a valid configuration file producing the same values
	again, err := LoadConfiguration(writeConfig(t, string(dumped)))
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
