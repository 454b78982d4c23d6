package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestPrepareConsoleLevels(t *testing.T) {
	tests := []struct {
		level     string
		debug     bool
		wantInfo  bool
		wantDebug bool
	}{
		{level: "none"},
		{level: "normal", wantInfo: true},
		{level: "debug", wantInfo: true, wantDebug: true},
		{level: "none", debug: true, wantInfo: true, wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			conf := LoggingConfig{
				ConsoleLogger: LoggerConfig{Level: tt.level},
				FileLogger:    LoggerConfig{Level: "none"},
			}
			log, err := conf.prepare(zapcore.AddSync(&buf), false, tt.debug)
			require.NoError(t, err)

			log.Info("info message")
			log.Debug("debug message")
			require.NoError(t, log.Sync())

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
		})
	}
}

func TestPrepareConsoleErrors(t *testing.T) {
	var buf bytes.Buffer
	conf := LoggingConfig{ConsoleLogger: LoggerConfig{Level: "normal"}}
	log, err := conf.prepare(zapcore.AddSync(&buf), false, false)
	require.NoError(t, err)

	log.Error("conversion failed", zap.Error(errors.New("bad input")))
	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, AppName)
	assert.Contains(t, out, "bad input")
}

func TestPrepareFileLogger(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "draft2pm.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}

	log, err := conf.prepare(zapcore.AddSync(&bytes.Buffer{}), false, false)
	require.NoError(t, err)
	log.Info("written to file")
	log.Debug("not written")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.NotContains(t, string(data), "not written")

	require.NoError(t, conf.Close())
	// closing twice is harmless
	require.NoError(t, conf.Close())
}

func TestPrepareFileLoggerBadDestination(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(t.TempDir(), "missing", "dir", "log")},
	}
	_, err := conf.prepare(zapcore.AddSync(&bytes.Buffer{}), false, false)
	assert.Error(t, err)
}
