package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// AppName names the program logger.
const AppName = "draft2pm"

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`

	file *os.File
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// Prepare returns the program logger. Console output always goes to stderr,
// stdout is reserved for converted documents. When debug is set the console
// logger is switched to debug level.
func (conf *LoggingConfig) Prepare(debug bool) (*zap.Logger, error) {
	return conf.prepare(os.Stderr, EnableColorOutput(os.Stderr), debug)
}

func (conf *LoggingConfig) prepare(console zapcore.WriteSyncer, color, debug bool) (*zap.Logger, error) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := conf.ConsoleLogger.Level
	if debug {
		level = "debug"
	}

	var consoleCore zapcore.Core
	switch level {
	case "normal":
		consoleCore = zapcore.NewCore(newEncoder(ec), zapcore.Lock(console), zap.InfoLevel)
	case "debug":
		consoleCore = zapcore.NewCore(newEncoder(ec), zapcore.Lock(console), zap.DebugLevel)
	default:
		consoleCore = zapcore.NewNopCore()
	}

	var (
		fileCore zapcore.Core
		logLevel zapcore.Level
	)
	switch conf.FileLogger.Level {
	case "debug":
		logLevel = zap.DebugLevel
	case "normal":
		logLevel = zap.InfoLevel
	}

	if conf.FileLogger.Level == "debug" || conf.FileLogger.Level == "normal" {
		flags := os.O_CREATE | os.O_WRONLY
		if conf.FileLogger.Mode == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(conf.FileLogger.Destination, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, err)
		}
		conf.file = f
		fileCore = zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), logLevel)
	} else {
		fileCore = zapcore.NewNopCore()
	}

	return zap.New(zapcore.NewTee(consoleCore, fileCore), zap.AddCaller()).Named(AppName), nil
}

// Close closes the log file opened by Prepare, if any.
func (conf *LoggingConfig) Close() error {
	if conf.file == nil {
		return nil
	}
	f := conf.file
	conf.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close log file: %w", err)
	}
	return nil
}

// When logging error to console do not output verbose message.

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			e := f.Interface.(error)
			f.Interface = errors.New(e.Error())
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
