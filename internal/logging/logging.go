// Package logging builds the zap logger shared by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log level and an optional rolling log file.
type Options struct {
	Level      string `json:"level" toml:"level"`
	File       string `json:"file" toml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" toml:"max_backups"`
}

// New returns a logger writing human readable lines to stderr and, when
// opts.File is set, JSON lines to a lumberjack-rotated file.
func New(opts Options) (*zap.Logger, error) {
	return newLogger(opts, os.Stderr)
}

func newLogger(opts Options, console io.Writer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, fmt.Errorf("logging: level %q: %w", opts.Level, err)
		}
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}

	if opts.File != "" {
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		rolling := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    size,
			MaxBackups: opts.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rolling),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
