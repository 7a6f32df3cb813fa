package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's outputs and initial fields.
type Options struct {
	Component string // program name, e.g. "telecloned"
	Profile   string // client profile, empty for the server
	Console   bool   // also write to stderr
	Debug     bool
}

// New creates a zap logger that writes JSON to the given log file path and,
// with Console set, also writes to stderr. Component, profile and PID are
// included as initial fields.
func New(logPath string, o Options) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	level := zapcore.InfoLevel
	if o.Debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level),
	}
	if o.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stderr), level))
	}

	fields := []zap.Field{
		zap.String("component", o.Component),
		zap.Int("pid", os.Getpid()),
	}
	if o.Profile != "" {
		fields = append(fields, zap.String("profile", o.Profile))
	}
	return zap.New(zapcore.NewTee(cores...), zap.Fields(fields...)), nil
}
