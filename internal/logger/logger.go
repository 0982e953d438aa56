package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// New builds the CLI logger. It writes to stderr so command output on stdout
// stays pipeable.
func New(json bool, debug bool) (*zap.Logger, error) {
	logger, err := newConfig(json, debug, term.IsTerminal(int(os.Stderr.Fd()))).Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	return logger, nil
}

func newConfig(json, debug, color bool) zap.Config {
	level := zapcore.InfoLevel
	encoding := "console"
	encodeLevel := zapcore.LowercaseLevelEncoder

	if json {
		encoding = "json"
	} else if color {
		encodeLevel = zapcore.LowercaseColorLevelEncoder
	}

	if debug {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.EncoderConfig{
		MessageKey: "step",

		LevelKey:    "level",
		EncodeLevel: encodeLevel,

		TimeKey:    "time",
		EncodeTime: zapcore.RFC3339TimeEncoder,

		EncodeDuration: zapcore.StringDurationEncoder,
	}

	// Callers only help when debugging the cli itself.
	if debug {
		encoder.CallerKey = "caller"
		encoder.EncodeCaller = zapcore.ShortCallerEncoder
	}

	return zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     !debug,
		DisableStacktrace: !debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoder,
	}
}
