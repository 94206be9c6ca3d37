package config

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

const appName = "cssvars"

func validateLevel(level string) error {
	switch level {
	case "", LevelNone, LevelNormal, LevelDebug:
		return nil
	}
	return fmt.Errorf("unknown logging level %q (valid options: %s, %s, %s)", level, LevelNone, LevelNormal, LevelDebug)
}

// NewLogger returns the console logger used by the commands. Timestamps and
// callers are left out; "normal" logs Info and above, "debug" everything.
func NewLogger(level string, w io.Writer) (*zap.Logger, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}

	var enabler zapcore.LevelEnabler
	switch level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelDebug:
		enabler = zapcore.DebugLevel
	default:
		enabler = zapcore.InfoLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), enabler)
	return zap.New(core).Named(appName), nil
}
