// Package logging builds the zap loggers used by the server.
package logging

import (
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New logs to stdout. pretty selects the console encoder over JSON.
func New(pretty bool, development bool, level zapcore.LevelEnabler) *zap.Logger {
	return NewZapLogger(zapcore.AddSync(os.Stdout), pretty, development, level)
}

// LevelFromString parses "debug", "info", "warn", "error" and friends.
func LevelFromString(level string) (zapcore.Level, error) {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

func baseEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	ec.TimeKey = "time"
	return ec
}

func jsonEncoder() zapcore.Encoder {
	ec := baseEncoderConfig()
	ec.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		nanos := t.UnixNano()
		millis := int64(math.Trunc(float64(nanos) / float64(time.Millisecond)))
		enc.AppendInt64(millis)
	}
	return zapcore.NewJSONEncoder(ec)
}

func consoleEncoder() zapcore.Encoder {
	ec := baseEncoderConfig()
	ec.ConsoleSeparator = " "
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05 PM")
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func attachBaseFields(logger *zap.Logger) *zap.Logger {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	return logger.With(
		zap.String("hostname", host),
		zap.Int("pid", os.Getpid()),
	)
}

func coreOptions(development bool) []zap.Option {
	var opts []zap.Option
	if development {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}
	return append(opts, zap.AddStacktrace(zap.ErrorLevel))
}

// NewZapLogger logs to syncer.
func NewZapLogger(syncer zapcore.WriteSyncer, pretty, development bool, level zapcore.LevelEnabler) *zap.Logger {
	encoder := jsonEncoder()
	if pretty {
		encoder = consoleEncoder()
	}

	logger := zap.New(zapcore.NewCore(encoder, syncer, level), coreOptions(development)...)
	return attachBaseFields(logger)
}
