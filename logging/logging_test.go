package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.appointy.com/entityinput/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewZapLogger(zapcore.AddSync(&buf), false, false, zapcore.InfoLevel)

	logger.Debug("hidden")
	logger.Info("Created entity", zap.String("id", "1"))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "Created entity", entry["msg"])
	require.Equal(t, "1", entry["id"])
	require.Equal(t, float64(os.Getpid()), entry["pid"])
	require.IsType(t, float64(0), entry["time"])
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewZapLogger(zapcore.AddSync(&buf), true, true, zapcore.DebugLevel)

	logger.Debug("Rejected mutation input")
	require.NoError(t, logger.Sync())
	require.Contains(t, buf.String(), "Rejected mutation input")
	require.Contains(t, buf.String(), "DEBUG")
}

func TestLevelFromString(t *testing.T) {
	level, err := logging.LevelFromString("debug")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, level)

	_, err = logging.LevelFromString("loud")
	require.EqualError(t, err, `unknown log level "loud"`)
}
