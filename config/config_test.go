package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.appointy.com/entityinput/config"
	"go.appointy.com/entityinput/remap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	result, err := config.LoadConfig("", "")
	require.NoError(t, err)
	require.False(t, result.DefaultLoaded)

	cfg := result.Config
	require.Equal(t, "localhost:8080", cfg.ListenAddr)
	require.Equal(t, "/graphql", cfg.GraphQLPath)
	require.True(t, cfg.PlaygroundEnabled)
	require.Equal(t, "mem://entities/id", cfg.StorageURL)
	require.Equal(t, "reject", cfg.UnknownKeys)
	require.Equal(t, remap.RejectUnknown, cfg.Policy())
	require.Equal(t, 10*time.Second, cfg.ShutdownDelay)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("UNKNOWN_KEYS", "drop")
	t.Setenv("SHUTDOWN_DELAY", "1s")
	t.Setenv("DEV_MODE", "true")

	result, err := config.LoadConfig("", "")
	require.NoError(t, err)
	require.Equal(t, remap.DropUnknown, result.Config.Policy())
	require.Equal(t, time.Second, result.Config.ShutdownDelay)
	require.False(t, result.Config.JSONLog)
	require.Equal(t, "debug", result.Config.LogLevel)
}

func TestEnvOverrideFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LISTEN_ADDR", "")
	path := writeFile(t, ".env.test", "LISTEN_ADDR=0.0.0.0:9000\n")

	result, err := config.LoadConfig("", path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", result.Config.ListenAddr)
}

func TestYAMLFile(t *testing.T) {
	t.Setenv("SCHEMA_DIR", "/etc/entityinput")
	path := writeFile(t, "config.yaml", `
listen_addr: ":8081"
schema_path: "${SCHEMA_DIR}/article.graphql"
unknown_keys: drop
playground: false
log_level: warn
`)

	result, err := config.LoadConfig(path, "")
	require.NoError(t, err)
	require.True(t, result.DefaultLoaded)

	cfg := result.Config
	require.Equal(t, ":8081", cfg.ListenAddr)
	require.Equal(t, "/etc/entityinput/article.graphql", cfg.SchemaPath)
	require.Equal(t, remap.DropUnknown, cfg.Policy())
	require.False(t, cfg.PlaygroundEnabled)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "/graphql", cfg.GraphQLPath)
}

func TestMissingCustomFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.ErrorContains(t, err, "could not read custom config file")
}

func TestUnknownYAMLField(t *testing.T) {
	path := writeFile(t, "config.yaml", "listen_adr: \":8081\"\n")

	_, err := config.LoadConfig(path, "")
	require.ErrorContains(t, err, "failed to unmarshal config")
}

func TestValidate(t *testing.T) {
	cfg := config.Config{
		GraphQLPath:       "graphql",
		PlaygroundEnabled: true,
		PlaygroundPath:    "/",
		SchemaPath:        "schema.graphql",
		StorageURL:        "mem://entities/id",
		UnknownKeys:       "ignore",
		LogLevel:          "loud",
	}

	err := cfg.Validate()
	require.ErrorContains(t, err, `unknown_keys must be "reject" or "drop", got "ignore"`)
	require.ErrorContains(t, err, `unknown log level "loud"`)
	require.ErrorContains(t, err, `graphql_path must start with /, got "graphql"`)

	cfg = config.Config{
		GraphQLPath:       "/graphql",
		PlaygroundEnabled: true,
		PlaygroundPath:    "/graphql",
		StorageURL:        "mem://entities/id",
		UnknownKeys:       "reject",
		LogLevel:          "info",
	}
	err = cfg.Validate()
	require.ErrorContains(t, err, "playground_path and graphql_path must differ")
	require.ErrorContains(t, err, "schema_path is required")
}
