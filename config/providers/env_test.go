package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webhookx-io/configvault/config"
)

func TestEnvSource(t *testing.T) {
	env := map[string]string{
		"APP_DATABASE__HOST": "localhost",
		"APP_DATABASE__PORT": "5432",
		"app_debug":          "true",
		"APP_":               "ignored",
		"APP_A____B":         "ignored",
		"OTHER_KEY":          "ignored",
		"APPLICATION":        "ignored",
	}

	m, err := NewEnvSource("APP").WithEnv(env).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"database": map[string]any{
			"host": "localhost",
			"port": "5432",
		},
		"debug": "true",
	}, m.Interface())
}

func TestEnvSourceTryParsing(t *testing.T) {
	env := map[string]string{
		"APP_INT":    "42",
		"APP_FLOAT":  "0.25",
		"APP_BOOL":   "FALSE",
		"APP_STRING": "hello",
	}

	m, err := NewEnvSource("APP").WithEnv(env).WithTryParsing(true).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, config.NewInt(42), m["int"])
	assert.Equal(t, config.NewFloat(0.25), m["float"])
	assert.Equal(t, config.NewBool(false), m["bool"])
	assert.Equal(t, config.NewString("hello"), m["string"])
}

func TestEnvSourceSeparator(t *testing.T) {
	env := map[string]string{"APP_VAULT_KV_VERSION": "1"}

	m, err := NewEnvSource("APP").WithEnv(env).WithSeparator("_").Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"vault": map[string]any{"kv": map[string]any{"version": "1"}}}, m.Interface())

	m, err = NewEnvSource("APP").WithEnv(env).WithSeparator("").Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"vault_kv_version": "1"}, m.Interface())
}

func TestEnvSourceConflict(t *testing.T) {
	// APP_A sorts first and is then replaced by the table built for APP_A__B
	env := map[string]string{
		"APP_A":    "scalar",
		"APP_A__B": "nested",
	}

	m, err := NewEnvSource("APP").WithEnv(env).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": "nested"}}, m.Interface())
}

func TestEnvSourceProcessEnv(t *testing.T) {
	t.Setenv("CONFIGVAULT_TEST_SOURCE__KEY", "value")

	source := NewEnvSource("configvault_test")
	assert.Equal(t, "env(configvault_test)", source.String())
	m, err := source.Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"source": map[string]any{"key": "value"}}, m.Interface())
}
