package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webhookx-io/configvault/config/modules"
)

func TestNewZapLoggerJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "configvault.log")
	logger, err := NewZapLogger(&modules.LogConfig{
		File:   file,
		Level:  modules.LogLevelInfo,
		Format: modules.LogFormatJson,
	})
	require.NoError(t, err)

	logger.Named("vault").Debugf("hidden")
	logger.Named("vault").Infof("loaded %d keys", 3)
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "vault", entry["logger"])
	assert.Equal(t, "loaded 3 keys", entry["msg"])
}

func TestNewZapLoggerText(t *testing.T) {
	file := filepath.Join(t.TempDir(), "configvault.log")
	logger, err := NewZapLogger(&modules.LogConfig{
		File:   file,
		Level:  modules.LogLevelDebug,
		Format: modules.LogFormatText,
	})
	require.NoError(t, err)

	logger.Named("core").Debugf("fetching secret '%s'", "dev")
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[core]")
	assert.Contains(t, string(b), "DEBUG")
	assert.Contains(t, string(b), "fetching secret 'dev'")
}

func TestNewZapLoggerErrors(t *testing.T) {
	_, err := NewZapLogger(&modules.LogConfig{Level: "loud", Format: modules.LogFormatText})
	assert.Error(t, err)

	_, err = NewZapLogger(&modules.LogConfig{Level: modules.LogLevelInfo, Format: "xml"})
	assert.EqualError(t, err, "invalid format: xml")
}
