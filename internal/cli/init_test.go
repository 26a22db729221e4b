package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andywolf/issuecast/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".issuecast.yaml")
	require.NoError(t, writeConfigFile(path, config.Default(), false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# issuecast configuration"))
	assert.NotContains(t, string(data), "api_key:")

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Linear.Timeout)
	assert.Equal(t, time.Second, cfg.Browser.LaunchInterval)
	assert.Equal(t, "https://chatgpt.com/codex", cfg.Target.URL)
	assert.Equal(t, "#prompt-textarea", cfg.Target.InputSelector)
	require.NoError(t, cfg.Validate())
}

func TestWriteConfigFile_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".issuecast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("custom: true\n"), 0644))

	err := writeConfigFile(path, config.Default(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	data, _ := os.ReadFile(path)
	assert.Equal(t, "custom: true\n", string(data))

	require.NoError(t, writeConfigFile(path, config.Default(), true))
	data, _ = os.ReadFile(path)
	assert.Contains(t, string(data), "127.0.0.1:9222")
}
