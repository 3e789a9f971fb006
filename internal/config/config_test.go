package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	tests := []struct {
		name         string
		flagValue    string
		envKey       string
		envValue     string
		defaultValue string
		expected     string
	}{
		{
			name:         "flag wins over env and default",
			flagValue:    "from-flag",
			envKey:       "TEST_CONFIG_KEY",
			envValue:     "from-env",
			defaultValue: "from-default",
			expected:     "from-flag",
		},
		{
			name:         "env wins over default",
			flagValue:    "",
			envKey:       "TEST_CONFIG_KEY",
			envValue:     "from-env",
			defaultValue: "from-default",
			expected:     "from-env",
		},
		{
			name:         "default when nothing else set",
			flagValue:    "",
			envKey:       "TEST_CONFIG_KEY",
			envValue:     "",
			defaultValue: "from-default",
			expected:     "from-default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.envKey, tt.envValue)
			}
			got := getConfigValue(tt.flagValue, tt.envKey, tt.defaultValue)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("TEST_INT_KEY", "12")
	assert.Equal(t, 12, getIntConfigValue("", "TEST_INT_KEY", 4))

	t.Setenv("TEST_INT_KEY", "not-a-number")
	assert.Equal(t, 4, getIntConfigValue("", "TEST_INT_KEY", 4))

	assert.Equal(t, 4, getIntConfigValue("", "TEST_INT_UNSET", 4))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/shelfmind-data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shelfmind-data"), got)

	got, err = expandPath("", "/srv/default")
	require.NoError(t, err)
	assert.Equal(t, "/srv/default", got)

	got, err = expandPath("/already/abs", "/srv/default")
	require.NoError(t, err)
	assert.Equal(t, "/already/abs", got)
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Data:   DataConfig{BasePath: "/tmp/shelfmind"},
			Miner:  MinerConfig{Workers: 2},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("invalid environment rejected", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "qa"
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid log level rejected", func(t *testing.T) {
		cfg := base()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		cfg := base()
		cfg.Miner.Workers = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\nSHELFMIND_TEST_VAR=hello\nSHELFMIND_QUOTED=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("SHELFMIND_TEST_VAR", "")
	t.Setenv("SHELFMIND_QUOTED", "")
	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "hello", os.Getenv("SHELFMIND_TEST_VAR"))
	assert.Equal(t, "quoted value", os.Getenv("SHELFMIND_QUOTED"))
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "/srv/shelfmind"}}
	assert.Equal(t, "/srv/shelfmind/graph", cfg.GraphPath())
	assert.Equal(t, "/srv/shelfmind/search", cfg.SearchPath())
}
