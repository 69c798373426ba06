package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testService = "loadertest"

type testConfig struct {
	Server struct {
		Port int    `koanf:"port"`
		Host string `koanf:"host"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("invalid port")
	}
	return nil
}

// writeFile creates a file with the given content in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom(t *testing.T) {
	const yamlContent = "server:\n  port: 8080\n  host: yaml-host\nlog:\n  level: info\n"

	testCases := []struct {
		name          string
		envFile       string
		env           map[string]string
		expectedPort  int
		expectedHost  string
		expectedLevel string
	}{
		{
			name:          "yaml only",
			expectedPort:  8080,
			expectedHost:  "yaml-host",
			expectedLevel: "info",
		},
		{
			name:          "dotenv overrides yaml",
			envFile:       "LOADERTEST_SERVER_HOST=dotenv-host\nOTHER_VALUE=ignored\n",
			expectedPort:  8080,
			expectedHost:  "dotenv-host",
			expectedLevel: "info",
		},
		{
			name:          "system env overrides dotenv",
			envFile:       "LOADERTEST_SERVER_HOST=dotenv-host\n",
			env:           map[string]string{"LOADERTEST_SERVER_HOST": "env-host", "LOADERTEST_LOG_LEVEL": "debug"},
			expectedPort:  8080,
			expectedHost:  "env-host",
			expectedLevel: "debug",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			dir := t.TempDir()
			configFile := writeFile(t, dir, "config.yaml", yamlContent)
			envFile := filepath.Join(dir, ".env")
			if tc.envFile != "" {
				envFile = writeFile(t, dir, ".env", tc.envFile)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// when
			cfg, err := LoadFrom[*testConfig](testService, configFile, envFile)

			// then
			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.Equal(t, tc.expectedPort, cfg.Server.Port)
			assert.Equal(t, tc.expectedHost, cfg.Server.Host)
			assert.Equal(t, tc.expectedLevel, cfg.Log.Level)
		})
	}
}

func TestLoadFrom_MissingFilesFailValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFrom[*testConfig](testService, filepath.Join(dir, "absent.yaml"), filepath.Join(dir, ".env"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadFrom_EnvOnly(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOADERTEST_SERVER_PORT", "9090")

	cfg, err := LoadFrom[*testConfig](testService, filepath.Join(dir, "absent.yaml"), filepath.Join(dir, ".env"))

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}
