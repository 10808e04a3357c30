package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Empty(t, c.Vision.APIKey, "no credential may ship as a default")
	assert.Empty(t, c.Webhook.URL, "no endpoint may ship as a default")
	assert.Equal(t, "Hussein Badawi", c.Form.Auditor)
	assert.InDelta(t, 0.1, c.Vision.Temperature, 1e-9)
	assert.False(t, c.Form.CatalogCompletion, "scanned values are stored as read unless enabled")
}

func TestLoadConfig_CatalogCompletionEnv(t *testing.T) {
	t.Setenv("AUDITFORM_CATALOG_COMPLETION", "true")
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, c.Form.CatalogCompletion)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditform.yaml")
	yamlDoc := `
server:
  addr: ":9090"
  open_browser: false
vision:
  model: gemini-2.0-flash
  timeout: 10s
webhook:
  url: https://example.invalid/file
form:
  auditor: Someone Else
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0600))
	t.Setenv("AUDITFORM_VISION_API_KEY", "secret")
	t.Setenv("AUDITFORM_WEBHOOK_URL", "https://example.invalid/env")

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.False(t, c.Server.OpenBrowser)
	assert.Equal(t, "gemini-2.0-flash", c.Vision.Model)
	assert.Equal(t, 10*time.Second, c.Vision.Timeout)
	assert.Equal(t, "secret", c.Vision.APIKey)
	assert.Equal(t, "https://example.invalid/env", c.Webhook.URL, "env overrides file")
	assert.Equal(t, "Someone Else", c.Form.Auditor)
	assert.Equal(t, int64(10<<20), c.Server.MaxUploadBytes, "unset keys keep defaults")
	assert.Equal(t, c, GetConfig())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Addr, c.Server.Addr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))
	_, err := LoadConfig(path)
	assert.Error(t, err)

	t.Setenv("AUDITFORM_VISION_TEMPERATURE", "hot")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero upload", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{"zero scan rate", func(c *Config) { c.Server.ScanRate = 0 }},
		{"empty db", func(c *Config) { c.Database.Path = "" }},
		{"temperature", func(c *Config) { c.Vision.Temperature = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRedacted(t *testing.T) {
	c := DefaultConfig()
	c.Vision.APIKey = "secret"
	c.Webhook.URL = "https://example.invalid"

	r := c.Redacted()
	assert.NotContains(t, r.Vision.APIKey, "secret")
	assert.NotContains(t, r.Webhook.URL, "example")
	assert.Equal(t, "secret", c.Vision.APIKey, "original untouched")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "auditform.yaml")
	c := DefaultConfig()
	c.Server.Addr = ":7070"
	require.NoError(t, SaveConfig(path, c))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", loaded.Server.Addr)
}
