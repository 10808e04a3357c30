package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/config"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "auditform.yaml")

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), path)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	want := config.DefaultConfig()
	assert.Equal(t, want.Server.Addr, loaded.Server.Addr)
	assert.Equal(t, want.Form, loaded.Form)
	assert.False(t, loaded.Form.CatalogCompletion)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\n"), 0600))

	err := runConfigInit(path, false)
	require.Error(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":9999")

	require.NoError(t, runConfigInit(path, true))
	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Addr, loaded.Server.Addr)
}
