package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialPrefersAPIKey(t *testing.T) {
	cfg := &FreshserviceConfig{APIKey: "  env-key  ", TokenFile: "/nonexistent"}
	key, err := cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
}

func TestCredentialReadsTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	require.NoError(t, os.WriteFile(path, []byte("file-key\n"), 0600))

	cfg := &FreshserviceConfig{TokenFile: path}
	key, err := cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, "file-key", key)
}

func TestCredentialErrors(t *testing.T) {
	cfg := &FreshserviceConfig{}
	_, err := cfg.Credential()
	assert.Error(t, err)

	cfg = &FreshserviceConfig{TokenFile: "/nonexistent/token.txt"}
	_, err = cfg.Credential()
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "token.txt")
	require.NoError(t, os.WriteFile(empty, []byte("   \n"), 0600))
	cfg = &FreshserviceConfig{TokenFile: empty}
	_, err = cfg.Credential()
	assert.Error(t, err)
}
