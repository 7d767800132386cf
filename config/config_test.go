package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/raivaus/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raivaus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
version: "1"
provider: aws
regions:
  - eu-north-1
  - us-east-1
protect:
  key: keep
  value: "true"
exclude_kinds:
  - cloudtrail_trail
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "aws", cfg.Provider)
	assert.Equal(t, []string{"eu-north-1", "us-east-1"}, cfg.Regions)
	require.NotNil(t, cfg.Protect)
	assert.Equal(t, "keep", cfg.Protect.Key)
	assert.Equal(t, "true", cfg.Protect.Value)
	assert.Equal(t, []string{"cloudtrail_trail"}, cfg.ExcludeKinds)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "version: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid minimal",
			cfg:  Config{Version: "1", Provider: "aws"},
		},
		{
			name:    "missing version",
			cfg:     Config{Provider: "aws"},
			wantErr: "version",
		},
		{
			name:    "missing provider",
			cfg:     Config{Version: "1"},
			wantErr: "provider",
		},
		{
			name:    "protect without key",
			cfg:     Config{Version: "1", Provider: "aws", Protect: &types.ProtectionRule{Value: "true"}},
			wantErr: "key",
		},
		{
			name:    "negative wait timeout",
			cfg:     Config{Version: "1", Provider: "aws", WaitTimeout: -time.Second},
			wantErr: "wait_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "aws", cfg.Provider)
	assert.Nil(t, cfg.Protect, "no protection rule unless the operator sets one")
}
