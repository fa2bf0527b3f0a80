// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override key so tests see pure defaults.
// applyEnv ignores empty values, so Setenv("") is enough.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AWS_REGION", "DEFAULT_MODEL_ID", "BACKEND_URL",
		"MODERNIZER_SSM_PREFIX", "MODERNIZER_PLATFORM",
		"MODERNIZER_DOCKER_BIN", "MODERNIZER_CDK_BIN", "MODERNIZER_HISTORY_DB",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "/modernizer", cfg.SSMPrefix)
	assert.Equal(t, "linux/amd64", cfg.Platform)
	assert.Equal(t, 8501, cfg.Frontend.Port)
	assert.Equal(t, "/_stcore/health", cfg.Frontend.HealthPath)
	assert.Equal(t, "/ecs/modernizer-backend", cfg.Backend.LogGroup)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	file := `
region: eu-west-1
frontend:
  dir: web
  port: 3000
  health_path: /healthz
  log_group: /ecs/web
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(file), 0o600))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "web", cfg.Frontend.Dir)
	assert.Equal(t, 3000, cfg.Frontend.Port)
	// untouched sections keep their defaults
	assert.Equal(t, 8000, cfg.Backend.Port)
	assert.Equal(t, "/modernizer", cfg.SSMPrefix)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("regoin: us-east-2\n"), 0o600))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("region: eu-west-1\n"), 0o600))
	t.Setenv("AWS_REGION", "ap-southeast-2")
	t.Setenv("DEFAULT_MODEL_ID", "anthropic.claude-3-5-haiku-20241022-v1:0")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "ap-southeast-2", cfg.Region)
	assert.Equal(t, "anthropic.claude-3-5-haiku-20241022-v1:0", cfg.DefaultModelID)
}

func TestValidateReportsBadFields(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	file := `
ssm_prefix: modernizer
backend:
  dir: backend
  port: 99999
  health_path: /health
  log_group: /ecs/modernizer-backend
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(file), 0o600))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "SSMPrefix")
	assert.Contains(t, err.Error(), "Port")
}

func TestServiceLookup(t *testing.T) {
	cfg := Default()

	svc, err := cfg.Service(ServiceBackend)
	require.NoError(t, err)
	assert.Equal(t, "backend", svc.Dir)

	_, err = cfg.Service("api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown service "api"`)

	assert.Equal(t, []string{"frontend", "backend"}, cfg.ServiceNames())
}
