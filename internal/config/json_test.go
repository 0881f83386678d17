package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	content := `{
		"app": {
			"master_passphrase": "from-json",
			"token_sign_key": "sign-key",
			"session_duration": "12h"
		},
		"security": {
			"failed_attempt_threshold": 3,
			"lockout_duration": "10m"
		},
		"storage": {
			"db": {"engine": "sqlite", "dsn": "data/test.db"}
		},
		"server": {"http_address": "localhost:9090", "request_timeout": "45s"}
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "from-json", cfg.App.MasterPassphrase)
	assert.Equal(t, "sign-key", cfg.App.TokenSignKey)
	assert.Equal(t, 12*time.Hour, cfg.App.SessionDuration)
	assert.Equal(t, 3, cfg.Security.FailedAttemptThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Security.LockoutDuration)
	assert.Equal(t, "sqlite", cfg.Storage.DB.Engine)
	assert.Equal(t, "localhost:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("no/such/file.json")
	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalJSON([]byte(`"90s"`)))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, time.Duration(d))

	assert.Error(t, d.UnmarshalJSON([]byte(`"not a duration"`)))
}
