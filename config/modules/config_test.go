package modules

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webhookx-io/configvault/config/providers/vault"
)

func TestLogConfig(t *testing.T) {
	tests := []struct {
		desc                string
		cfg                 LogConfig
		expectedValidateErr error
	}{
		{
			desc: "sanity",
			cfg: LogConfig{
				Level:  LogLevelInfo,
				Format: LogFormatText,
			},
			expectedValidateErr: nil,
		},
		{
			desc: "invalid level",
			cfg: LogConfig{
				Level:  "",
				Format: LogFormatText,
			},
			expectedValidateErr: errors.New("invalid level: "),
		},
		{
			desc: "invalid level: x",
			cfg: LogConfig{
				Level:  "x",
				Format: LogFormatText,
			},
			expectedValidateErr: errors.New("invalid level: x"),
		},
		{
			desc: "invalid format",
			cfg: LogConfig{
				Level:  LogLevelInfo,
				Format: "xml",
			},
			expectedValidateErr: errors.New("invalid format: xml"),
		},
	}
	for _, test := range tests {
		actualValidateErr := test.cfg.Validate()
		assert.Equal(t, test.expectedValidateErr, actualValidateErr, "expected %v got %v", test.expectedValidateErr, actualValidateErr)
	}
}

func TestVaultConfig(t *testing.T) {
	tests := []struct {
		desc                string
		cfg                 func(cfg *VaultConfig)
		expectedValidateErr string
	}{
		{
			desc:                "disabled",
			cfg:                 func(cfg *VaultConfig) { cfg.Address = "" },
			expectedValidateErr: "",
		},
		{
			desc:                "sanity",
			cfg:                 func(cfg *VaultConfig) { cfg.Path = "dev" },
			expectedValidateErr: "",
		},
		{
			desc: "invalid auth method",
			cfg: func(cfg *VaultConfig) {
				cfg.AuthMethod = "ldap"
			},
			expectedValidateErr: "invalid auth_method: ldap",
		},
		{
			desc: "invalid kv version",
			cfg: func(cfg *VaultConfig) {
				cfg.Path = "dev"
				cfg.KVVersion = 3
			},
			expectedValidateErr: "invalid configuration: kv_version: invalid value: 3",
		},
		{
			desc: "missing address",
			cfg: func(cfg *VaultConfig) {
				cfg.Path = "dev"
				cfg.Address = ""
				cfg.Mount = ""
			},
			expectedValidateErr: "invalid configuration: address: required field missing, mount: required field missing",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			cfg := New().Vault
			test.cfg(&cfg)
			err := cfg.Validate()
			if test.expectedValidateErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, test.expectedValidateErr)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, LogLevelInfo, cfg.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
	assert.Equal(t, "/dev/stderr", cfg.Log.File)
	assert.Equal(t, "http://127.0.0.1:8200", cfg.Vault.Address)
	assert.Equal(t, "secret", cfg.Vault.Mount)
	assert.Equal(t, 2, cfg.Vault.KVVersion)
	assert.Equal(t, vault.AuthMethodToken, cfg.Vault.AuthMethod)
	assert.False(t, cfg.Vault.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestConfigString(t *testing.T) {
	cfg := New()
	cfg.Vault.AuthN.Token.Token = "hvs.secret"
	cfg.Vault.AuthN.AppRole.SecretID = "role-secret"

	str := cfg.String()
	assert.NotContains(t, str, "hvs.secret")
	assert.NotContains(t, str, "role-secret")

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(str), &m))
	assert.Equal(t, "******", m["vault"].(map[string]any)["authn"].(map[string]any)["token"].(map[string]any)["token"])
}

func TestPostProcess(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "DEBUG"
	cfg.Log.Format = "Json"
	cfg.Vault.Address = " https://vault.example.com:8200/ "
	cfg.Vault.Mount = "/kv/"
	cfg.Vault.AuthMethod = "AppRole"

	require.NoError(t, cfg.PostProcess())
	assert.Equal(t, LogLevelDebug, cfg.Log.Level)
	assert.Equal(t, LogFormatJson, cfg.Log.Format)
	assert.Equal(t, "https://vault.example.com:8200", cfg.Vault.Address)
	assert.Equal(t, "kv", cfg.Vault.Mount)
	assert.Equal(t, vault.AuthMethodAppRole, cfg.Vault.AuthMethod)
	assert.NoError(t, cfg.Validate())
}
