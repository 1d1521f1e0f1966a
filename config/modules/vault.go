package modules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/webhookx-io/configvault/config/providers/vault"
	"github.com/webhookx-io/configvault/utils"
)

type VaultConfig struct {
	BaseConfig
	Address    string      `yaml:"address" json:"address" default:"http://127.0.0.1:8200" validate:"required,url"`
	Namespace  string      `yaml:"namespace" json:"namespace"`
	Mount      string      `yaml:"mount" json:"mount" default:"secret" validate:"required"`
	Path       string      `yaml:"path" json:"path"`
	KVVersion  int         `yaml:"kv_version" json:"kv_version" default:"2" validate:"oneof=1 2"`
	AuthMethod string      `yaml:"auth_method" json:"auth_method" default:"token"`
	AuthN      vault.AuthN `yaml:"authn" json:"authn"`
}

// Enabled reports whether a secret path is configured.
func (cfg *VaultConfig) Enabled() bool {
	return cfg.Path != ""
}

func (cfg *VaultConfig) PostProcess() error {
	cfg.Address = strings.TrimSuffix(strings.TrimSpace(cfg.Address), "/")
	cfg.Mount = strings.Trim(cfg.Mount, "/")
	cfg.AuthMethod = strings.ToLower(cfg.AuthMethod)
	return nil
}

func (cfg *VaultConfig) Validate() error {
	if !slices.Contains([]string{vault.AuthMethodToken, vault.AuthMethodAppRole, vault.AuthMethodKubernetes}, cfg.AuthMethod) {
		return fmt.Errorf("invalid auth_method: %s", cfg.AuthMethod)
	}
	if !cfg.Enabled() {
		return nil
	}
	return utils.Validate(cfg)
}
