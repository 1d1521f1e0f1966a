package modules

import (
	"encoding/json"

	"github.com/creasty/defaults"
	"github.com/webhookx-io/configvault/config/types"
)

var _ types.Config = &Config{}

// Config holds the settings the loader needs before it can build the
// application configuration.
type Config struct {
	BaseConfig
	Log   LogConfig   `yaml:"log" json:"log"`
	Vault VaultConfig `yaml:"vault" json:"vault"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Log.Validate(); err != nil {
		return err
	}
	if err := cfg.Vault.Validate(); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) PostProcess() error {
	if err := cfg.Log.PostProcess(); err != nil {
		return err
	}
	if err := cfg.Vault.PostProcess(); err != nil {
		return err
	}
	return nil
}

func (cfg Config) String() string {
	bytes, err := json.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func New() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}
