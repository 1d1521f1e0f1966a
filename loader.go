package configvault

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/webhookx-io/configvault/config"
	"github.com/webhookx-io/configvault/config/modules"
	"github.com/webhookx-io/configvault/config/providers"
	"github.com/webhookx-io/configvault/config/providers/vault"
	"github.com/webhookx-io/configvault/pkg/log"
	"go.uber.org/zap"
)

const DefaultSettingsPrefix = "CONFIGVAULT"

// Loader builds the application configuration from a YAML file, a Vault
// secret and environment variables, in increasing order of precedence.
// The loader's own settings live under the "configvault" section of the
// file and in CONFIGVAULT_* variables.
type Loader struct {
	filename       string
	fileContent    []byte
	envPrefix      string
	settingsPrefix string

	settings *modules.Config
	log      *zap.SugaredLogger
}

func NewLoader() *Loader {
	return &Loader{settingsPrefix: DefaultSettingsPrefix}
}

func (l *Loader) WithFilename(filename string) *Loader {
	l.filename = filename
	return l
}

func (l *Loader) WithFileContent(content []byte) *Loader {
	l.fileContent = content
	return l
}

// WithEnvPrefix enables the environment layer of the application
// configuration.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

func (l *Loader) WithSettingsPrefix(prefix string) *Loader {
	l.settingsPrefix = prefix
	return l
}

// Settings returns the settings used by the last Load.
func (l *Loader) Settings() *modules.Config {
	return l.settings
}

func (l *Loader) settingsKey() string {
	return strings.ToLower(l.settingsPrefix)
}

func (l *Loader) fileSource() *providers.YAMLSource {
	return providers.NewYAMLSource(l.filename, l.fileContent)
}

func (l *Loader) loadSettings(ctx context.Context) (*modules.Config, error) {
	settings := modules.New()

	cfg, err := config.NewBuilder().
		AddSource(l.fileSource().WithKey(l.settingsKey())).
		AddSource(providers.NewEnvSource(l.settingsPrefix)).
		Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Unmarshal(settings); err != nil {
		return nil, err
	}
	if err := settings.PostProcess(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	return settings, nil
}

func (l *Loader) newVaultSource(ctx context.Context, cfg *modules.VaultConfig) (*vault.Source, error) {
	token, err := vault.Login(ctx, vault.LoginOptions{
		Address:   cfg.Address,
		Namespace: cfg.Namespace,
		Method:    cfg.AuthMethod,
		AuthN:     cfg.AuthN,
	})
	if err != nil {
		return nil, err
	}

	source := vault.New(cfg.Address, token, cfg.Mount, cfg.Path).
		WithNamespace(cfg.Namespace).
		WithLogger(l.log.Named("vault"))
	source.SetKVVersion(vault.KVVersion(cfg.KVVersion))
	return source, nil
}

// Load reads the settings, then builds the application configuration.
func (l *Loader) Load(ctx context.Context) (*config.Config, error) {
	settings, err := l.loadSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not load settings")
	}
	l.settings = settings

	logger, err := log.NewZapLogger(&settings.Log)
	if err != nil {
		return nil, errors.Wrap(err, "could not create logger")
	}
	l.log = logger.Named("core")

	file := l.fileSource()
	settingsKey := l.settingsKey()
	builder := config.NewBuilder().
		AddSource(config.SourceFunc(func(ctx context.Context) (config.Map, error) {
			m, err := file.Collect(ctx)
			if err != nil {
				return nil, err
			}
			delete(m, settingsKey)
			return m, nil
		}))

	if settings.Vault.Enabled() {
		source, err := l.newVaultSource(ctx, &settings.Vault)
		if err != nil {
			return nil, errors.Wrap(err, "could not create vault source")
		}
		l.log.Infof("loading configuration from %s", source)
		builder.AddSource(source)
	}

	if l.envPrefix != "" {
		builder.AddSource(providers.NewEnvSource(l.envPrefix).WithTryParsing(true))
	}

	cfg, err := builder.Build(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not load configuration")
	}
	return cfg, nil
}

// Load is a shortcut for a Loader reading filename with the given
// environment prefix.
func Load(ctx context.Context, filename string, envPrefix string) (*config.Config, error) {
	return NewLoader().WithFilename(filename).WithEnvPrefix(envPrefix).Load(ctx)
}
