package providers

import (
	"context"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/webhookx-io/configvault/config"
)

const DefaultSeparator = "__"

// EnvSource reads configuration from environment variables that start with
// PREFIX_. The rest of the name is lower-cased and split on the separator:
// with prefix "APP", APP_DATABASE__HOST becomes database.host.
type EnvSource struct {
	prefix     string
	separator  string
	env        map[string]string
	tryParsing bool
}

var _ config.Source = (*EnvSource)(nil)

func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{
		prefix:    prefix,
		separator: DefaultSeparator,
	}
}

func (p *EnvSource) WithSeparator(separator string) *EnvSource {
	p.separator = separator
	return p
}

// WithEnv replaces the process environment, mostly for tests.
func (p *EnvSource) WithEnv(env map[string]string) *EnvSource {
	p.env = env
	return p
}

// WithTryParsing turns values that look like booleans or numbers into
// typed values instead of strings.
func (p *EnvSource) WithTryParsing(tryParsing bool) *EnvSource {
	p.tryParsing = tryParsing
	return p
}

func (p *EnvSource) String() string {
	return "env(" + p.prefix + ")"
}

func (p *EnvSource) environ() map[string]string {
	if p.env != nil {
		return p.env
	}
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func (p *EnvSource) Collect(ctx context.Context) (config.Map, error) {
	prefix := ""
	if p.prefix != "" {
		prefix = strings.ToUpper(p.prefix) + "_"
	}

	env := p.environ()
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	// sorted so that conflicting names resolve the same way on every run
	sort.Strings(names)

	m := make(config.Map)
	for _, name := range names {
		value := env[name]
		if !strings.HasPrefix(strings.ToUpper(name), prefix) {
			continue
		}
		key := strings.ToLower(name[len(prefix):])
		if key == "" {
			continue
		}

		var parts []string
		if p.separator != "" {
			parts = strings.Split(key, p.separator)
		} else {
			parts = []string{key}
		}
		if hasEmpty(parts) {
			continue
		}
		set(m, parts, p.parse(value))
	}
	return m, nil
}

func (p *EnvSource) parse(value string) config.Value {
	if !p.tryParsing {
		return config.NewString(value)
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return config.NewInt(i)
	}
	switch strings.ToLower(value) {
	case "true":
		return config.NewBool(true)
	case "false":
		return config.NewBool(false)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return config.NewFloat(f)
	}
	return config.NewString(value)
}

func hasEmpty(parts []string) bool {
	for _, part := range parts {
		if part == "" {
			return true
		}
	}
	return false
}

func set(m config.Map, parts []string, value config.Value) {
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part]
		table, err := next.Table()
		if !ok || err != nil {
			table = make(config.Map)
			m[part] = config.NewTable(table)
		}
		m = table
	}
	m[parts[len(parts)-1]] = value
}
