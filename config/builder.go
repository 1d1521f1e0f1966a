package config

import (
	"context"
)

type setting struct {
	key   string
	value any
}

// Builder assembles a Config from layered sources.
// Precedence, lowest first: defaults, sources in the order they were
// added, overrides.
type Builder struct {
	defaults  []setting
	sources   []Source
	overrides []setting
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SetDefault(key string, value any) *Builder {
	b.defaults = append(b.defaults, setting{key: key, value: value})
	return b
}

func (b *Builder) AddSource(source Source) *Builder {
	b.sources = append(b.sources, source)
	return b
}

func (b *Builder) SetOverride(key string, value any) *Builder {
	b.overrides = append(b.overrides, setting{key: key, value: value})
	return b
}

func apply(root Map, settings []setting) error {
	for _, s := range settings {
		parts, err := splitKey(s.key)
		if err != nil {
			return NewError("", err)
		}
		value, err := ValueOf(s.value)
		if err != nil {
			return NewError(s.key, err)
		}
		if len(parts) == 0 {
			table, err := value.Table()
			if err != nil {
				return NewError(s.key, err)
			}
			merge(root, table)
			continue
		}
		assign(root, parts, value.clone())
	}
	return nil
}

// Build collects every source. The first failing source aborts the build
// and its error is returned as is.
func (b *Builder) Build(ctx context.Context) (*Config, error) {
	root := make(Map)
	if err := apply(root, b.defaults); err != nil {
		return nil, err
	}

	for _, source := range b.sources {
		values, err := source.Collect(ctx)
		if err != nil {
			return nil, err
		}
		merge(root, values)
	}

	if err := apply(root, b.overrides); err != nil {
		return nil, err
	}

	return &Config{root: root}, nil
}
