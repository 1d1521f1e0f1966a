package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is the merged configuration tree produced by a Builder.
type Config struct {
	root Map
}

// Map returns a copy of the whole tree.
func (c *Config) Map() Map {
	return c.root.Clone()
}

// Get looks up a dotted key. Numeric segments index into arrays,
// e.g. "database.hosts.0".
func (c *Config) Get(key string) (Value, bool) {
	parts, err := splitKey(key)
	if err != nil {
		return Value{}, false
	}
	return lookup(c.root, parts)
}

func (c *Config) get(key string) (Value, error) {
	v, ok := c.Get(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

func (c *Config) GetString(key string) (string, error) {
	v, err := c.get(key)
	if err != nil {
		return "", err
	}
	switch v.Kind() {
	case KindTable, KindArray:
		return "", fmt.Errorf("%q: %w", key, v.typeError(KindString))
	}
	return v.String(), nil
}

func (c *Config) GetInt(key string) (int64, error) {
	v, err := c.get(key)
	if err != nil {
		return 0, err
	}
	i, err := v.Int()
	if err != nil {
		return 0, fmt.Errorf("%q: %w", key, err)
	}
	return i, nil
}

func (c *Config) GetFloat(key string) (float64, error) {
	v, err := c.get(key)
	if err != nil {
		return 0, err
	}
	f, err := v.Float()
	if err != nil {
		return 0, fmt.Errorf("%q: %w", key, err)
	}
	return f, nil
}

func (c *Config) GetBool(key string) (bool, error) {
	v, err := c.get(key)
	if err != nil {
		return false, err
	}
	b, err := v.Bool()
	if err != nil {
		return false, fmt.Errorf("%q: %w", key, err)
	}
	return b, nil
}

// Unmarshal decodes the whole tree into v using the "json" struct tags.
func (c *Config) Unmarshal(v any) error {
	return decode(c.root.Interface(), v)
}

// UnmarshalKey decodes the subtree at key into v.
func (c *Config) UnmarshalKey(key string, v any) error {
	value, err := c.get(key)
	if err != nil {
		return err
	}
	return decode(value.Interface(), v)
}

func decode(input any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func (c *Config) String() string {
	b, err := c.root.MarshalJSON()
	if err != nil {
		panic(err)
	}
	return string(b)
}
