package config

import (
	"context"
)

//go:generate mockgen -source=source.go -destination=mocks/source.go -package=mocks

// Source produces one layer of configuration.
type Source interface {
	// Collect returns the values of this layer. A failing source returns
	// no values at all.
	Collect(ctx context.Context) (Map, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Map, error)

func (fn SourceFunc) Collect(ctx context.Context) (Map, error) {
	return fn(ctx)
}
