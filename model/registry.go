package model

import (
	"errors"
	"fmt"

	"github.com/signadot/viewconf/schema"
)

const (
	// RootName is the definition name of the viewconf root.
	RootName = "Viewconf"
	// SchemaVersion is the version of the definitions in this package.
	SchemaVersion = "1.0.0"

	TilesetUIDPattern = `^[A-Za-z0-9_.\-]+$`
)

var ErrUnknownTrackType = errors.New("unknown track type")

// NewRegistry returns a resolved registry holding the viewconf types.
func NewRegistry(opts ...schema.Option) (*schema.Registry, error) {
	opts = append([]schema.Option{schema.WithVersion(SchemaVersion)}, opts...)
	r := schema.NewRegistry(opts...)
	if err := Register(r); err != nil {
		return nil, err
	}
	if err := r.Resolve(); err != nil {
		return nil, err
	}
	return r, nil
}

var defaultRegistry *schema.Registry

func init() {
	r, err := NewRegistry()
	if err != nil {
		panic(fmt.Sprintf("viewconf definitions: %v", err))
	}
	defaultRegistry = r
}

// Default returns the process registry, built at package initialization.
func Default() *schema.Registry {
	return defaultRegistry
}
