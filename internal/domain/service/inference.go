package service

import (
	"context"

	"github.com/ressKim-io/smartnlp/internal/domain/entity"
)

// Handle is an initialized binding to a pretrained model for one capability
type Handle interface {
	// Capability returns the capability the handle serves
	Capability() entity.Capability

	// Model returns the model identifier the handle is bound to
	Model() string

	// Invoke runs inference for a validated request
	Invoke(ctx context.Context, req *entity.Request) (*entity.Result, error)
}

// Loader initializes model handles. Loading may be slow and I/O bound.
type Loader interface {
	Load(ctx context.Context, spec entity.ModelSpec) (Handle, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, spec entity.ModelSpec) (Handle, error)

// Load calls f(ctx, spec)
func (f LoaderFunc) Load(ctx context.Context, spec entity.ModelSpec) (Handle, error) {
	return f(ctx, spec)
}

// HandleResolver returns the cached handle for a capability
type HandleResolver interface {
	Resolve(ctx context.Context, capability entity.Capability) (Handle, error)
	Loaded() []entity.Capability
}
