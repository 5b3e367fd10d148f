package repository

import (
	"github.com/ressKim-io/smartnlp/internal/domain/entity"
)

// ModelRegistry defines the interface for capability to model lookups
type ModelRegistry interface {
	// Lookup returns the model spec for a capability
	Lookup(capability entity.Capability) (entity.ModelSpec, error)

	// Capabilities returns all registered specs in canonical order
	Capabilities() []entity.ModelSpec
}
