package adapters

import (
	"context"
	"fmt"

	"github.com/yairfalse/raivaus/types"
)

// Provider supplies the sweep's scopes and its adapter set for one cloud.
type Provider interface {
	// Name identifies the provider, e.g. "aws".
	Name() string
	// ListScopes enumerates the regional scopes once per run. Failure here is
	// a startup-level fault: without scopes there is nothing to sweep.
	ListScopes(ctx context.Context) ([]types.Scope, error)
	// Adapters returns every registered adapter, any order. The engine
	// groups and orders them by category.
	Adapters() []ResourceAdapter
}

// ProviderConfig holds provider construction settings.
type ProviderConfig struct {
	// Regions restricts the sweep to an allowlist. Empty means enumerate
	// every enabled region.
	Regions []string
	// ExcludeKinds drops adapters by kind name before the sweep starts.
	ExcludeKinds []string
}

// ProviderFactory creates a provider instance.
type ProviderFactory func(ctx context.Context, cfg ProviderConfig) (Provider, error)

var providerFactories = make(map[string]ProviderFactory)

// RegisterProvider registers a provider factory under a name.
func RegisterProvider(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// GetProvider creates a provider instance by name.
func GetProvider(ctx context.Context, name string, cfg ProviderConfig) (Provider, error) {
	factory, exists := providerFactories[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	return factory(ctx, cfg)
}

// ListProviders returns the registered provider names.
func ListProviders() []string {
	names := make([]string, 0, len(providerFactories))
	for name := range providerFactories {
		names = append(names, name)
	}
	return names
}
