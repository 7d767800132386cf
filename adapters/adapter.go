// Package adapters defines the capability contract between the sweep engine
// and kind-specific resource code. The engine is polymorphic over this
// capability set; new kinds are added by writing one adapter, zero engine
// changes.
package adapters

import (
	"context"

	"github.com/yairfalse/raivaus/types"
)

// Category is a teardown-ordering tier. The engine deletes categories
// strictly in the order of Categories(); that is the only cross-kind
// ordering guarantee it makes.
type Category string

const (
	// CategoryControlPlane: clusters with attached sub-resources, serverless
	// functions, gateways. Deleted first because later categories may be
	// referenced by them.
	CategoryControlPlane Category = "control-plane"
	// CategoryData: managed databases and their snapshots, caches,
	// analytics clusters. Final snapshots are skipped on teardown.
	CategoryData Category = "data"
	// CategoryNetwork: cheap networking adjuncts with no dependents once the
	// first two tiers are gone.
	CategoryNetwork Category = "network"
	// CategoryServices: build, messaging, and observability services with no
	// ordering constraints among themselves.
	CategoryServices Category = "services"
	// CategoryOrphans: orphan-detection pass, deliberately last since earlier
	// tiers may have been the only referents.
	CategoryOrphans Category = "orphans"
)

// Categories returns the fixed teardown order. Hand-specified policy, not an
// inferred dependency graph.
func Categories() []Category {
	return []Category{
		CategoryControlPlane,
		CategoryData,
		CategoryNetwork,
		CategoryServices,
		CategoryOrphans,
	}
}

// ResourceAdapter encapsulates everything kind-specific. Discover must be
// idempotent: calling twice returns the live current set, never a cached one.
type ResourceAdapter interface {
	// Kind names the resource kind, e.g. "s3_bucket".
	Kind() string
	// Category places the kind in the teardown order.
	Category() Category
	// Global reports whether the kind exists once per account rather than
	// per region. Global adapters run exactly once per sweep.
	Global() bool
	// Discover lists live instances of this kind in one scope.
	Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error)
	// Delete removes one instance. Provider-side rejection is reported per
	// resource and never aborts the run.
	Delete(ctx context.Context, d types.ResourceDescriptor) error
}

// TagLookuper is the optional tag-fetch capability consumed by the
// protection filter. Kinds without it cannot be protected; the filter
// degrades to proceed with a recorded caveat.
type TagLookuper interface {
	LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error)
}

// TerminalWaiter is the optional post-deletion confirmation capability.
// A timeout or polling error degrades to a warning, never a failure.
type TerminalWaiter interface {
	AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error
}
