package adapters

import (
	"fmt"

	"github.com/yairfalse/raivaus/types"
)

// DiscoveryError means the listing call itself failed for one (kind, scope)
// pair. The engine skips the pair and continues.
type DiscoveryError struct {
	Kind  string
	Scope types.Scope
	Cause error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for %s in %s: %v", e.Kind, e.Scope, e.Cause)
}

func (e *DiscoveryError) Unwrap() error { return e.Cause }

// DeletionError means the provider rejected one resource's deletion, e.g.
// because it still has dependents. Reported, never fatal.
type DeletionError struct {
	Resource types.ResourceDescriptor
	Cause    error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("deletion of %s rejected: %v", e.Resource, e.Cause)
}

func (e *DeletionError) Unwrap() error { return e.Cause }

// TagLookupError means the protection check could not read tags and degraded
// to fail-open. Recorded in the outcome detail for audit.
type TagLookupError struct {
	Resource types.ResourceDescriptor
	Cause    error
}

func (e *TagLookupError) Error() string {
	return fmt.Sprintf("tag lookup failed for %s: %v", e.Resource, e.Cause)
}

func (e *TagLookupError) Unwrap() error { return e.Cause }

// WaitError means post-deletion confirmation timed out or errored. The
// deletion itself was accepted; the resource is still counted deleted.
type WaitError struct {
	Resource types.ResourceDescriptor
	Timeout  bool
	Cause    error
}

func (e *WaitError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("wait-timeout confirming deletion of %s", e.Resource)
	}
	return fmt.Sprintf("wait failed confirming deletion of %s: %v", e.Resource, e.Cause)
}

func (e *WaitError) Unwrap() error { return e.Cause }

// FatalStartupError is the only error class that aborts a run before any
// deletion: no credentials, or no capability to enumerate scopes at all.
type FatalStartupError struct {
	Cause error
}

func (e *FatalStartupError) Error() string {
	return fmt.Sprintf("startup failed: %v", e.Cause)
}

func (e *FatalStartupError) Unwrap() error { return e.Cause }
