package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// bareAdapter has no tag lookup capability.
type bareAdapter struct{}

func (bareAdapter) Kind() string                { return "bare_kind" }
func (bareAdapter) Category() adapters.Category { return adapters.CategoryServices }
func (bareAdapter) Global() bool                { return false }
func (bareAdapter) Discover(context.Context, types.Scope) ([]types.ResourceDescriptor, error) {
	return nil, nil
}
func (bareAdapter) Delete(context.Context, types.ResourceDescriptor) error { return nil }

// taggedAdapter adds tag lookup with canned results and a call counter.
type taggedAdapter struct {
	bareAdapter
	tags    map[string]string
	err     error
	lookups int
}

func (a *taggedAdapter) LookupTags(context.Context, types.ResourceDescriptor) (map[string]string, error) {
	a.lookups++
	if a.err != nil {
		return nil, a.err
	}
	return a.tags, nil
}

func descriptor() types.ResourceDescriptor {
	return types.ResourceDescriptor{
		Kind:     "bare_kind",
		Scope:    types.RegionalScope("us-east-1"),
		Identity: "res-1",
	}
}

func TestDecideNoRuleSkipsLookup(t *testing.T) {
	adapter := &taggedAdapter{tags: map[string]string{"keep": "true"}}
	f := New(nil)

	decision, detail := f.Decide(context.Background(), adapter, descriptor())

	assert.Equal(t, Proceed, decision)
	assert.Empty(t, detail)
	assert.Zero(t, adapter.lookups, "no rule configured, tags must not be fetched")
}

func TestDecideProtectedTag(t *testing.T) {
	adapter := &taggedAdapter{tags: map[string]string{"keep": "true"}}
	f := New(&types.ProtectionRule{Key: "keep", Value: "true"})

	decision, detail := f.Decide(context.Background(), adapter, descriptor())

	assert.Equal(t, Skip, decision)
	assert.Contains(t, detail, "protected by tag keep=true")
	assert.Equal(t, 1, adapter.lookups)
}

func TestDecideUnprotectedTag(t *testing.T) {
	adapter := &taggedAdapter{tags: map[string]string{"keep": "false"}}
	f := New(&types.ProtectionRule{Key: "keep", Value: "true"})

	decision, detail := f.Decide(context.Background(), adapter, descriptor())

	assert.Equal(t, Proceed, decision)
	assert.Empty(t, detail)
}

func TestDecideLookupFailureFailsOpen(t *testing.T) {
	adapter := &taggedAdapter{err: errors.New("throttled")}
	f := New(&types.ProtectionRule{Key: "keep", Value: "true"})

	decision, detail := f.Decide(context.Background(), adapter, descriptor())

	assert.Equal(t, Proceed, decision, "lookup failure must not halt the sweep")
	assert.Contains(t, detail, "protection check degraded")
	assert.Contains(t, detail, "throttled")
}

func TestDecideMissingCapabilityFailsOpen(t *testing.T) {
	f := New(&types.ProtectionRule{Key: "keep", Value: "true"})

	decision, detail := f.Decide(context.Background(), bareAdapter{}, descriptor())

	assert.Equal(t, Proceed, decision)
	assert.Contains(t, detail, "protection check unavailable")
	assert.Contains(t, detail, "bare_kind")
}
