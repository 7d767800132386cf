// Package filter decides skip vs proceed for discovered resources based on
// the operator's protection rule.
package filter

import (
	"context"
	"fmt"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// Decision is the filter verdict for one resource.
type Decision int

const (
	Proceed Decision = iota
	Skip
)

func (d Decision) String() string {
	if d == Skip {
		return "skip"
	}
	return "proceed"
}

// Filter applies one protection rule uniformly over structurally different
// resource kinds. Fail-open: a broken or missing tag API never halts the
// sweep, but the degradation is recorded for audit.
type Filter struct {
	rule *types.ProtectionRule
}

// New creates a filter. A nil rule disables filtering entirely.
func New(rule *types.ProtectionRule) *Filter {
	return &Filter{rule: rule}
}

// Decide returns the verdict for one descriptor plus a detail string for the
// audit trail. When no rule is configured the tag lookup is not attempted at
// all.
func (f *Filter) Decide(ctx context.Context, adapter adapters.ResourceAdapter, d types.ResourceDescriptor) (Decision, string) {
	if f.rule == nil {
		return Proceed, ""
	}

	lookuper, ok := adapter.(adapters.TagLookuper)
	if !ok {
		return Proceed, fmt.Sprintf("protection check unavailable: kind %s has no tag lookup", d.Kind)
	}

	tags, err := lookuper.LookupTags(ctx, d)
	if err != nil {
		lookupErr := &adapters.TagLookupError{Resource: d, Cause: err}
		return Proceed, "protection check degraded: " + lookupErr.Error()
	}

	if f.rule.Matches(tags) {
		return Skip, "protected by tag " + f.rule.String()
	}
	return Proceed, ""
}
