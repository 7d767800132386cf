// Package report accumulates per-resource outcomes and renders the run
// summary an operator reconciles against.
package report

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/yairfalse/raivaus/types"
)

// untouched enumerates the resource classes the sweep never has authority
// over. This is a standing documented boundary of the tool, not a runtime
// decision.
var untouched = []string{
	"EC2 instances and their attached EBS volumes",
	"VPC topology: VPCs, subnets, route tables, internet gateways",
	"security groups and network ACLs",
	"IAM users, roles, and policies",
	"Route53 hosted zones and records",
	"account and organization level settings",
}

// Reporter is the single sink for outcomes. Appends are serialized; the
// outcome log is append-only and ordered.
type Reporter struct {
	mu       sync.Mutex
	outcomes []types.Outcome
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Record appends one outcome to the audit trail.
func (r *Reporter) Record(o types.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Outcomes returns a copy of the audit trail in append order.
func (r *Reporter) Outcomes() []types.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Summary is the partitioned view of a finished run.
type Summary struct {
	Deleted int
	Skipped int
	Failed  int
	// ByGroup counts outcomes per (category, kind) per action.
	ByGroup map[Group]Counts
}

// Group keys the per-kind partition.
type Group struct {
	Category string
	Kind     string
}

// Counts are the per-group action tallies.
type Counts struct {
	Deleted int
	Skipped int
	Failed  int
}

// Summarize partitions the recorded outcomes by action and (category, kind).
func (r *Reporter) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{ByGroup: make(map[Group]Counts)}
	for _, o := range r.outcomes {
		g := Group{Category: o.Category, Kind: o.Descriptor.Kind}
		c := s.ByGroup[g]
		switch o.Action {
		case types.ActionDeleted:
			s.Deleted++
			c.Deleted++
		case types.ActionSkipped:
			s.Skipped++
			c.Skipped++
		case types.ActionFailed:
			s.Failed++
			c.Failed++
		}
		s.ByGroup[g] = c
	}
	return s
}

// Render writes the full report: every attempted action individually, the
// per-kind partition, totals, and the fixed authority boundary statement.
func (r *Reporter) Render(w io.Writer, dryRun bool) {
	outcomes := r.Outcomes()
	summary := r.Summarize()

	header := "sweep report"
	if dryRun {
		header = "sweep report (preview, nothing deleted)"
	}
	fmt.Fprintf(w, "%s\n\n", header)

	for _, o := range outcomes {
		fmt.Fprintf(w, "  %-8s %s", o.Action, o.Descriptor)
		if o.Detail != "" {
			fmt.Fprintf(w, "  (%s)", o.Detail)
		}
		fmt.Fprintln(w)
	}

	groups := make([]Group, 0, len(summary.ByGroup))
	for g := range summary.ByGroup {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Category != groups[j].Category {
			return groups[i].Category < groups[j].Category
		}
		return groups[i].Kind < groups[j].Kind
	})

	fmt.Fprintf(w, "\nby kind:\n")
	for _, g := range groups {
		c := summary.ByGroup[g]
		fmt.Fprintf(w, "  %-14s %-22s deleted=%d skipped=%d failed=%d\n",
			g.Category, g.Kind, c.Deleted, c.Skipped, c.Failed)
	}

	fmt.Fprintf(w, "\ntotal: deleted=%d skipped=%d failed=%d\n",
		summary.Deleted, summary.Skipped, summary.Failed)

	fmt.Fprintf(w, "\nthis tool never touches:\n")
	for _, class := range untouched {
		fmt.Fprintf(w, "  - %s\n", class)
	}
}
