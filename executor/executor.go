// Package executor wraps every mutating call so the same adapter code paths
// run in preview or live mode.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// DefaultWaitTimeout bounds post-deletion confirmation polling. AwaitTerminal
// is the one operation expected to block for extended periods and never gets
// an unbounded wait.
const DefaultWaitTimeout = 5 * time.Minute

// Mode is the dry-run/execute duality. One resource's failure never stops
// the sweep: deletion errors are converted to failed outcomes, not
// propagated.
type Mode struct {
	DryRun      bool
	WaitTimeout time.Duration
}

// NewMode creates an execution mode with a bounded wait timeout.
func NewMode(dryRun bool, waitTimeout time.Duration) Mode {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return Mode{DryRun: dryRun, WaitTimeout: waitTimeout}
}

// Apply performs (or previews) the deletion of one resource and returns its
// outcome. In preview mode the underlying capability is never invoked; the
// detail carries the fully resolved arguments so the preview is byte-faithful
// to what execute mode would do.
func (m Mode) Apply(ctx context.Context, adapter adapters.ResourceAdapter, d types.ResourceDescriptor) types.Outcome {
	outcome := types.Outcome{
		Descriptor: d,
		Category:   string(adapter.Category()),
		Action:     types.ActionDeleted,
	}

	if m.DryRun {
		outcome.Detail = fmt.Sprintf("dry-run: would delete %s (kind=%s arn=%s scope=%s)",
			d.Identity, d.Kind, d.ARN, d.Scope)
		return outcome
	}

	if err := adapter.Delete(ctx, d); err != nil {
		delErr := &adapters.DeletionError{Resource: d, Cause: err}
		outcome.Action = types.ActionFailed
		outcome.Detail = delErr.Error()
		return outcome
	}

	// Deletion was requested successfully. Confirmation is best-effort:
	// a wait timeout degrades to a warning, the action stays deleted.
	if waiter, ok := adapter.(adapters.TerminalWaiter); ok {
		if detail := m.awaitTerminal(ctx, waiter, d); detail != "" {
			outcome.Detail = detail
			return outcome
		}
		outcome.Detail = "deletion confirmed"
		return outcome
	}

	outcome.Detail = "deletion requested"
	return outcome
}

func (m Mode) awaitTerminal(ctx context.Context, waiter adapters.TerminalWaiter, d types.ResourceDescriptor) string {
	waitCtx, cancel := context.WithTimeout(ctx, m.WaitTimeout)
	defer cancel()

	err := waiter.AwaitTerminal(waitCtx, d)
	if err == nil {
		return ""
	}

	waitErr := &adapters.WaitError{
		Resource: d,
		Timeout:  waitCtx.Err() == context.DeadlineExceeded,
		Cause:    err,
	}
	return "deletion requested, " + waitErr.Error()
}
