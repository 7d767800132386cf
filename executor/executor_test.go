package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

type fakeAdapter struct {
	deleteErr error
	deletes   int
}

func (a *fakeAdapter) Kind() string                { return "fake_kind" }
func (a *fakeAdapter) Category() adapters.Category { return adapters.CategoryData }
func (a *fakeAdapter) Global() bool                { return false }
func (a *fakeAdapter) Discover(context.Context, types.Scope) ([]types.ResourceDescriptor, error) {
	return nil, nil
}
func (a *fakeAdapter) Delete(context.Context, types.ResourceDescriptor) error {
	a.deletes++
	return a.deleteErr
}

// waitingAdapter adds a confirmation wait with a canned result.
type waitingAdapter struct {
	fakeAdapter
	waitErr  error
	blockCtx bool
	awaited  int
}

func (a *waitingAdapter) AwaitTerminal(ctx context.Context, _ types.ResourceDescriptor) error {
	a.awaited++
	if a.blockCtx {
		<-ctx.Done()
		return ctx.Err()
	}
	return a.waitErr
}

func descriptor() types.ResourceDescriptor {
	return types.ResourceDescriptor{
		Kind:     "fake_kind",
		Scope:    types.RegionalScope("eu-north-1"),
		Identity: "db-1",
		ARN:      "arn:aws:fake:eu-north-1::db-1",
	}
}

func TestApplyDryRunNeverDeletes(t *testing.T) {
	adapter := &fakeAdapter{}
	mode := NewMode(true, 0)

	outcome := mode.Apply(context.Background(), adapter, descriptor())

	assert.Zero(t, adapter.deletes, "preview mode must not invoke deletion")
	assert.Equal(t, types.ActionDeleted, outcome.Action)
	assert.Contains(t, outcome.Detail, "dry-run: would delete db-1")
	assert.Contains(t, outcome.Detail, "arn:aws:fake:eu-north-1::db-1", "preview carries resolved arguments")
}

func TestApplyDeletes(t *testing.T) {
	adapter := &fakeAdapter{}
	mode := NewMode(false, 0)

	outcome := mode.Apply(context.Background(), adapter, descriptor())

	assert.Equal(t, 1, adapter.deletes)
	assert.Equal(t, types.ActionDeleted, outcome.Action)
	assert.Equal(t, "deletion requested", outcome.Detail)
}

func TestApplyDeletionFailureIsContained(t *testing.T) {
	adapter := &fakeAdapter{deleteErr: errors.New("access denied")}
	mode := NewMode(false, 0)

	outcome := mode.Apply(context.Background(), adapter, descriptor())

	assert.Equal(t, types.ActionFailed, outcome.Action)
	assert.Contains(t, outcome.Detail, "access denied")
}

func TestApplyConfirmsTerminalState(t *testing.T) {
	adapter := &waitingAdapter{}
	mode := NewMode(false, 0)

	outcome := mode.Apply(context.Background(), adapter, descriptor())

	assert.Equal(t, 1, adapter.awaited)
	assert.Equal(t, types.ActionDeleted, outcome.Action)
	assert.Equal(t, "deletion confirmed", outcome.Detail)
}

func TestApplyWaitTimeoutDegradesToWarning(t *testing.T) {
	adapter := &waitingAdapter{blockCtx: true}
	mode := NewMode(false, 20*time.Millisecond)

	outcome := mode.Apply(context.Background(), adapter, descriptor())

	assert.Equal(t, types.ActionDeleted, outcome.Action, "wait timeout is not a deletion failure")
	assert.Contains(t, outcome.Detail, "deletion requested,")
	assert.Contains(t, outcome.Detail, "wait-timeout")
}

func TestApplyWaitErrorKeepsDeletedAction(t *testing.T) {
	adapter := &waitingAdapter{fakeAdapter: fakeAdapter{}, waitErr: errors.New("poll refused")}
	mode := NewMode(false, 0)

	outcome := mode.Apply(context.Background(), adapter, descriptor())

	assert.Equal(t, types.ActionDeleted, outcome.Action)
	assert.Contains(t, outcome.Detail, "poll refused")
}

func TestNewModeDefaultsWaitTimeout(t *testing.T) {
	mode := NewMode(false, 0)
	assert.Equal(t, DefaultWaitTimeout, mode.WaitTimeout)

	mode = NewMode(false, time.Minute)
	assert.Equal(t, time.Minute, mode.WaitTimeout)
}
