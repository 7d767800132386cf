package types

// Action is what happened to one discovered resource.
type Action string

const (
	ActionDeleted Action = "deleted"
	ActionSkipped Action = "skipped"
	ActionFailed  Action = "failed"
)

// Outcome records what happened to one resource. The accumulated ordered
// sequence is the run's audit trail; never mutated after append.
type Outcome struct {
	Descriptor ResourceDescriptor `json:"descriptor"`
	Category   string             `json:"category"`
	Action     Action             `json:"action"`
	Detail     string             `json:"detail,omitempty"`
}

// Options is the immutable run configuration threaded through constructors.
// It is never read from ambient process state so the engine stays testable
// without process-level fixtures.
type Options struct {
	DryRun bool
	Rule   *ProtectionRule
}
