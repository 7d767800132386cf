package types

// ResourceDescriptor is the minimal handle an adapter returns per discovered
// resource. Identity is the human-readable label (bucket name, cluster id);
// ARN is whatever the kind's tag API needs and may equal Identity for kinds
// whose tag calls take the bare name. Never persisted across runs.
type ResourceDescriptor struct {
	Kind     string `json:"kind"`
	Scope    Scope  `json:"scope"`
	Identity string `json:"identity"`
	ARN      string `json:"arn"`
}

func (d ResourceDescriptor) String() string {
	return d.Kind + "/" + d.Identity + "@" + d.Scope.String()
}
