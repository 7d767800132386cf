package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yairfalse/raivaus/types"
)

func outcome(kind, category, identity string, action types.Action, detail string) types.Outcome {
	return types.Outcome{
		Descriptor: types.ResourceDescriptor{
			Kind:     kind,
			Scope:    types.RegionalScope("eu-north-1"),
			Identity: identity,
		},
		Category: category,
		Action:   action,
		Detail:   detail,
	}
}

func TestSummarize(t *testing.T) {
	r := NewReporter()
	r.Record(outcome("rds_instance", "data", "db-1", types.ActionDeleted, ""))
	r.Record(outcome("rds_instance", "data", "db-2", types.ActionSkipped, "protected by tag keep=true"))
	r.Record(outcome("rds_instance", "data", "db-3", types.ActionFailed, "deletion rejected"))
	r.Record(outcome("sqs_queue", "services", "q-1", types.ActionDeleted, ""))

	s := r.Summarize()

	assert.Equal(t, 2, s.Deleted)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)

	rds := s.ByGroup[Group{Category: "data", Kind: "rds_instance"}]
	assert.Equal(t, Counts{Deleted: 1, Skipped: 1, Failed: 1}, rds)

	sqs := s.ByGroup[Group{Category: "services", Kind: "sqs_queue"}]
	assert.Equal(t, Counts{Deleted: 1}, sqs)
}

func TestOutcomesPreserveOrder(t *testing.T) {
	r := NewReporter()
	r.Record(outcome("a", "data", "first", types.ActionDeleted, ""))
	r.Record(outcome("b", "data", "second", types.ActionDeleted, ""))

	got := r.Outcomes()
	assert.Equal(t, "first", got[0].Descriptor.Identity)
	assert.Equal(t, "second", got[1].Descriptor.Identity)
}

func TestRenderPreviewHeader(t *testing.T) {
	r := NewReporter()
	r.Record(outcome("s3_bucket", "services", "b-1", types.ActionDeleted, "dry-run: would delete b-1"))

	var sb strings.Builder
	r.Render(&sb, true)
	out := sb.String()

	assert.Contains(t, out, "preview, nothing deleted")
	assert.Contains(t, out, "s3_bucket/b-1@eu-north-1")
	assert.Contains(t, out, "total: deleted=1 skipped=0 failed=0")
}

func TestRenderStatesAuthorityBoundary(t *testing.T) {
	r := NewReporter()

	var sb strings.Builder
	r.Render(&sb, false)
	out := sb.String()

	// The untouched classes are a fixed part of every report.
	assert.Contains(t, out, "this tool never touches:")
	assert.Contains(t, out, "EC2 instances")
	assert.Contains(t, out, "IAM users, roles, and policies")
	assert.Contains(t, out, "VPC topology")
}
