package aws

import (
	"context"
	"errors"
	"strconv"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedECS serves canned ListServices pages keyed by NextToken.
type pagedECS struct {
	pages [][]string
	calls int
	err   error
}

func (c *pagedECS) ListServices(_ context.Context, params *ecs.ListServicesInput, _ ...func(*ecs.Options)) (*ecs.ListServicesOutput, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}

	page := 0
	if params.NextToken != nil {
		page, _ = strconv.Atoi(*params.NextToken)
	}

	out := &ecs.ListServicesOutput{ServiceArns: c.pages[page]}
	if page+1 < len(c.pages) {
		out.NextToken = awssdk.String(strconv.Itoa(page + 1))
	}
	return out, nil
}

// pagedEKS serves canned ListNodegroups pages keyed by NextToken.
type pagedEKS struct {
	pages [][]string
	calls int
}

func (c *pagedEKS) ListNodegroups(_ context.Context, params *eks.ListNodegroupsInput, _ ...func(*eks.Options)) (*eks.ListNodegroupsOutput, error) {
	c.calls++

	page := 0
	if params.NextToken != nil {
		page, _ = strconv.Atoi(*params.NextToken)
	}

	out := &eks.ListNodegroupsOutput{Nodegroups: c.pages[page]}
	if page+1 < len(c.pages) {
		out.NextToken = awssdk.String(strconv.Itoa(page + 1))
	}
	return out, nil
}

func TestListServiceARNsDrainsAllPages(t *testing.T) {
	// ECS caps ListServices at ten ARNs per page; a cluster with more
	// services than that must still be drained completely.
	client := &pagedECS{pages: [][]string{
		{"svc-1", "svc-2", "svc-3"},
		{"svc-4", "svc-5"},
		{"svc-6"},
	}}

	arns, err := listServiceARNs(context.Background(), client, "arn:aws:ecs:eu-north-1:123456789012:cluster/big")
	require.NoError(t, err)

	assert.Equal(t, []string{"svc-1", "svc-2", "svc-3", "svc-4", "svc-5", "svc-6"}, arns)
	assert.Equal(t, 3, client.calls)
}

func TestListServiceARNsSinglePage(t *testing.T) {
	client := &pagedECS{pages: [][]string{{"svc-1"}}}

	arns, err := listServiceARNs(context.Background(), client, "cluster")
	require.NoError(t, err)

	assert.Equal(t, []string{"svc-1"}, arns)
	assert.Equal(t, 1, client.calls)
}

func TestListServiceARNsPropagatesError(t *testing.T) {
	client := &pagedECS{err: errors.New("throttled")}

	_, err := listServiceARNs(context.Background(), client, "cluster")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list services")
}

func TestListNodegroupNamesDrainsAllPages(t *testing.T) {
	client := &pagedEKS{pages: [][]string{
		{"ng-1", "ng-2"},
		{"ng-3"},
	}}

	names, err := listNodegroupNames(context.Background(), client, "prod")
	require.NoError(t, err)

	assert.Equal(t, []string{"ng-1", "ng-2", "ng-3"}, names)
	assert.Equal(t, 2, client.calls)
}
