package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// ecrRepositoryAdapter sweeps ECR repositories including their images.
type ecrRepositoryAdapter struct {
	p *Provider
}

func (a *ecrRepositoryAdapter) Kind() string                { return "ecr_repository" }
func (a *ecrRepositoryAdapter) Category() adapters.Category { return adapters.CategoryServices }
func (a *ecrRepositoryAdapter) Global() bool                { return false }

func (a *ecrRepositoryAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.ecr(scope.Region)
	paginator := ecr.NewDescribeRepositoriesPaginator(client, &ecr.DescribeRepositoriesInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECR repositories: %w", err)
		}
		for _, repo := range page.Repositories {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(repo.RepositoryName),
				ARN:      aws.ToString(repo.RepositoryArn),
			})
		}
	}
	return descriptors, nil
}

func (a *ecrRepositoryAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	// Force removes the repository even when images remain.
	_, err := a.p.ecr(d.Scope.Region).DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: aws.String(d.Identity),
		Force:          true,
	})
	return err
}

func (a *ecrRepositoryAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.ecr(d.Scope.Region).ListTagsForResource(ctx, &ecr.ListTagsForResourceInput{
		ResourceArn: aws.String(d.ARN),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Tags), nil
}

// sqsQueueAdapter sweeps SQS queues.
type sqsQueueAdapter struct {
	p *Provider
}

func (a *sqsQueueAdapter) Kind() string                { return "sqs_queue" }
func (a *sqsQueueAdapter) Category() adapters.Category { return adapters.CategoryServices }
func (a *sqsQueueAdapter) Global() bool                { return false }

func (a *sqsQueueAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.sqs(scope.Region)
	paginator := sqs.NewListQueuesPaginator(client, &sqs.ListQueuesInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list SQS queues: %w", err)
		}
		for _, url := range page.QueueUrls {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: queueNameFromURL(url),
				ARN:      url, // SQS operations key on the URL
			})
		}
	}
	return descriptors, nil
}

func (a *sqsQueueAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.sqs(d.Scope.Region).DeleteQueue(ctx, &sqs.DeleteQueueInput{
		QueueUrl: aws.String(d.ARN),
	})
	return err
}

func (a *sqsQueueAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.sqs(d.Scope.Region).ListQueueTags(ctx, &sqs.ListQueueTagsInput{
		QueueUrl: aws.String(d.ARN),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Tags), nil
}

func queueNameFromURL(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// logGroupAdapter sweeps CloudWatch log groups.
type logGroupAdapter struct {
	p *Provider
}

func (a *logGroupAdapter) Kind() string                { return "log_group" }
func (a *logGroupAdapter) Category() adapters.Category { return adapters.CategoryServices }
func (a *logGroupAdapter) Global() bool                { return false }

func (a *logGroupAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.logs(scope.Region)
	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(client, &cloudwatchlogs.DescribeLogGroupsInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe log groups: %w", err)
		}
		for _, group := range page.LogGroups {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(group.LogGroupName),
				ARN:      aws.ToString(group.Arn),
			})
		}
	}
	return descriptors, nil
}

func (a *logGroupAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.logs(d.Scope.Region).DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: aws.String(d.Identity),
	})
	return err
}

func (a *logGroupAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	// DescribeLogGroups returns ARNs ending in ":*"; the tag API rejects
	// that form.
	arn := strings.TrimSuffix(d.ARN, ":*")
	out, err := a.p.logs(d.Scope.Region).ListTagsForResource(ctx, &cloudwatchlogs.ListTagsForResourceInput{
		ResourceArn: aws.String(arn),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Tags), nil
}

// cloudtrailTrailAdapter sweeps CloudTrail trails. Multi-region trails show
// up in every region's listing, so only the home region claims a trail.
type cloudtrailTrailAdapter struct {
	p *Provider
}

func (a *cloudtrailTrailAdapter) Kind() string                { return "cloudtrail_trail" }
func (a *cloudtrailTrailAdapter) Category() adapters.Category { return adapters.CategoryServices }
func (a *cloudtrailTrailAdapter) Global() bool                { return false }

func (a *cloudtrailTrailAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.cloudtrail(scope.Region)
	paginator := cloudtrail.NewListTrailsPaginator(client, &cloudtrail.ListTrailsInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list trails: %w", err)
		}
		for _, trail := range page.Trails {
			if aws.ToString(trail.HomeRegion) != scope.Region {
				continue
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(trail.Name),
				ARN:      aws.ToString(trail.TrailARN),
			})
		}
	}
	return descriptors, nil
}

func (a *cloudtrailTrailAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.cloudtrail(d.Scope.Region).DeleteTrail(ctx, &cloudtrail.DeleteTrailInput{
		Name: aws.String(d.ARN),
	})
	return err
}

func (a *cloudtrailTrailAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.cloudtrail(d.Scope.Region).ListTags(ctx, &cloudtrail.ListTagsInput{
		ResourceIdList: []string{d.ARN},
	})
	if err != nil {
		return nil, err
	}
	if len(out.ResourceTagList) == 0 {
		return map[string]string{}, nil
	}
	return convertTags(out.ResourceTagList[0].TagsList), nil
}
