package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// eksClusterAdapter sweeps EKS clusters. Managed node groups are attached
// sub-resources: they get deleted and awaited before their parent cluster.
type eksClusterAdapter struct {
	p *Provider
}

func (a *eksClusterAdapter) Kind() string                { return "eks_cluster" }
func (a *eksClusterAdapter) Category() adapters.Category { return adapters.CategoryControlPlane }
func (a *eksClusterAdapter) Global() bool                { return false }

func (a *eksClusterAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.eks(scope.Region)
	paginator := eks.NewListClustersPaginator(client, &eks.ListClustersInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list EKS clusters: %w", err)
		}
		for _, name := range page.Clusters {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: name,
				ARN:      name, // tag lookup goes through DescribeCluster by name
			})
		}
	}
	return descriptors, nil
}

func (a *eksClusterAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	client := a.p.eks(d.Scope.Region)

	// Node groups block cluster deletion; drain them first.
	nodegroups, err := listNodegroupNames(ctx, client, d.Identity)
	if err != nil {
		return err
	}

	for _, nodegroup := range nodegroups {
		_, err := client.DeleteNodegroup(ctx, &eks.DeleteNodegroupInput{
			ClusterName:   aws.String(d.Identity),
			NodegroupName: aws.String(nodegroup),
		})
		if err != nil {
			return fmt.Errorf("failed to delete node group %s: %w", nodegroup, err)
		}

		waiter := eks.NewNodegroupDeletedWaiter(client)
		err = waiter.Wait(ctx, &eks.DescribeNodegroupInput{
			ClusterName:   aws.String(d.Identity),
			NodegroupName: aws.String(nodegroup),
		}, maxWait(ctx))
		if err != nil {
			return fmt.Errorf("node group %s not gone: %w", nodegroup, err)
		}
	}

	_, err = client.DeleteCluster(ctx, &eks.DeleteClusterInput{
		Name: aws.String(d.Identity),
	})
	return err
}

// listNodegroupNames drains the node group listing across all pages.
func listNodegroupNames(ctx context.Context, client eks.ListNodegroupsAPIClient, cluster string) ([]string, error) {
	paginator := eks.NewListNodegroupsPaginator(client, &eks.ListNodegroupsInput{
		ClusterName: aws.String(cluster),
	})

	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list node groups: %w", err)
		}
		names = append(names, page.Nodegroups...)
	}
	return names, nil
}

func (a *eksClusterAdapter) AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error {
	waiter := eks.NewClusterDeletedWaiter(a.p.eks(d.Scope.Region))
	return waiter.Wait(ctx, &eks.DescribeClusterInput{
		Name: aws.String(d.Identity),
	}, maxWait(ctx))
}

func (a *eksClusterAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.eks(d.Scope.Region).DescribeCluster(ctx, &eks.DescribeClusterInput{
		Name: aws.String(d.Identity),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Cluster.Tags), nil
}

// ecsClusterAdapter sweeps ECS clusters, draining services to zero before
// deletion the way a manual teardown would.
type ecsClusterAdapter struct {
	p *Provider
}

func (a *ecsClusterAdapter) Kind() string                { return "ecs_cluster" }
func (a *ecsClusterAdapter) Category() adapters.Category { return adapters.CategoryControlPlane }
func (a *ecsClusterAdapter) Global() bool                { return false }

func (a *ecsClusterAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.ecs(scope.Region)
	paginator := ecs.NewListClustersPaginator(client, &ecs.ListClustersInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ECS clusters: %w", err)
		}
		if len(page.ClusterArns) == 0 {
			continue
		}

		described, err := client.DescribeClusters(ctx, &ecs.DescribeClustersInput{
			Clusters: page.ClusterArns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECS clusters: %w", err)
		}

		for _, cluster := range described.Clusters {
			if aws.ToString(cluster.Status) == "INACTIVE" {
				continue
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(cluster.ClusterName),
				ARN:      aws.ToString(cluster.ClusterArn),
			})
		}
	}
	return descriptors, nil
}

func (a *ecsClusterAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	client := a.p.ecs(d.Scope.Region)

	services, err := listServiceARNs(ctx, client, d.ARN)
	if err != nil {
		return err
	}

	for _, serviceArn := range services {
		_, err := client.UpdateService(ctx, &ecs.UpdateServiceInput{
			Cluster:      aws.String(d.ARN),
			Service:      aws.String(serviceArn),
			DesiredCount: aws.Int32(0),
		})
		if err != nil {
			return fmt.Errorf("failed to drain service %s: %w", serviceArn, err)
		}

		_, err = client.DeleteService(ctx, &ecs.DeleteServiceInput{
			Cluster: aws.String(d.ARN),
			Service: aws.String(serviceArn),
			Force:   aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to delete service %s: %w", serviceArn, err)
		}
	}

	_, err = client.DeleteCluster(ctx, &ecs.DeleteClusterInput{
		Cluster: aws.String(d.ARN),
	})
	return err
}

// listServiceARNs drains the service listing across all pages. ListServices
// returns at most ten ARNs per page; stopping at the first page leaves
// services alive and DeleteCluster rejected.
func listServiceARNs(ctx context.Context, client ecs.ListServicesAPIClient, cluster string) ([]string, error) {
	paginator := ecs.NewListServicesPaginator(client, &ecs.ListServicesInput{
		Cluster: aws.String(cluster),
	})

	var arns []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}
		arns = append(arns, page.ServiceArns...)
	}
	return arns, nil
}

func (a *ecsClusterAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.ecs(d.Scope.Region).ListTagsForResource(ctx, &ecs.ListTagsForResourceInput{
		ResourceArn: aws.String(d.ARN),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Tags), nil
}

// lambdaFunctionAdapter sweeps Lambda functions.
type lambdaFunctionAdapter struct {
	p *Provider
}

func (a *lambdaFunctionAdapter) Kind() string                { return "lambda_function" }
func (a *lambdaFunctionAdapter) Category() adapters.Category { return adapters.CategoryControlPlane }
func (a *lambdaFunctionAdapter) Global() bool                { return false }

func (a *lambdaFunctionAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.lambda(scope.Region)
	paginator := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list Lambda functions: %w", err)
		}
		for _, fn := range page.Functions {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(fn.FunctionName),
				ARN:      aws.ToString(fn.FunctionArn),
			})
		}
	}
	return descriptors, nil
}

func (a *lambdaFunctionAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.lambda(d.Scope.Region).DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(d.Identity),
	})
	return err
}

func (a *lambdaFunctionAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.lambda(d.Scope.Region).ListTags(ctx, &lambda.ListTagsInput{
		Resource: aws.String(d.ARN),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Tags), nil
}
