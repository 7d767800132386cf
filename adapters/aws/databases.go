package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/memorydb"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/redshift"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// rdsInstanceAdapter sweeps RDS instances. Final snapshots are skipped so
// teardown terminates without leaving a parked billable artifact; that data
// loss is the trade-off the operator accepts by running the tool.
type rdsInstanceAdapter struct {
	p *Provider
}

func (a *rdsInstanceAdapter) Kind() string                { return "rds_instance" }
func (a *rdsInstanceAdapter) Category() adapters.Category { return adapters.CategoryData }
func (a *rdsInstanceAdapter) Global() bool                { return false }

func (a *rdsInstanceAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.rds(scope.Region)
	paginator := rds.NewDescribeDBInstancesPaginator(client, &rds.DescribeDBInstancesInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe RDS instances: %w", err)
		}
		for _, instance := range page.DBInstances {
			if aws.ToString(instance.DBInstanceStatus) == "deleting" {
				continue
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(instance.DBInstanceIdentifier),
				ARN:      aws.ToString(instance.DBInstanceArn),
			})
		}
	}
	return descriptors, nil
}

func (a *rdsInstanceAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.rds(d.Scope.Region).DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier:   aws.String(d.Identity),
		SkipFinalSnapshot:      aws.Bool(true),
		DeleteAutomatedBackups: aws.Bool(true),
	})
	return err
}

func (a *rdsInstanceAdapter) AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error {
	waiter := rds.NewDBInstanceDeletedWaiter(a.p.rds(d.Scope.Region))
	return waiter.Wait(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(d.Identity),
	}, maxWait(ctx))
}

func (a *rdsInstanceAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	return lookupRDSTags(ctx, a.p.rds(d.Scope.Region), d.ARN)
}

// rdsSnapshotAdapter sweeps manual DB snapshots. Automated snapshots go away
// with their instance; manual ones linger and bill forever.
type rdsSnapshotAdapter struct {
	p *Provider
}

func (a *rdsSnapshotAdapter) Kind() string                { return "rds_snapshot" }
func (a *rdsSnapshotAdapter) Category() adapters.Category { return adapters.CategoryData }
func (a *rdsSnapshotAdapter) Global() bool                { return false }

func (a *rdsSnapshotAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.rds(scope.Region)
	paginator := rds.NewDescribeDBSnapshotsPaginator(client, &rds.DescribeDBSnapshotsInput{
		SnapshotType: aws.String("manual"),
	})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe DB snapshots: %w", err)
		}
		for _, snapshot := range page.DBSnapshots {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(snapshot.DBSnapshotIdentifier),
				ARN:      aws.ToString(snapshot.DBSnapshotArn),
			})
		}
	}
	return descriptors, nil
}

func (a *rdsSnapshotAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.rds(d.Scope.Region).DeleteDBSnapshot(ctx, &rds.DeleteDBSnapshotInput{
		DBSnapshotIdentifier: aws.String(d.Identity),
	})
	return err
}

func (a *rdsSnapshotAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	return lookupRDSTags(ctx, a.p.rds(d.Scope.Region), d.ARN)
}

func lookupRDSTags(ctx context.Context, client *rds.Client, arn string) (map[string]string, error) {
	out, err := client.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
		ResourceName: aws.String(arn),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.TagList), nil
}

// dynamoTableAdapter sweeps DynamoDB tables.
type dynamoTableAdapter struct {
	p *Provider
}

func (a *dynamoTableAdapter) Kind() string                { return "dynamodb_table" }
func (a *dynamoTableAdapter) Category() adapters.Category { return adapters.CategoryData }
func (a *dynamoTableAdapter) Global() bool                { return false }

func (a *dynamoTableAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.dynamodb(scope.Region)
	paginator := dynamodb.NewListTablesPaginator(client, &dynamodb.ListTablesInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list DynamoDB tables: %w", err)
		}
		for _, name := range page.TableNames {
			// The tag API wants the ARN, which only DescribeTable provides.
			described, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
				TableName: aws.String(name),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe table %s: %w", name, err)
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: name,
				ARN:      aws.ToString(described.Table.TableArn),
			})
		}
	}
	return descriptors, nil
}

func (a *dynamoTableAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.dynamodb(d.Scope.Region).DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(d.Identity),
	})
	return err
}

func (a *dynamoTableAdapter) AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error {
	waiter := dynamodb.NewTableNotExistsWaiter(a.p.dynamodb(d.Scope.Region))
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.Identity),
	}, maxWait(ctx))
}

func (a *dynamoTableAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.dynamodb(d.Scope.Region).ListTagsOfResource(ctx, &dynamodb.ListTagsOfResourceInput{
		ResourceArn: aws.String(d.ARN),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.Tags), nil
}

// memorydbClusterAdapter sweeps MemoryDB clusters. Omitting the final
// snapshot name means none is taken.
type memorydbClusterAdapter struct {
	p *Provider
}

func (a *memorydbClusterAdapter) Kind() string                { return "memorydb_cluster" }
func (a *memorydbClusterAdapter) Category() adapters.Category { return adapters.CategoryData }
func (a *memorydbClusterAdapter) Global() bool                { return false }

func (a *memorydbClusterAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.memorydb(scope.Region)
	paginator := memorydb.NewDescribeClustersPaginator(client, &memorydb.DescribeClustersInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe MemoryDB clusters: %w", err)
		}
		for _, cluster := range page.Clusters {
			if aws.ToString(cluster.Status) == "deleting" {
				continue
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(cluster.Name),
				ARN:      aws.ToString(cluster.ARN),
			})
		}
	}
	return descriptors, nil
}

func (a *memorydbClusterAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.memorydb(d.Scope.Region).DeleteCluster(ctx, &memorydb.DeleteClusterInput{
		ClusterName: aws.String(d.Identity),
	})
	return err
}

func (a *memorydbClusterAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.memorydb(d.Scope.Region).ListTags(ctx, &memorydb.ListTagsInput{
		ResourceArn: aws.String(d.ARN),
	})
	if err != nil {
		return nil, err
	}
	return convertTags(out.TagList), nil
}

// redshiftClusterAdapter sweeps Redshift clusters, skipping the final
// cluster snapshot for the same reason RDS does.
type redshiftClusterAdapter struct {
	p *Provider
}

func (a *redshiftClusterAdapter) Kind() string                { return "redshift_cluster" }
func (a *redshiftClusterAdapter) Category() adapters.Category { return adapters.CategoryData }
func (a *redshiftClusterAdapter) Global() bool                { return false }

func (a *redshiftClusterAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.redshift(scope.Region)
	paginator := redshift.NewDescribeClustersPaginator(client, &redshift.DescribeClustersInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe Redshift clusters: %w", err)
		}
		for _, cluster := range page.Clusters {
			id := aws.ToString(cluster.ClusterIdentifier)
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: id,
				ARN:      id, // tag lookup re-describes by identifier
			})
		}
	}
	return descriptors, nil
}

func (a *redshiftClusterAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.redshift(d.Scope.Region).DeleteCluster(ctx, &redshift.DeleteClusterInput{
		ClusterIdentifier:        aws.String(d.Identity),
		SkipFinalClusterSnapshot: aws.Bool(true),
	})
	return err
}

func (a *redshiftClusterAdapter) AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error {
	waiter := redshift.NewClusterDeletedWaiter(a.p.redshift(d.Scope.Region))
	return waiter.Wait(ctx, &redshift.DescribeClustersInput{
		ClusterIdentifier: aws.String(d.Identity),
	}, maxWait(ctx))
}

func (a *redshiftClusterAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.redshift(d.Scope.Region).DescribeClusters(ctx, &redshift.DescribeClustersInput{
		ClusterIdentifier: aws.String(d.Identity),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Clusters) == 0 {
		return map[string]string{}, nil
	}
	return convertTags(out.Clusters[0].Tags), nil
}
