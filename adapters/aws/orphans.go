package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// orphanSnapshotAdapter sweeps EBS snapshots that no owned AMI references.
// Snapshots backing an AMI cannot be deleted anyway; reporting them would
// just fail.
type orphanSnapshotAdapter struct {
	p *Provider
}

func (a *orphanSnapshotAdapter) Kind() string                { return "ebs_snapshot" }
func (a *orphanSnapshotAdapter) Category() adapters.Category { return adapters.CategoryOrphans }
func (a *orphanSnapshotAdapter) Global() bool                { return false }

func (a *orphanSnapshotAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.ec2(scope.Region)

	referenced, err := amiSnapshotIDs(ctx, client)
	if err != nil {
		return nil, err
	}

	paginator := ec2.NewDescribeSnapshotsPaginator(client, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe snapshots: %w", err)
		}
		for _, snapshot := range page.Snapshots {
			id := aws.ToString(snapshot.SnapshotId)
			if referenced[id] {
				continue
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: id,
				ARN:      id,
			})
		}
	}
	return descriptors, nil
}

func (a *orphanSnapshotAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.ec2(d.Scope.Region).DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
		SnapshotId: aws.String(d.Identity),
	})
	return err
}

func (a *orphanSnapshotAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	return a.p.lookupEC2Tags(ctx, d.Scope.Region, d.Identity)
}

// amiSnapshotIDs collects the snapshot ids referenced by owned AMIs.
func amiSnapshotIDs(ctx context.Context, client *ec2.Client) (map[string]bool, error) {
	out, err := client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"self"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe images: %w", err)
	}
	return snapshotIDsFromImages(out.Images), nil
}

func snapshotIDsFromImages(images []ec2types.Image) map[string]bool {
	ids := make(map[string]bool)
	for _, image := range images {
		for _, mapping := range image.BlockDeviceMappings {
			if mapping.Ebs != nil && mapping.Ebs.SnapshotId != nil {
				ids[*mapping.Ebs.SnapshotId] = true
			}
		}
	}
	return ids
}
